package handlers

import (
	"log"
	"net/http"

	"library-api/internal/apperr"
	"library-api/internal/middleware"
	"library-api/internal/recommend"
)

// RecommendationsHandler obsługuje rekomendacje książek
type RecommendationsHandler struct {
	engine *recommend.Engine
	logger *log.Logger
}

// NewRecommendationsHandler tworzy handler rekomendacji
func NewRecommendationsHandler(engine *recommend.Engine, logger *log.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{engine: engine, logger: logger}
}

// GetRecommendations zwraca rekomendacje dla uwierzytelnionego użytkownika
// (GET /rec). Format odpowiedzi to lista obiektów {klucz: [tytuły...]}
// posortowana malejąco po liczbie tytułów.
func (h *RecommendationsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperr.ErrUnauthorized)
		return
	}

	entries, err := h.engine.Recommend(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	payload := make([]map[string][]string, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, map[string][]string{entry.Key: entry.Titles})
	}

	respondJSON(w, http.StatusOK, payload)
}

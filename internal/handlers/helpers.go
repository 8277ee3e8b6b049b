// Package handlers zawiera handlery JSON API. Każdy handler dostaje swoje
// zależności przez konstruktor.
package handlers

import (
	"log"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"library-api/internal/apperr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// respondJSON serializuje payload i wysyła go z podanym statusem
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Błąd serializacji odpowiedzi: %v", err)
		}
	}
}

// messageResponse to standardowa odpowiedź z komunikatem
type messageResponse struct {
	Message string `json:"message"`
}

// respondMessage wysyła odpowiedź {"message": ...}
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// respondError mapuje błąd na status HTTP. Sklasyfikowane błędy idą do
// klienta wprost; nieoczekiwane (magazyn danych, współpracownicy) trafiają
// w szczegółach tylko do logów, klient dostaje komunikat ogólny.
func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Printf("Nieoczekiwany błąd: %v", err)
		respondMessage(w, status, apperr.ErrInternal.Error())
		return
	}
	respondMessage(w, status, err.Error())
}

package handlers

import (
	"log"
	"net/http"

	"library-api/internal/auth"
	"library-api/internal/models"
	"library-api/internal/store"
)

// AuthHandler obsługuje rejestrację i logowanie użytkowników
type AuthHandler struct {
	store  store.Store
	issuer *auth.TokenIssuer
	logger *log.Logger
}

// NewAuthHandler tworzy handler uwierzytelniania
func NewAuthHandler(s store.Store, issuer *auth.TokenIssuer, logger *log.Logger) *AuthHandler {
	return &AuthHandler{store: s, issuer: issuer, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register rejestruje nowego użytkownika (POST /user/register).
// Publiczny endpoint zawsze nadaje rolę "user" - konta administratorów
// tworzy narzędzie cmd/create_admin.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Nieprawidłowe dane JSON")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Imię, email i hasło są wymagane")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	user := &models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      hash,
		Role:          models.RoleUser,
		BorrowedBooks: []string{},
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		h.logger.Printf("Rejestracja nieudana dla %s: %v", req.Email, err)
		respondError(w, h.logger, err)
		return
	}

	h.logger.Printf("Zarejestrowano nowego użytkownika %s", req.Email)
	respondMessage(w, http.StatusCreated, "Zarejestrowano nowego użytkownika")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login weryfikuje hasło i wystawia token dostępu (POST /user/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Nieprawidłowe dane JSON")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	// Jedna odpowiedź dla nieznanego emaila i złego hasła
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		h.logger.Printf("Logowanie nieudane dla %s", req.Email)
		respondMessage(w, http.StatusUnauthorized, "Nieprawidłowy email lub hasło")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Printf("Użytkownik %s zalogowany", req.Email)
	respondJSON(w, http.StatusOK, loginResponse{Message: "Zalogowano", Token: token})
}

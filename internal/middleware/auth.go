// Package middleware zawiera warstwę pośrednią HTTP: uwierzytelnianie
// tokenem Bearer, kontrolę ról i limity żądań.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"library-api/internal/auth"
	"library-api/internal/models"
)

// Klucze do przechowywania wartości w context
type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// Authenticate weryfikuje token Bearer i wstawia tożsamość użytkownika do
// kontekstu żądania. Handlery odczytują ją jawnie przez UserIDFromContext -
// żadna warstwa nie dopisuje wyników uwierzytelnienia do ciała żądania.
func Authenticate(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Wymagany token autoryzacji")
				return
			}

			// Sprawdź format: "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSONError(w, http.StatusUnauthorized, "Nieprawidłowy format nagłówka Authorization")
				return
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Nieprawidłowy token, zaloguj się ponownie")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole wymaga określonej roli. Admin ma dostęp do wszystkiego.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value(userRoleKey).(models.UserRole)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Brak danych o roli użytkownika")
				return
			}

			if userRole != role && userRole != models.RoleAdmin {
				writeJSONError(w, http.StatusForbidden, "Brak uprawnień")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext pobiera ID uwierzytelnionego użytkownika z kontekstu
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// UserRoleFromContext pobiera rolę uwierzytelnionego użytkownika z kontekstu
func UserRoleFromContext(ctx context.Context) (models.UserRole, bool) {
	role, ok := ctx.Value(userRoleKey).(models.UserRole)
	return role, ok
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"message":"` + message + `"}`))
}

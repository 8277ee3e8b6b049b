package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"library-api/internal/models"
)

// Claims to zawartość tokenu dostępu: tożsamość użytkownika i jego rola
type Claims struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer wystawia i weryfikuje tokeny HS256
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer tworzy wystawcę tokenów z podanym sekretem i czasem życia
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

// Issue wystawia podpisany token dla użytkownika
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("błąd podpisywania tokenu: %w", err)
	}
	return signed, nil
}

// Verify sprawdza podpis i ważność tokenu, zwraca jego claims
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("nieoczekiwana metoda podpisu: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("nieprawidłowy token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("nieprawidłowy token")
	}
	return claims, nil
}

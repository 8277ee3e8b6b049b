// Package auth dostarcza hashowanie haseł oraz wystawianie i weryfikację
// tokenów dostępu. Dla reszty aplikacji to nieprzejrzyste zdolności -
// silnik wypożyczeń dostaje już uwierzytelnioną tożsamość.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashuje hasło algorytmem bcrypt z losową solą
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword porównuje hasło z zapisanym hashem
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

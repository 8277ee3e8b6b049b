// Package apperr definiuje klasyfikację błędów używaną w całej aplikacji.
// Warstwy wyżej rozpoznają błędy przez errors.Is i mapują je na statusy HTTP.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound - encja (książka lub użytkownik) nie istnieje
	ErrNotFound = errors.New("nie znaleziono")

	// ErrConflict - naruszenie unikalności (ISBN lub email już istnieje)
	ErrConflict = errors.New("rekord już istnieje")

	// ErrUnauthorized - brak lub nieprawidłowe dane uwierzytelniające
	ErrUnauthorized = errors.New("brak autoryzacji")

	// ErrForbidden - użytkownik nie ma wymaganej roli
	ErrForbidden = errors.New("brak uprawnień")

	// ErrLimitExceeded - osiągnięty limit jednocześnie wypożyczonych książek
	ErrLimitExceeded = errors.New("osiągnięto limit wypożyczeń")

	// ErrUnavailable - brak dostępnych egzemplarzy
	ErrUnavailable = errors.New("książka jest obecnie niedostępna")

	// ErrAlreadyBorrowed - użytkownik ma już wypożyczoną tę książkę
	ErrAlreadyBorrowed = errors.New("książka jest już wypożyczona przez tego użytkownika")

	// ErrNotBorrowed - użytkownik nie ma wypożyczonej tej książki
	ErrNotBorrowed = errors.New("książka nie jest wypożyczona przez tego użytkownika")

	// ErrInternal - nieoczekiwany błąd magazynu danych lub współpracownika.
	// Szczegóły trafiają wyłącznie do logów, klient dostaje komunikat ogólny.
	ErrInternal = errors.New("wewnętrzny błąd serwera")
)

// HTTPStatus mapuje błąd na kod statusu HTTP. Odrzucenia silnika wypożyczeń
// zwracają 400 tak jak w pierwotnym API.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrLimitExceeded),
		errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrAlreadyBorrowed),
		errors.Is(err, ErrNotBorrowed):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Package borrow zawiera silnik wypożyczeń i zwrotów - jedyny komponent
// uprawniony do mutowania stanu wypożyczeń po obu stronach relacji
// (User.BorrowedBooks i Book.BorrowDetails).
package borrow

import (
	"context"
	"log"
	"time"

	"library-api/internal/apperr"
	"library-api/internal/models"
	"library-api/internal/store"
)

// BorrowPeriod to okres wypożyczenia zapisywany przy książce.
// Termin zwrotu jest czysto informacyjny, nigdzie nie jest egzekwowany.
const BorrowPeriod = 30 * 24 * time.Hour

// Engine wykonuje przejścia wypożycz/zwróć przeciwko magazynowi danych
type Engine struct {
	store  store.Store
	logger *log.Logger
}

// NewEngine tworzy silnik wypożyczeń na podanym magazynie
func NewEngine(s store.Store, logger *log.Logger) *Engine {
	return &Engine{store: s, logger: logger}
}

// Borrow wypożycza książkę użytkownikowi. Wszystkie sprawdzenia i mutacje
// wykonują się w jednej transakcji magazynu, więc dwa równoległe wywołania
// na książce z quantity=1 nie mogą oba przejść sprawdzenia dostępności.
// Każde niepowodzenie zostawia stan nietknięty.
func (e *Engine) Borrow(ctx context.Context, userID, bookID string) error {
	err := e.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		book, err := tx.GetBook(bookID)
		if err != nil {
			return err
		}
		if user == nil || book == nil {
			return apperr.ErrNotFound
		}

		if !user.CanBorrow() {
			return apperr.ErrLimitExceeded
		}
		if !book.IsAvailable() {
			return apperr.ErrUnavailable
		}
		if user.HasBorrowed(bookID) {
			return apperr.ErrAlreadyBorrowed
		}

		// Wszystkie sprawdzenia zaliczone - mutacja obu stron relacji
		book.Quantity--
		user.BorrowedBooks = append(user.BorrowedBooks, bookID)
		book.BorrowDetails = append(book.BorrowDetails, models.BorrowDetail{
			UserID:     userID,
			ReturnDate: time.Now().Add(BorrowPeriod),
		})

		if err := tx.SetBook(book); err != nil {
			return err
		}
		return tx.SetUser(user)
	})
	if err != nil {
		return err
	}

	e.logger.Printf("Użytkownik %s wypożyczył książkę %s", userID, bookID)
	return nil
}

// Return zwraca książkę. Usuwa wpis z listy użytkownika i wszystkie wpisy
// tego użytkownika z borrowDetails książki, zwiększa quantity o 1.
func (e *Engine) Return(ctx context.Context, userID, bookID string) error {
	err := e.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		book, err := tx.GetBook(bookID)
		if err != nil {
			return err
		}
		if user == nil || book == nil {
			return apperr.ErrNotFound
		}

		if !user.HasBorrowed(bookID) {
			return apperr.ErrNotBorrowed
		}

		book.Quantity++
		user.RemoveBorrowedBook(bookID)
		book.RemoveBorrower(userID)

		if err := tx.SetBook(book); err != nil {
			return err
		}
		return tx.SetUser(user)
	})
	if err != nil {
		return err
	}

	e.logger.Printf("Użytkownik %s zwrócił książkę %s", userID, bookID)
	return nil
}

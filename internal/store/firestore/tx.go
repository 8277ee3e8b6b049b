package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"library-api/internal/models"
	"library-api/internal/store"
)

// tx opakowuje transakcję Firestore w interfejs store.Tx
type tx struct {
	s  *Store
	ft *firestore.Transaction
}

func (t *tx) GetBook(id string) (*models.Book, error) {
	doc, err := t.ft.Get(t.s.fs.Collection(BooksCollection).Doc(id))
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania książki w transakcji: %w", err)
	}

	var book models.Book
	if err := doc.DataTo(&book); err != nil {
		return nil, fmt.Errorf("błąd parsowania książki w transakcji: %w", err)
	}
	book.ID = doc.Ref.ID
	return &book, nil
}

func (t *tx) GetUser(id string) (*models.User, error) {
	doc, err := t.ft.Get(t.s.fs.Collection(UsersCollection).Doc(id))
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania użytkownika w transakcji: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("błąd parsowania użytkownika w transakcji: %w", err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

func (t *tx) SetBook(book *models.Book) error {
	book.UpdatedAt = time.Now()
	return t.ft.Set(t.s.fs.Collection(BooksCollection).Doc(book.ID), book)
}

func (t *tx) SetUser(user *models.User) error {
	user.UpdatedAt = time.Now()
	return t.ft.Set(t.s.fs.Collection(UsersCollection).Doc(user.ID), user)
}

// RunTransaction wykonuje fn w serializowalnej transakcji Firestore.
// Przy konflikcie zapisu Firestore sam ponawia fn, dlatego fn nie może
// mieć efektów ubocznych poza transakcją.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.fs.RunTransaction(ctx, func(ctx context.Context, ft *firestore.Transaction) error {
		return fn(ctx, &tx{s: s, ft: ft})
	})
}

// Package store definiuje port magazynu danych. Implementacje: Firestore
// (produkcja) oraz pamięciowa (testy i tryb bez bazy danych).
package store

import (
	"context"

	"library-api/internal/models"
)

// Tx udostępnia operacje odczytu i zapisu wewnątrz jednej transakcji.
// Wszystkie odczyty muszą nastąpić przed pierwszym zapisem (wymóg Firestore).
type Tx interface {
	GetBook(id string) (*models.Book, error)
	GetUser(id string) (*models.User, error)
	SetBook(book *models.Book) error
	SetUser(user *models.User) error
}

// Store to port magazynu danych dla katalogu i rejestru użytkowników.
// Metody Get* zwracają (nil, nil) gdy rekord nie istnieje - o tym czy brak
// jest błędem decyduje wołający.
type Store interface {
	// Książki
	GetBook(ctx context.Context, id string) (*models.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	CreateBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, id string, book *models.Book) error
	DeleteBook(ctx context.Context, id string) error
	ListBooks(ctx context.Context, limit, offset int) ([]*models.Book, error)
	SearchBooks(ctx context.Context, query string) ([]*models.Book, error)
	// FindAvailableByKey zwraca dostępne książki których gatunek LUB autor
	// równa się dokładnie podanemu kluczowi.
	FindAvailableByKey(ctx context.Context, key string) ([]*models.Book, error)

	// Użytkownicy
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id string, user *models.User) error

	// RunTransaction wykonuje fn atomowo. Silnik wypożyczeń opiera na tym
	// całą sekwencję sprawdzeń i mutacji.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}

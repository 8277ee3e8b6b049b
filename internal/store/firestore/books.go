package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"library-api/internal/apperr"
	"library-api/internal/models"
)

// GetBook pobiera książkę po ID, (nil, nil) gdy dokument nie istnieje
func (s *Store) GetBook(ctx context.Context, id string) (*models.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("ID książki nie może być puste")
	}

	doc, err := s.fs.Collection(BooksCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania książki: %w", err)
	}

	var book models.Book
	if err := doc.DataTo(&book); err != nil {
		return nil, fmt.Errorf("błąd parsowania danych książki: %w", err)
	}

	// Ustaw ID z dokumentu Firestore
	book.ID = doc.Ref.ID
	return &book, nil
}

// GetBookByISBN pobiera książkę po ISBN, (nil, nil) gdy nie znaleziono
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	if isbn == "" {
		return nil, fmt.Errorf("ISBN nie może być pusty")
	}

	iter := s.fs.Collection(BooksCollection).Where("isbn", "==", isbn).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("błąd wyszukiwania książki: %w", err)
	}

	var book models.Book
	if err := doc.DataTo(&book); err != nil {
		return nil, fmt.Errorf("błąd parsowania danych książki: %w", err)
	}

	book.ID = doc.Ref.ID
	return &book, nil
}

// CreateBook tworzy nową książkę. ErrConflict gdy ISBN jest już zajęty.
func (s *Store) CreateBook(ctx context.Context, book *models.Book) error {
	if book == nil {
		return fmt.Errorf("książka nie może być nil")
	}

	existing, err := s.GetBookByISBN(ctx, book.ISBN)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.ErrConflict
	}

	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	docRef := s.fs.Collection(BooksCollection).NewDoc()
	book.ID = docRef.ID

	if _, err := docRef.Set(ctx, book); err != nil {
		return fmt.Errorf("błąd zapisywania książki: %w", err)
	}
	return nil
}

// UpdateBook nadpisuje cały dokument książki
func (s *Store) UpdateBook(ctx context.Context, id string, book *models.Book) error {
	if id == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}
	if book == nil {
		return fmt.Errorf("książka nie może być nil")
	}

	existing, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrNotFound
	}

	book.ID = id
	book.UpdatedAt = time.Now()

	if _, err := s.fs.Collection(BooksCollection).Doc(id).Set(ctx, book); err != nil {
		return fmt.Errorf("błąd aktualizacji książki: %w", err)
	}
	return nil
}

// DeleteBook usuwa dokument bezwarunkowo, niezależnie od aktywnych wypożyczeń
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}

	existing, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrNotFound
	}

	if _, err := s.fs.Collection(BooksCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("błąd usuwania książki: %w", err)
	}
	return nil
}

// ListBooks pobiera wycinek katalogu w domyślnej kolejności magazynu
func (s *Store) ListBooks(ctx context.Context, limit, offset int) ([]*models.Book, error) {
	query := s.fs.Collection(BooksCollection).Offset(offset).Limit(limit)
	return s.collectBooks(query.Documents(ctx))
}

// SearchBooks wyszukuje książki po fragmencie tytułu, autora lub ISBN.
// Firestore nie obsługuje wyszukiwania podciągów, więc filtrowanie odbywa
// się po stronie aplikacji.
func (s *Store) SearchBooks(ctx context.Context, query string) ([]*models.Book, error) {
	allBooks, err := s.collectBooks(s.fs.Collection(BooksCollection).Documents(ctx))
	if err != nil {
		return nil, err
	}

	searchLower := strings.ToLower(query)
	results := []*models.Book{}
	for _, book := range allBooks {
		if strings.Contains(strings.ToLower(book.Title), searchLower) ||
			strings.Contains(strings.ToLower(book.Author), searchLower) ||
			strings.Contains(strings.ToLower(book.ISBN), searchLower) {
			results = append(results, book)
		}
	}
	return results, nil
}

// FindAvailableByKey zwraca dostępne książki o gatunku lub autorze równym
// kluczowi. Firestore nie ma zapytań OR między polami, więc wyniki dwóch
// zapytań są scalane po ID.
func (s *Store) FindAvailableByKey(ctx context.Context, key string) ([]*models.Book, error) {
	byGenre, err := s.collectBooks(s.fs.Collection(BooksCollection).
		Where("genre", "==", key).
		Where("quantity", ">", 0).
		Documents(ctx))
	if err != nil {
		return nil, err
	}

	byAuthor, err := s.collectBooks(s.fs.Collection(BooksCollection).
		Where("author", "==", key).
		Where("quantity", ">", 0).
		Documents(ctx))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(byGenre))
	results := byGenre
	for _, book := range byGenre {
		seen[book.ID] = true
	}
	for _, book := range byAuthor {
		if !seen[book.ID] {
			results = append(results, book)
		}
	}
	return results, nil
}

func (s *Store) collectBooks(iter *firestore.DocumentIterator) ([]*models.Book, error) {
	defer iter.Stop()

	books := []*models.Book{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po książkach: %w", err)
		}

		var book models.Book
		if err := doc.DataTo(&book); err != nil {
			return nil, fmt.Errorf("błąd parsowania książki: %w", err)
		}

		book.ID = doc.Ref.ID
		books = append(books, &book)
	}
	return books, nil
}

// Package memory to pamięciowa implementacja portu store. Używana w testach
// oraz jako tryb awaryjny serwera gdy brak poświadczeń Firestore.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-api/internal/apperr"
	"library-api/internal/models"
	"library-api/internal/store"
)

// Store przechowuje dokumenty w mapach chronionych jednym mutexem.
// Kolejność wstawiania pełni rolę "kolejności magazynu" przy listowaniu.
type Store struct {
	mu        sync.RWMutex
	books     map[string]*models.Book
	bookOrder []string
	users     map[string]*models.User
	userOrder []string
}

// New tworzy pusty magazyn pamięciowy
func New() *Store {
	return &Store{
		books: make(map[string]*models.Book),
		users: make(map[string]*models.User),
	}
}

// Close nic nie robi - magazyn pamięciowy nie trzyma zasobów
func (s *Store) Close() error { return nil }

func cloneBook(b *models.Book) *models.Book {
	if b == nil {
		return nil
	}
	c := *b
	c.BorrowDetails = append([]models.BorrowDetail(nil), b.BorrowDetails...)
	return &c
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	c.BorrowedBooks = append([]string(nil), u.BorrowedBooks...)
	return &c
}

// GetBook pobiera książkę po ID, (nil, nil) gdy nie istnieje
func (s *Store) GetBook(_ context.Context, id string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBook(s.books[id]), nil
}

// GetBookByISBN pobiera książkę po ISBN, (nil, nil) gdy nie istnieje
func (s *Store) GetBookByISBN(_ context.Context, isbn string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBook(s.findByISBN(isbn)), nil
}

func (s *Store) findByISBN(isbn string) *models.Book {
	for _, id := range s.bookOrder {
		if s.books[id].ISBN == isbn {
			return s.books[id]
		}
	}
	return nil
}

// CreateBook zapisuje nową książkę, ErrConflict gdy ISBN jest już zajęty
func (s *Store) CreateBook(_ context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByISBN(book.ISBN) != nil {
		return apperr.ErrConflict
	}

	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	if book.ID == "" {
		book.ID = uuid.NewString()
	}

	s.books[book.ID] = cloneBook(book)
	s.bookOrder = append(s.bookOrder, book.ID)
	return nil
}

// UpdateBook nadpisuje cały dokument książki
func (s *Store) UpdateBook(_ context.Context, id string, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return apperr.ErrNotFound
	}

	book.ID = id
	book.UpdatedAt = time.Now()
	s.books[id] = cloneBook(book)
	return nil
}

// DeleteBook usuwa książkę bezwarunkowo - wpisy wypożyczeń w rejestrach
// użytkowników zostają osierocone, bez kaskadowego sprzątania
func (s *Store) DeleteBook(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return apperr.ErrNotFound
	}

	delete(s.books, id)
	order := s.bookOrder[:0]
	for _, bid := range s.bookOrder {
		if bid != id {
			order = append(order, bid)
		}
	}
	s.bookOrder = order
	return nil
}

// ListBooks zwraca wycinek katalogu w kolejności wstawiania
func (s *Store) ListBooks(_ context.Context, limit, offset int) ([]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.bookOrder) {
		return []*models.Book{}, nil
	}

	end := offset + limit
	if end > len(s.bookOrder) {
		end = len(s.bookOrder)
	}

	books := make([]*models.Book, 0, end-offset)
	for _, id := range s.bookOrder[offset:end] {
		books = append(books, cloneBook(s.books[id]))
	}
	return books, nil
}

// SearchBooks filtruje katalog po fragmencie tytułu, autora lub ISBN
// bez rozróżniania wielkości liter
func (s *Store) SearchBooks(_ context.Context, query string) ([]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchLower := strings.ToLower(query)
	results := []*models.Book{}
	for _, id := range s.bookOrder {
		book := s.books[id]
		if strings.Contains(strings.ToLower(book.Title), searchLower) ||
			strings.Contains(strings.ToLower(book.Author), searchLower) ||
			strings.Contains(strings.ToLower(book.ISBN), searchLower) {
			results = append(results, cloneBook(book))
		}
	}
	return results, nil
}

// FindAvailableByKey zwraca dostępne książki o gatunku lub autorze równym kluczowi
func (s *Store) FindAvailableByKey(_ context.Context, key string) ([]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*models.Book{}
	for _, id := range s.bookOrder {
		book := s.books[id]
		if book.Quantity > 0 && (book.Genre == key || book.Author == key) {
			results = append(results, cloneBook(book))
		}
	}
	return results, nil
}

// GetUser pobiera użytkownika po ID, (nil, nil) gdy nie istnieje
func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.users[id]), nil
}

// GetUserByEmail pobiera użytkownika po emailu, (nil, nil) gdy nie istnieje
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.findByEmail(email)), nil
}

func (s *Store) findByEmail(email string) *models.User {
	for _, id := range s.userOrder {
		if s.users[id].Email == email {
			return s.users[id]
		}
	}
	return nil
}

// CreateUser zapisuje nowego użytkownika, ErrConflict gdy email jest zajęty
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmail(user.Email) != nil {
		return apperr.ErrConflict
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	s.users[user.ID] = cloneUser(user)
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

// UpdateUser nadpisuje cały dokument użytkownika
func (s *Store) UpdateUser(_ context.Context, id string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperr.ErrNotFound
	}

	user.ID = id
	user.UpdatedAt = time.Now()
	s.users[id] = cloneUser(user)
	return nil
}

// tx buforuje zapisy i nakłada je dopiero gdy fn zakończy się sukcesem,
// tak jak robi to transakcja Firestore
type tx struct {
	s            *Store
	pendingBooks map[string]*models.Book
	pendingUsers map[string]*models.User
}

func (t *tx) GetBook(id string) (*models.Book, error) {
	if b, ok := t.pendingBooks[id]; ok {
		return cloneBook(b), nil
	}
	return cloneBook(t.s.books[id]), nil
}

func (t *tx) GetUser(id string) (*models.User, error) {
	if u, ok := t.pendingUsers[id]; ok {
		return cloneUser(u), nil
	}
	return cloneUser(t.s.users[id]), nil
}

func (t *tx) SetBook(book *models.Book) error {
	book.UpdatedAt = time.Now()
	t.pendingBooks[book.ID] = cloneBook(book)
	return nil
}

func (t *tx) SetUser(user *models.User) error {
	user.UpdatedAt = time.Now()
	t.pendingUsers[user.ID] = cloneUser(user)
	return nil
}

// RunTransaction wykonuje fn pod pełną blokadą zapisu. Sprawdzenia i mutacje
// dzielą jedną sekcję krytyczną, więc równoległe wypożyczenia nie mogą
// zaniżyć quantity poniżej zera.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{
		s:            s,
		pendingBooks: make(map[string]*models.Book),
		pendingUsers: make(map[string]*models.User),
	}

	if err := fn(ctx, t); err != nil {
		return err
	}

	for id, book := range t.pendingBooks {
		s.books[id] = book
	}
	for id, user := range t.pendingUsers {
		s.users[id] = user
	}
	return nil
}

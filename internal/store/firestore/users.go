package firestore

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"library-api/internal/apperr"
	"library-api/internal/models"
)

// GetUser pobiera użytkownika po ID, (nil, nil) gdy dokument nie istnieje
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("ID użytkownika nie może być puste")
	}

	doc, err := s.fs.Collection(UsersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania użytkownika: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("błąd parsowania danych użytkownika: %w", err)
	}

	user.ID = doc.Ref.ID
	return &user, nil
}

// GetUserByEmail pobiera użytkownika po emailu, (nil, nil) gdy nie znaleziono
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email nie może być pusty")
	}

	iter := s.fs.Collection(UsersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("błąd wyszukiwania użytkownika: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("błąd parsowania danych użytkownika: %w", err)
	}

	user.ID = doc.Ref.ID
	return &user, nil
}

// CreateUser tworzy nowego użytkownika. ErrConflict gdy email jest już zajęty.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("użytkownik nie może być nil")
	}
	if user.Email == "" {
		return fmt.Errorf("email jest wymagany")
	}

	existing, err := s.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.ErrConflict
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	docRef := s.fs.Collection(UsersCollection).NewDoc()
	user.ID = docRef.ID

	if _, err := docRef.Set(ctx, user); err != nil {
		return fmt.Errorf("błąd zapisywania użytkownika: %w", err)
	}
	return nil
}

// UpdateUser nadpisuje cały dokument użytkownika
func (s *Store) UpdateUser(ctx context.Context, id string, user *models.User) error {
	if id == "" {
		return fmt.Errorf("ID użytkownika nie może być puste")
	}
	if user == nil {
		return fmt.Errorf("użytkownik nie może być nil")
	}

	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrNotFound
	}

	user.ID = id
	user.UpdatedAt = time.Now()

	if _, err := s.fs.Collection(UsersCollection).Doc(id).Set(ctx, user); err != nil {
		return fmt.Errorf("błąd aktualizacji użytkownika: %w", err)
	}
	return nil
}

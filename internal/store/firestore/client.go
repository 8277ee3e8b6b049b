// Package firestore to produkcyjna implementacja portu store oparta o
// Cloud Firestore. Klient jest wstrzykiwany do handlerów przy starcie,
// bez globalnej instancji.
package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"library-api/internal/store"
)

const (
	// BooksCollection to nazwa kolekcji książek w Firestore
	BooksCollection = "books"
	// UsersCollection to nazwa kolekcji użytkowników w Firestore
	UsersCollection = "users"
)

// Store implementuje store.Store na kolekcjach Firestore
type Store struct {
	fs *firestore.Client
}

var _ store.Store = (*Store)(nil)

// New inicjalizuje klienta Firestore przez Firebase App. Poświadczenia
// pochodzą z pliku (FIREBASE_CREDENTIALS_PATH) albo z JSON-a w zmiennej
// środowiskowej (FIREBASE_CREDENTIALS_JSON).
func New(ctx context.Context) (*Store, error) {
	var opt option.ClientOption

	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath != "" {
		// Tryb lokalny - użyj pliku
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("plik credentials nie istnieje: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	} else {
		// Tryb produkcyjny - użyj JSON z zmiennej środowiskowej
		credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
		if credentialsJSON == "" {
			return nil, fmt.Errorf("brak zmiennej środowiskowej FIREBASE_CREDENTIALS_PATH lub FIREBASE_CREDENTIALS_JSON")
		}
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("błąd inicjalizacji Firebase App: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd inicjalizacji Firestore: %w", err)
	}

	return &Store{fs: fsClient}, nil
}

// Close zamyka połączenie z Firestore
func (s *Store) Close() error {
	if s.fs != nil {
		return s.fs.Close()
	}
	return nil
}

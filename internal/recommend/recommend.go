// Package recommend generuje rekomendacje książek na podstawie historii
// wypożyczeń użytkownika.
package recommend

import (
	"context"
	"sort"

	"library-api/internal/apperr"
	"library-api/internal/store"
)

// Entry to pojedyncza pozycja rekomendacji: klucz preferencji (gatunek lub
// autor) i tytuły dostępnych książek pasujących do klucza.
type Entry struct {
	Key    string
	Titles []string
}

// Engine buduje rekomendacje z katalogu
type Engine struct {
	store store.Store
}

// NewEngine tworzy silnik rekomendacji na podanym magazynie
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// Recommend liczy wagi preferencji po gatunkach i autorach wypożyczonych
// książek, a następnie dla każdego klucza wyszukuje dostępne pasujące
// książki. Gatunki i autorzy dzielą jedną mapę - gatunek o nazwie równej
// nazwisku autora sumuje się z nim w jeden klucz. Pusta historia daje
// pustą listę bez błędu.
func (e *Engine) Recommend(ctx context.Context, userID string) ([]Entry, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}

	// Wspólna mapa wag plus lista kluczy w kolejności pierwszego wystąpienia,
	// bo iteracja po mapie w Go nie jest deterministyczna
	weights := map[string]int{}
	keyOrder := []string{}

	for _, bookID := range user.BorrowedBooks {
		book, err := e.store.GetBook(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if book == nil {
			// Książka usunięta z katalogu po wypożyczeniu - pomiń wpis
			continue
		}

		if book.Genre != "" {
			if _, ok := weights[book.Genre]; !ok {
				keyOrder = append(keyOrder, book.Genre)
			}
			weights[book.Genre]++
		}
		if book.Author != "" {
			if _, ok := weights[book.Author]; !ok {
				keyOrder = append(keyOrder, book.Author)
			}
			weights[book.Author]++
		}
	}

	entries := []Entry{}
	for _, key := range keyOrder {
		matches, err := e.store.FindAvailableByKey(ctx, key)
		if err != nil {
			return nil, err
		}

		titles := []string{}
		for _, book := range matches {
			titles = append(titles, book.Title)
		}
		entries = append(entries, Entry{Key: key, Titles: titles})
	}

	// Sortowanie malejąco po liczbie trafień; przy remisie zostaje kolejność
	// pierwszego wystąpienia klucza
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Titles) > len(entries[j].Titles)
	})
	return entries, nil
}

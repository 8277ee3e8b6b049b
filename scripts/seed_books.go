package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"library-api/internal/apperr"
	"library-api/internal/models"
	fsstore "library-api/internal/store/firestore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	ctx := context.Background()

	st, err := fsstore.New(ctx)
	if err != nil {
		log.Fatalf("Błąd inicjalizacji Firestore: %v", err)
	}
	defer st.Close()

	log.Println("Dodawanie przykładowych książek do bazy danych...")

	books := []models.Book{
		{
			ISBN:          "978-83-8032-464-8",
			Title:         "Wiedźmin: Ostatnie życzenie",
			Author:        "Andrzej Sapkowski",
			Genre:         "Fantasy",
			PublishedYear: 1993,
			Quantity:      3,
		},
		{
			ISBN:          "978-83-240-1455-5",
			Title:         "Zbrodnia i kara",
			Author:        "Fiodor Dostojewski",
			Genre:         "Klasyka",
			PublishedYear: 1866,
			Quantity:      2,
		},
		{
			ISBN:          "978-83-7686-320-4",
			Title:         "Sapiens: Od zwierząt do bogów",
			Author:        "Yuval Noah Harari",
			Genre:         "Popularnonaukowa",
			PublishedYear: 2011,
			Quantity:      4,
		},
		{
			ISBN:          "978-83-7885-585-8",
			Title:         "Rok 1984",
			Author:        "George Orwell",
			Genre:         "Science Fiction",
			PublishedYear: 1949,
			Quantity:      2,
		},
		{
			ISBN:          "978-83-8032-588-1",
			Title:         "Miecz przeznaczenia",
			Author:        "Andrzej Sapkowski",
			Genre:         "Fantasy",
			PublishedYear: 1992,
			Quantity:      3,
		},
	}

	added := 0
	for i := range books {
		book := books[i]
		book.BorrowDetails = []models.BorrowDetail{}

		if err := st.CreateBook(ctx, &book); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				log.Printf("Pominięto %s - ISBN %s już istnieje", book.Title, book.ISBN)
				continue
			}
			log.Fatalf("Błąd dodawania książki %s: %v", book.Title, err)
		}

		log.Printf("Dodano: %s (%s)", book.Title, book.ISBN)
		added++
	}

	log.Printf("Gotowe - dodano %d książek", added)
}

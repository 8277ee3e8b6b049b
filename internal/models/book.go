package models

import "time"

// BorrowDetail reprezentuje pojedyncze aktywne wypożyczenie zapisane przy książce
type BorrowDetail struct {
	UserID     string    `json:"user_id" firestore:"user_id"`
	ReturnDate time.Time `json:"return_date" firestore:"return_date"`
}

// Book reprezentuje książkę w katalogu
type Book struct {
	ID            string         `json:"id" firestore:"id"`
	ISBN          string         `json:"isbn" firestore:"isbn"`
	Title         string         `json:"title" firestore:"title"`
	Author        string         `json:"author" firestore:"author"`
	Genre         string         `json:"genre,omitempty" firestore:"genre"`
	PublishedYear int            `json:"published_year" firestore:"published_year"`
	Quantity      int            `json:"quantity" firestore:"quantity"`
	BorrowDetails []BorrowDetail `json:"borrow_details" firestore:"borrow_details"`
	CreatedAt     time.Time      `json:"created_at" firestore:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updated_at"`
}

// BookUpdate zawiera pola do częściowej aktualizacji książki
type BookUpdate struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"published_year"`
	Quantity      int    `json:"quantity"`
}

// IsAvailable sprawdza czy książka jest dostępna do wypożyczenia
func (b *Book) IsAvailable() bool {
	return b.Quantity > 0
}

// ApplyUpdate nadpisuje tylko pola które mają wartość niezerową.
// Zero i pusty string nigdy nie nadpisują istniejących wartości - przez
// aktualizację nie da się ustawić quantity na 0 ani wyczyścić tytułu.
func (b *Book) ApplyUpdate(u BookUpdate) {
	if u.Title != "" {
		b.Title = u.Title
	}
	if u.Author != "" {
		b.Author = u.Author
	}
	if u.Genre != "" {
		b.Genre = u.Genre
	}
	if u.PublishedYear != 0 {
		b.PublishedYear = u.PublishedYear
	}
	if u.Quantity != 0 {
		b.Quantity = u.Quantity
	}
}

// BorrowerIndex zwraca pozycję wpisu wypożyczenia danego użytkownika albo -1
func (b *Book) BorrowerIndex(userID string) int {
	for i, detail := range b.BorrowDetails {
		if detail.UserID == userID {
			return i
		}
	}
	return -1
}

// RemoveBorrower usuwa wszystkie wpisy wypożyczeń danego użytkownika
func (b *Book) RemoveBorrower(userID string) {
	details := make([]BorrowDetail, 0, len(b.BorrowDetails))
	for _, detail := range b.BorrowDetails {
		if detail.UserID != userID {
			details = append(details, detail)
		}
	}
	b.BorrowDetails = details
}

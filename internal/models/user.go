package models

import "time"

// UserRole określa rolę użytkownika w systemie
type UserRole string

const (
	RoleUser  UserRole = "user"  // Zwykły użytkownik - może wypożyczać książki
	RoleAdmin UserRole = "admin" // Administrator - zarządza katalogiem
)

// MaxBorrowedBooks to globalny limit jednocześnie wypożyczonych książek
const MaxBorrowedBooks = 3

// User reprezentuje użytkownika systemu
type User struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	Email         string    `json:"email" firestore:"email"`
	Password      string    `json:"-" firestore:"password"` // Hash bcrypt, nigdy nie serializowany do JSON
	Role          UserRole  `json:"role" firestore:"role"`
	BorrowedBooks []string  `json:"borrowed_books" firestore:"borrowed_books"`
	CreatedAt     time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updated_at"`
}

// IsAdmin sprawdza czy użytkownik jest administratorem
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanBorrow sprawdza czy użytkownik nie osiągnął limitu wypożyczeń
func (u *User) CanBorrow() bool {
	return len(u.BorrowedBooks) < MaxBorrowedBooks
}

// HasBorrowed sprawdza czy użytkownik ma wypożyczoną daną książkę
func (u *User) HasBorrowed(bookID string) bool {
	for _, id := range u.BorrowedBooks {
		if id == bookID {
			return true
		}
	}
	return false
}

// RemoveBorrowedBook usuwa książkę z listy wypożyczonych
func (u *User) RemoveBorrowedBook(bookID string) {
	books := make([]string, 0, len(u.BorrowedBooks))
	for _, id := range u.BorrowedBooks {
		if id != bookID {
			books = append(books, id)
		}
	}
	u.BorrowedBooks = books
}

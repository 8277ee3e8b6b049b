package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update BookUpdate
		want   Book
	}{
		{
			name:   "zero_values_are_ignored",
			update: BookUpdate{Title: "", Quantity: 0},
			want:   Book{Title: "Lalka", Author: "Bolesław Prus", Genre: "Klasyka", PublishedYear: 1890, Quantity: 5},
		},
		{
			name:   "non_zero_fields_overwrite",
			update: BookUpdate{Title: "Faraon", Quantity: 2},
			want:   Book{Title: "Faraon", Author: "Bolesław Prus", Genre: "Klasyka", PublishedYear: 1890, Quantity: 2},
		},
		{
			name:   "all_fields",
			update: BookUpdate{Title: "Faraon", Author: "B. Prus", Genre: "Historyczna", PublishedYear: 1897, Quantity: 1},
			want:   Book{Title: "Faraon", Author: "B. Prus", Genre: "Historyczna", PublishedYear: 1897, Quantity: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			book := Book{Title: "Lalka", Author: "Bolesław Prus", Genre: "Klasyka", PublishedYear: 1890, Quantity: 5}
			book.ApplyUpdate(tc.update)
			assert.Equal(t, tc.want, book)
		})
	}
}

func TestIsAvailable(t *testing.T) {
	assert.True(t, (&Book{Quantity: 1}).IsAvailable())
	assert.False(t, (&Book{Quantity: 0}).IsAvailable())
	assert.False(t, (&Book{Quantity: -1}).IsAvailable())
}

func TestRemoveBorrower(t *testing.T) {
	due := time.Now()
	book := Book{BorrowDetails: []BorrowDetail{
		{UserID: "u1", ReturnDate: due},
		{UserID: "u2", ReturnDate: due},
		{UserID: "u1", ReturnDate: due},
	}}

	book.RemoveBorrower("u1")

	assert.Equal(t, []BorrowDetail{{UserID: "u2", ReturnDate: due}}, book.BorrowDetails)
	assert.Equal(t, -1, book.BorrowerIndex("u1"))
	assert.Equal(t, 0, book.BorrowerIndex("u2"))
}

func TestUserHelpers(t *testing.T) {
	user := User{Role: RoleUser, BorrowedBooks: []string{"b1", "b2"}}

	assert.False(t, user.IsAdmin())
	assert.True(t, user.CanBorrow())
	assert.True(t, user.HasBorrowed("b1"))
	assert.False(t, user.HasBorrowed("b3"))

	user.BorrowedBooks = append(user.BorrowedBooks, "b3")
	assert.False(t, user.CanBorrow())

	user.RemoveBorrowedBook("b2")
	assert.Equal(t, []string{"b1", "b3"}, user.BorrowedBooks)
}

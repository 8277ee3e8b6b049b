package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"library-api/internal/apperr"
	"library-api/internal/borrow"
	"library-api/internal/middleware"
	"library-api/internal/models"
	"library-api/internal/store"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// BooksHandler obsługuje operacje na katalogu i wypożyczenia
type BooksHandler struct {
	store  store.Store
	engine *borrow.Engine
	logger *log.Logger
}

// NewBooksHandler tworzy handler katalogu książek
func NewBooksHandler(s store.Store, engine *borrow.Engine, logger *log.Logger) *BooksHandler {
	return &BooksHandler{store: s, engine: engine, logger: logger}
}

type createBookRequest struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"published_year"`
	Quantity      int    `json:"quantity"`
}

// CreateBook dodaje książkę do katalogu (POST /book/create, tylko admin)
func (h *BooksHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Nieprawidłowe dane JSON")
		return
	}

	if req.ISBN == "" || req.Title == "" || req.Author == "" {
		respondMessage(w, http.StatusBadRequest, "ISBN, tytuł i autor są wymagane")
		return
	}
	if req.Quantity < 0 {
		respondMessage(w, http.StatusBadRequest, "Liczba egzemplarzy nie może być ujemna")
		return
	}

	book := &models.Book{
		ISBN:          req.ISBN,
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		Quantity:      req.Quantity,
		BorrowDetails: []models.BorrowDetail{},
	}

	if err := h.store.CreateBook(r.Context(), book); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Printf("Dodano książkę %s (ISBN %s)", book.Title, book.ISBN)
	respondMessage(w, http.StatusCreated, "Książka dodana pomyślnie")
}

// UpdateBook aktualizuje książkę po ISBN (PUT /book/update/{ISBN}, tylko
// admin). Pola o wartości zerowej nie nadpisują istniejących - patrz
// Book.ApplyUpdate.
func (h *BooksHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "ISBN")

	var upd models.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondMessage(w, http.StatusBadRequest, "Nieprawidłowe dane JSON")
		return
	}

	book, err := h.store.GetBookByISBN(r.Context(), isbn)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if book == nil {
		respondError(w, h.logger, apperr.ErrNotFound)
		return
	}

	book.ApplyUpdate(upd)

	if err := h.store.UpdateBook(r.Context(), book.ID, book); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondMessage(w, http.StatusOK, "Dane książki zaktualizowane pomyślnie")
}

// DeleteBook usuwa książkę po ISBN (DELETE /book/delete/{ISBN}, tylko
// admin). Usunięcie jest bezwarunkowe - otwarte wypożyczenia zostają
// osierocone.
func (h *BooksHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "ISBN")

	book, err := h.store.GetBookByISBN(r.Context(), isbn)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if book == nil {
		h.logger.Printf("Nie znaleziono książki o ISBN %s do usunięcia", isbn)
		respondError(w, h.logger, apperr.ErrNotFound)
		return
	}

	if err := h.store.DeleteBook(r.Context(), book.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Printf("Usunięto książkę o ISBN %s", isbn)
	respondMessage(w, http.StatusOK, "Książka usunięta pomyślnie")
}

// ListBooks zwraca stronicowaną listę książek (GET /book/list).
// page i pageSize domyślnie 1/10 gdy brak lub nie-liczba, bez górnego limitu.
func (h *BooksHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}

	books, err := h.store.ListBooks(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, books)
}

// SearchBooks wyszukuje książki po tytule, autorze lub ISBN (GET /book/search)
func (h *BooksHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	results, err := h.store.SearchBooks(r.Context(), query)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// BorrowBook wypożycza książkę uwierzytelnionemu użytkownikowi
// (POST /book/borrow/{bookId})
func (h *BooksHandler) BorrowBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperr.ErrUnauthorized)
		return
	}
	bookID := chi.URLParam(r, "bookId")

	if err := h.engine.Borrow(r.Context(), userID, bookID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondMessage(w, http.StatusOK, "Książka wypożyczona pomyślnie")
}

// ReturnBook zwraca wypożyczoną książkę (PATCH /book/return/{bookId})
func (h *BooksHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperr.ErrUnauthorized)
		return
	}
	bookID := chi.URLParam(r, "bookId")

	if err := h.engine.Return(r.Context(), userID, bookID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondMessage(w, http.StatusOK, "Książka zwrócona pomyślnie")
}

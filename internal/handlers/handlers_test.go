package handlers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/auth"
	"library-api/internal/borrow"
	"library-api/internal/middleware"
	"library-api/internal/models"
	"library-api/internal/recommend"
	"library-api/internal/store/memory"
)

// newTestServer składa router tak jak cmd/server, ale na magazynie
// pamięciowym i bez limitów żądań
func newTestServer(t *testing.T) (*chi.Mux, *memory.Store) {
	t.Helper()

	st := memory.New()
	logger := log.New(io.Discard, "", 0)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	authHandler := NewAuthHandler(st, issuer, logger)
	booksHandler := NewBooksHandler(st, borrow.NewEngine(st, logger), logger)
	recHandler := NewRecommendationsHandler(recommend.NewEngine(st), logger)

	r := chi.NewRouter()
	r.Route("/user", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})
	r.Route("/book", func(r chi.Router) {
		r.Get("/list", booksHandler.ListBooks)
		r.Get("/search", booksHandler.SearchBooks)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(issuer))
			r.Post("/borrow/{bookId}", booksHandler.BorrowBook)
			r.Patch("/return/{bookId}", booksHandler.ReturnBook)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(issuer))
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/create", booksHandler.CreateBook)
			r.Put("/update/{ISBN}", booksHandler.UpdateBook)
			r.Delete("/delete/{ISBN}", booksHandler.DeleteBook)
		})
	})
	r.Route("/rec", func(r chi.Router) {
		r.Use(middleware.Authenticate(issuer))
		r.Get("/", recHandler.GetRecommendations)
	})

	return r, st
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin rejestruje użytkownika przez API i zwraca jego token
func registerAndLogin(t *testing.T, r http.Handler, email string) string {
	t.Helper()

	rec := doRequest(t, r, http.MethodPost, "/user/register", "",
		`{"name":"Jan Kowalski","email":"`+email+`","password":"tajnehaslo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/user/login", "",
		`{"email":"`+email+`","password":"tajnehaslo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// adminToken tworzy konto administratora bezpośrednio w magazynie, tak jak
// robi to narzędzie cmd/create_admin, i loguje je przez API
func adminToken(t *testing.T, r http.Handler, st *memory.Store) string {
	t.Helper()

	hash, err := auth.HashPassword("adminhaslo")
	require.NoError(t, err)
	require.NoError(t, st.CreateUser(context.Background(), &models.User{
		Name:     "Admin",
		Email:    "admin@biblioteka.pl",
		Password: hash,
		Role:     models.RoleAdmin,
	}))

	rec := doRequest(t, r, http.MethodPost, "/user/login", "",
		`{"email":"admin@biblioteka.pl","password":"adminhaslo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := newTestServer(t)

	body := `{"name":"Jan","email":"jan@biblioteka.pl","password":"haslo123"}`
	rec := doRequest(t, r, http.MethodPost, "/user/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/user/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doRequest(t, r, http.MethodPost, "/user/register", "",
		`{"email":"jan@biblioteka.pl"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doRequest(t, r, http.MethodPost, "/user/register", "",
		`{"name":"Jan","email":"jan@biblioteka.pl","password":"haslo123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Złe hasło i nieznany email dają tę samą odpowiedź
	rec = doRequest(t, r, http.MethodPost, "/user/login", "",
		`{"email":"jan@biblioteka.pl","password":"zlehaslo"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/user/login", "",
		`{"email":"nieistnieje@biblioteka.pl","password":"haslo123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBook_RequiresAdmin(t *testing.T) {
	r, st := newTestServer(t)

	body := `{"isbn":"978-83-01","title":"Lalka","author":"Bolesław Prus","genre":"Powieść","quantity":2}`

	// Bez tokenu
	rec := doRequest(t, r, http.MethodPost, "/book/create", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Zwykły użytkownik
	userTok := registerAndLogin(t, r, "jan@biblioteka.pl")
	rec = doRequest(t, r, http.MethodPost, "/book/create", userTok, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Administrator
	adminTok := adminToken(t, r, st)
	rec = doRequest(t, r, http.MethodPost, "/book/create", adminTok, body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Duplikat ISBN
	rec = doRequest(t, r, http.MethodPost, "/book/create", adminTok, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBook_IgnoresZeroFields(t *testing.T) {
	r, st := newTestServer(t)
	adminTok := adminToken(t, r, st)

	rec := doRequest(t, r, http.MethodPost, "/book/create", adminTok,
		`{"isbn":"978-83-01","title":"Lalka","author":"Bolesław Prus","genre":"Powieść","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPut, "/book/update/978-83-01", adminTok,
		`{"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	book, err := st.GetBookByISBN(context.Background(), "978-83-01")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, 5, book.Quantity)
	assert.Equal(t, "Lalka", book.Title)
	assert.Equal(t, "Bolesław Prus", book.Author)
}

func TestUpdateBook_UnknownISBN(t *testing.T) {
	r, st := newTestServer(t)
	adminTok := adminToken(t, r, st)

	rec := doRequest(t, r, http.MethodPut, "/book/update/nie-ma", adminTok,
		`{"quantity":5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBook(t *testing.T) {
	r, st := newTestServer(t)
	adminTok := adminToken(t, r, st)

	rec := doRequest(t, r, http.MethodPost, "/book/create", adminTok,
		`{"isbn":"978-83-01","title":"Lalka","author":"Bolesław Prus","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodDelete, "/book/delete/978-83-01", adminTok, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	book, err := st.GetBookByISBN(context.Background(), "978-83-01")
	require.NoError(t, err)
	assert.Nil(t, book)

	rec = doRequest(t, r, http.MethodDelete, "/book/delete/978-83-01", adminTok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBooks_Pagination(t *testing.T) {
	r, st := newTestServer(t)
	ctx := context.Background()

	for _, title := range []string{"Lalka", "Quo Vadis", "Ferdydurke"} {
		require.NoError(t, st.CreateBook(ctx, &models.Book{
			ISBN: "isbn-" + title, Title: title, Author: "Autor", Quantity: 1,
		}))
	}

	rec := doRequest(t, r, http.MethodGet, "/book/list?page=2&pageSize=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Ferdydurke", books[0].Title)

	// Nieprawidłowe parametry wracają do wartości domyślnych
	rec = doRequest(t, r, http.MethodGet, "/book/list?page=abc&pageSize=-1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	assert.Len(t, books, 3)
}

func TestSearchBooks(t *testing.T) {
	r, st := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, st.CreateBook(ctx, &models.Book{
		ISBN: "978-83-01", Title: "Pan Tadeusz", Author: "Adam Mickiewicz", Quantity: 1,
	}))
	require.NoError(t, st.CreateBook(ctx, &models.Book{
		ISBN: "978-83-02", Title: "Dziady", Author: "Adam Mickiewicz", Quantity: 1,
	}))

	rec := doRequest(t, r, http.MethodGet, "/book/search?query=tadeusz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Pan Tadeusz", books[0].Title)
}

func TestBorrowAndReturn_OverHTTP(t *testing.T) {
	r, st := newTestServer(t)
	ctx := context.Background()

	book := &models.Book{ISBN: "978-83-01", Title: "Lalka", Author: "Bolesław Prus", Quantity: 1}
	require.NoError(t, st.CreateBook(ctx, book))

	token := registerAndLogin(t, r, "jan@biblioteka.pl")

	// Bez tokenu
	rec := doRequest(t, r, http.MethodPost, "/book/borrow/"+book.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/book/borrow/"+book.ID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
	require.Len(t, stored.BorrowDetails, 1)

	// Drugie wypożyczenie tej samej książki jest odrzucane
	rec = doRequest(t, r, http.MethodPost, "/book/borrow/"+book.ID, token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPatch, "/book/return/"+book.ID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err = st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)
	assert.Empty(t, stored.BorrowDetails)

	// Zwrot niewypożyczonej książki
	rec = doRequest(t, r, http.MethodPatch, "/book/return/"+book.ID, token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBorrow_UnknownBook(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerAndLogin(t, r, "jan@biblioteka.pl")

	rec := doRequest(t, r, http.MethodPost, "/book/borrow/nie-ma", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendations_OverHTTP(t *testing.T) {
	r, st := newTestServer(t)
	ctx := context.Background()

	borrowed := &models.Book{ISBN: "978-83-01", Title: "Lalka", Author: "Bolesław Prus", Genre: "Powieść", Quantity: 1}
	require.NoError(t, st.CreateBook(ctx, borrowed))
	require.NoError(t, st.CreateBook(ctx, &models.Book{
		ISBN: "978-83-02", Title: "Quo Vadis", Author: "Henryk Sienkiewicz", Genre: "Powieść", Quantity: 2,
	}))

	token := registerAndLogin(t, r, "jan@biblioteka.pl")

	rec := doRequest(t, r, http.MethodPost, "/book/borrow/"+borrowed.ID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/rec/", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload []map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	// Klucz gatunku wskazuje dostępną książkę innego autora; wypożyczona
	// "Lalka" ma quantity 0 i nie pojawia się w wynikach
	titles := map[string][]string{}
	for _, entry := range payload {
		for key, ts := range entry {
			titles[key] = ts
		}
	}
	assert.Equal(t, []string{"Quo Vadis"}, titles["Powieść"])
}

func TestRecommendations_RequireAuth(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doRequest(t, r, http.MethodGet, "/rec/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

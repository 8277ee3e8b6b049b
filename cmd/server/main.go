package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"library-api/internal/auth"
	"library-api/internal/borrow"
	"library-api/internal/handlers"
	authmw "library-api/internal/middleware"
	"library-api/internal/models"
	"library-api/internal/ratelimit"
	"library-api/internal/recommend"
	"library-api/internal/store"
	fsstore "library-api/internal/store/firestore"
	"library-api/internal/store/memory"
)

// Config zbiera konfigurację ze zmiennych środowiskowych w jednym miejscu,
// zamiast rozsianych odczytów os.Getenv po całej aplikacji
type Config struct {
	Port      string
	JWTSecret string
	JWTExpiry time.Duration
	RedisAddr string
}

func loadConfig() Config {
	cfg := Config{
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: 1 * time.Hour,
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if hours, err := strconv.Atoi(os.Getenv("JWT_EXPIRY_HOURS")); err == nil && hours > 0 {
		cfg.JWTExpiry = time.Duration(hours) * time.Hour
	}
	return cfg
}

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// Wczytaj zmienne środowiskowe z pliku .env
	if err := godotenv.Load(); err != nil {
		logger.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	cfg := loadConfig()
	if cfg.JWTSecret == "" {
		logger.Fatalln("Brak zmiennej środowiskowej JWT_SECRET")
	}

	ctx := context.Background()

	// Inicjalizacja magazynu danych - Firestore, a gdy brak poświadczeń
	// tryb pamięciowy (dane nie przeżyją restartu)
	var st store.Store
	fs, err := fsstore.New(ctx)
	if err != nil {
		logger.Printf("UWAGA: Firestore nie został zainicjalizowany: %v", err)
		logger.Println("Aplikacja będzie działać na magazynie pamięciowym")
		st = memory.New()
	} else {
		logger.Println("Firestore zainicjalizowany pomyślnie")
		st = fs
	}
	defer st.Close()

	// Limiter żądań - Redis gdy skonfigurowany, inaczej pamięć procesu
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(rdb)
		logger.Printf("Limiter żądań oparty o Redis (%s)", cfg.RedisAddr)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
		logger.Println("Limiter żądań w pamięci procesu")
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	borrowEngine := borrow.NewEngine(st, logger)
	recommendEngine := recommend.NewEngine(st)

	authHandler := handlers.NewAuthHandler(st, issuer, logger)
	booksHandler := handlers.NewBooksHandler(st, borrowEngine, logger)
	recHandler := handlers.NewRecommendationsHandler(recommendEngine, logger)

	authLimit := authmw.RateLimit(limiter, "auth", 5, 1*time.Hour, logger)
	sensitiveLimit := authmw.RateLimit(limiter, "sensitive", 100, 15*time.Minute, logger)

	r := chi.NewRouter()

	// Middleware do logowania requestów
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Strona główna - publiczna
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<h1>Witamy w systemie zarządzania biblioteką</h1>"))
	})

	// Rejestracja i logowanie - publiczne, z limitem 5 żądań na godzinę
	r.Route("/user", func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/book", func(r chi.Router) {
		// Publiczny katalog
		r.Get("/list", booksHandler.ListBooks)
		r.Get("/search", booksHandler.SearchBooks)

		// Wypożyczanie i zwroty (wymagają zalogowania)
		r.Group(func(r chi.Router) {
			r.Use(authmw.Authenticate(issuer))
			r.Use(sensitiveLimit)
			r.Post("/borrow/{bookId}", booksHandler.BorrowBook)
			r.Patch("/return/{bookId}", booksHandler.ReturnBook)
		})

		// Zarządzanie katalogiem (tylko dla adminów)
		r.Group(func(r chi.Router) {
			r.Use(authmw.Authenticate(issuer))
			r.Use(authmw.RequireRole(models.RoleAdmin))
			r.Use(sensitiveLimit)
			r.Post("/create", booksHandler.CreateBook)
			r.Put("/update/{ISBN}", booksHandler.UpdateBook)
			r.Delete("/delete/{ISBN}", booksHandler.DeleteBook)
		})
	})

	// Rekomendacje (wymagają zalogowania)
	r.Route("/rec", func(r chi.Router) {
		r.Use(authmw.Authenticate(issuer))
		r.Use(sensitiveLimit)
		r.Get("/", recHandler.GetRecommendations)
	})

	logger.Printf("Serwer uruchomiony na porcie %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}

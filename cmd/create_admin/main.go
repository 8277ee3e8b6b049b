package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"library-api/internal/auth"
	"library-api/internal/models"
	fsstore "library-api/internal/store/firestore"
)

func main() {
	email := flag.String("email", "admin@biblioteka.pl", "email konta admina")
	password := flag.String("password", "admin123", "hasło konta admina")
	name := flag.String("name", "Admin System", "nazwa konta admina")
	flag.Parse()

	// Wczytaj zmienne środowiskowe
	if err := godotenv.Load(); err != nil {
		log.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	ctx := context.Background()

	st, err := fsstore.New(ctx)
	if err != nil {
		log.Fatalf("Błąd inicjalizacji Firestore: %v", err)
	}
	defer st.Close()

	fmt.Println("=== Tworzenie użytkownika admina ===")

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Błąd hashowania hasła: %v", err)
	}

	user := &models.User{
		Name:          *name,
		Email:         *email,
		Password:      hash,
		Role:          models.RoleAdmin,
		BorrowedBooks: []string{},
	}

	if err := st.CreateUser(ctx, user); err != nil {
		log.Fatalf("Błąd tworzenia użytkownika: %v", err)
	}

	fmt.Printf("✓ Utworzono użytkownika: %s (ID: %s)\n", user.Email, user.ID)
	fmt.Println("\n=== Użytkownik admin utworzony pomyślnie ===")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Rola: %s\n", user.Role)
	fmt.Println("\nMożesz teraz zalogować się przez POST /user/login.")
}

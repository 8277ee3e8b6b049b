package middleware

import (
	"log"
	"net"
	"net/http"
	"time"

	"library-api/internal/ratelimit"
)

// RateLimit ogranicza liczbę żądań per IP w stałym oknie. Błąd backendu
// limitera nie blokuje żądania - limit jest doradczy.
func RateLimit(limiter ratelimit.Limiter, name string, limit int, window time.Duration, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), name+":"+ip, limit, window)
			if err != nil {
				logger.Printf("Błąd limitera żądań (%s): %v", name, err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				writeJSONError(w, http.StatusTooManyRequests,
					"Zbyt wiele żądań z tego adresu IP, spróbuj ponownie później")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP zwraca adres klienta. Middleware RealIP z chi ustawia RemoteAddr
// na podstawie nagłówków proxy zanim żądanie tu dotrze.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

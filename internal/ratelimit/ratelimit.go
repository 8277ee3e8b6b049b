// Package ratelimit to limity żądań per IP w stałych oknach czasowych.
// Limity są doradcze - chronią endpointy rejestracji i logowania, nie są
// częścią poprawności rdzenia.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter zlicza żądania w oknie. Allow zwraca false gdy klucz przekroczył
// limit w bieżącym oknie.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisLimiter trzyma liczniki w Redisie - okno przeżywa restart procesu
// i jest wspólne dla wielu instancji serwera
type RedisLimiter struct {
	rdb *redis.Client
}

// NewRedisLimiter tworzy limiter na istniejącym kliencie Redis
func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

// Allow inkrementuje licznik klucza i przy pierwszym żądaniu w oknie
// ustawia mu czas wygaśnięcia
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := l.rdb.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return false, fmt.Errorf("błąd inkrementacji licznika: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, "ratelimit:"+key, window).Err(); err != nil {
			return false, fmt.Errorf("błąd ustawiania TTL licznika: %w", err)
		}
	}
	return count <= int64(limit), nil
}

type windowCounter struct {
	count     int
	expiresAt time.Time
}

// MemoryLimiter trzyma liczniki w pamięci procesu. Używany gdy Redis nie
// jest skonfigurowany.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

// NewMemoryLimiter tworzy limiter pamięciowy i uruchamia sprzątanie
// wygasłych liczników co godzinę
func NewMemoryLimiter() *MemoryLimiter {
	l := &MemoryLimiter{counters: make(map[string]*windowCounter)}
	go l.cleanupExpired()
	return l
}

// Allow inkrementuje licznik klucza w bieżącym oknie
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.counters[key]
	if !ok || now.After(c.expiresAt) {
		l.counters[key] = &windowCounter{count: 1, expiresAt: now.Add(window)}
		return limit >= 1, nil
	}

	c.count++
	return c.count <= limit, nil
}

func (l *MemoryLimiter) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, c := range l.counters {
			if now.After(c.expiresAt) {
				delete(l.counters, key)
			}
		}
		l.mu.Unlock()
	}
}

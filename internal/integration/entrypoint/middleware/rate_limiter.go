package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxAttempts is the default number of allowed attempts per window.
	defaultMaxAttempts = 5
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute
	// rateLimitMessage is shown when a client exceeds its window.
	rateLimitMessage = "Too many requests. Please try again later."
)

// RateLimitStore counts attempts per key in fixed windows.
type RateLimitStore interface {
	// Allow records one attempt for key and reports whether it is within max for the window.
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Allow implements RateLimitStore.
func (s *MemoryStore) Allow(_ context.Context, key string, max int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, exists := s.entries[key]
	if !exists {
		s.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(window),
		}
		return true, nil
	}

	if now.After(entry.resetTime) {
		entry.attempts = 1
		entry.resetTime = now.Add(window)
		return true, nil
	}

	if entry.attempts < max {
		entry.attempts++
		return true, nil
	}

	return false, nil
}

// Cleanup removes expired entries and reports how many it dropped.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for key, entry := range s.entries {
		if now.After(entry.resetTime) {
			delete(s.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RedisStore keeps windows in Redis so that limits hold across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store using client. Keys are namespaced with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "authsecure:ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Allow implements RateLimitStore. The first attempt in a window sets the expiry.
func (s *RedisStore) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	redisKey := s.prefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return incr.Val() <= int64(max), nil
}

// RateLimiter provides IP-based rate limiting functionality.
type RateLimiter struct {
	store          RateLimitStore
	maxAttempts    int
	windowDuration time.Duration
	enabled        bool
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
func NewRateLimiterWithConfig(store RateLimitStore, maxAttempts int, windowDuration time.Duration, enabled bool) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}
	return &RateLimiter{
		store:          store,
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
		enabled:        enabled,
	}
}

// Start drops expired windows from an in-memory store once per window until
// ctx is cancelled. Stores that expire keys themselves need no sweeping, so
// Start returns at once for them.
func (rl *RateLimiter) Start(ctx context.Context) {
	store, ok := rl.store.(interface{ Cleanup() int })
	if !ok {
		return
	}

	ticker := time.NewTicker(rl.windowDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Cleanup(); n > 0 {
				slog.DebugContext(ctx, "Rate limit windows expired", "dropped", n)
			}
		}
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Keys combine the client IP and the route so each endpoint has its own window.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}
		key := clientIP + ":" + c.FullPath()

		allowed, err := rl.store.Allow(c.Request.Context(), key, rl.maxAttempts, rl.windowDuration)
		if err != nil {
			// Fail open so a store outage does not lock users out.
			slog.Warn("Rate limit store unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			slog.Info("Rate limit exceeded", "ip", clientIP, "route", c.FullPath())
			if strings.Contains(c.GetHeader("Accept"), "text/html") {
				c.String(http.StatusTooManyRequests, rateLimitMessage)
			} else {
				c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
					Error: rateLimitMessage,
					Code:  string(domainerror.ErrCodeRateLimited),
				})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

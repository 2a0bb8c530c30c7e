package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/authsecure/backend/internal/application/adapter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	users map[string]adapter.SessionUser
}

func (v *stubVerifier) VerifySession(_ context.Context, token string) (*adapter.SessionUser, error) {
	user, ok := v.users[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &user, nil
}

func (v *stubVerifier) EndSession(_ context.Context, token string) error {
	delete(v.users, token)
	return nil
}

func newVerifier() (*stubVerifier, adapter.SessionUser) {
	user := adapter.SessionUser{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}
	return &stubVerifier{users: map[string]adapter.SessionUser{"good": user}}, user
}

func TestAuthenticate(t *testing.T) {
	verifier, user := newVerifier()
	m := NewAuthMiddleware(verifier)

	r := gin.New()
	r.GET("/me", m.Authenticate(), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID.String(), "email": u.Email})
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, body: "AUTH-030003"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, body: "AUTH-030001"},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized, body: "AUTH-030003"},
		{name: "invalid token", header: "Bearer bad", status: http.StatusUnauthorized, body: "AUTH-030001"},
		{name: "valid token", header: "Bearer good", status: http.StatusOK, body: user.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequireSession(t *testing.T) {
	verifier, user := newVerifier()
	m := NewAuthMiddleware(verifier)

	r := gin.New()
	r.GET("/dashboard", m.RequireSession("/"), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, u.Name)
	})

	t.Run("no cookie redirects", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("invalid cookie redirects and clears", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bad"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookieName+"=;")
	})

	t.Run("valid cookie passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.Name, w.Body.String())
	})
}

func TestSetSessionCookie(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		SetSessionCookie(c, "tok", 0, false)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, SessionCookieName+"=tok")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
}

func testStores(t *testing.T) map[string]RateLimitStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]RateLimitStore{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, ""),
	}
}

func TestRateLimitStores_AllowMaxPerWindow(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				allowed, err := store.Allow(ctx, "1.2.3.4", 3, time.Minute)
				require.NoError(t, err)
				assert.True(t, allowed, "attempt %d", i+1)
			}

			allowed, err := store.Allow(ctx, "1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.False(t, allowed)

			allowed, err = store.Allow(ctx, "5.6.7.8", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "other keys have their own window")
		})
	}
}

func TestMemoryStore_WindowResets(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	allowed, _ := store.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, allowed)
	allowed, _ = store.Allow(ctx, "k", 1, time.Minute)
	assert.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, _ = store.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, allowed)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Cleanup())
	assert.Zero(t, store.Len())
}

func TestRateLimiter_StartSweepsMemoryStore(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := NewMemoryStore()
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	limiter := NewRateLimiterWithConfig(store, 3, 10*time.Millisecond, true)
	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		_, err := store.Allow(context.Background(), ip, 3, time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 3, store.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Start(ctx)
		close(done)
	}()

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

type allowAllStore struct{}

func (allowAllStore) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

func TestRateLimiter_StartReturnsForSelfExpiringStore(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	limiter := NewRateLimiterWithConfig(allowAllStore{}, 3, time.Minute, true)

	done := make(chan struct{})
	go func() {
		limiter.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start blocked on a self-expiring store")
	}
}

func TestRedisStore_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "test:")
	ctx := context.Background()

	allowed, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, _ = store.Allow(ctx, "k", 1, time.Minute)
	assert.False(t, allowed)
	assert.True(t, mr.Exists("test:k"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := store.Allow(context.Background(), "k", 10, time.Minute)
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRateLimiter_Middleware(t *testing.T) {
	newEngine := func(rl *RateLimiter) *gin.Engine {
		r := gin.New()
		r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	post := func(r *gin.Engine, accept string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("json rejection after max", func(t *testing.T) {
		r := newEngine(NewRateLimiterWithConfig(NewMemoryStore(), 2, time.Minute, true))
		assert.Equal(t, http.StatusOK, post(r, "").Code)
		assert.Equal(t, http.StatusOK, post(r, "").Code)

		w := post(r, "application/json")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH-020003")
	})

	t.Run("plain text for html clients", func(t *testing.T) {
		r := newEngine(NewRateLimiterWithConfig(NewMemoryStore(), 1, time.Minute, true))
		post(r, "text/html")

		w := post(r, "text/html,application/xhtml+xml")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, rateLimitMessage, w.Body.String())
	})

	t.Run("disabled", func(t *testing.T) {
		r := newEngine(NewRateLimiterWithConfig(NewMemoryStore(), 1, time.Minute, false))
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, post(r, "").Code)
		}
	})

	t.Run("store failure fails open", func(t *testing.T) {
		r := newEngine(NewRateLimiterWithConfig(failingStore{}, 1, time.Minute, true))
		assert.Equal(t, http.StatusOK, post(r, "").Code)
		assert.Equal(t, http.StatusOK, post(r, "").Code)
	})
}

type recordedRequest struct {
	method, route string
	status        int
}

type stubHTTPRecorder struct {
	requests []recordedRequest
}

func (s *stubHTTPRecorder) HTTPRequest(method, route string, status int) {
	s.requests = append(s.requests, recordedRequest{method, route, status})
}

func TestMetrics(t *testing.T) {
	rec := &stubHTTPRecorder{}
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/users/:id", http.StatusAccepted}, rec.requests[0])
	assert.Equal(t, recordedRequest{http.MethodGet, "unmatched", http.StatusNotFound}, rec.requests[1])
}

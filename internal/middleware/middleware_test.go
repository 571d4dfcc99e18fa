package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"usergroups/internal/middleware"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	valid string
}

func (s stubValidator) ValidateToken(token string) (*jwt.StandardClaims, error) {
	if token != s.valid {
		return nil, errors.New("invalid token: signature is invalid")
	}
	return &jwt.StandardClaims{Subject: "user-1"}, nil
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.AuthRequired(stubValidator{valid: "good"}, zerolog.Nop()))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.UserIDKey).(string))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad token", "bad", http.StatusForbidden},
		{"bad bearer token", "Bearer bad", http.StatusForbidden},
		{"raw token", "good", http.StatusOK},
		{"bearer token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user-1", string(body))
				return
			}
			body := decode(t, resp)
			assert.Equal(t, false, body["success"])
		})
	}
}

// memoryStore counts in memory and can be switched to failing.
type memoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
	fail   bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return redis.NewIntResult(0, errors.New("dial tcp: connection refused"))
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memoryStore) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *memoryStore) TTL(_ context.Context, key string) *redis.DurationCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return redis.NewDurationResult(m.ttls[key], nil)
}

func TestRateLimiter_Limit(t *testing.T) {
	store := newMemoryStore()
	app := fiber.New()
	limiter := middleware.NewRateLimiter(store, zerolog.Nop())
	app.Post("/login", limiter.Limit("login", 2, 30*time.Second), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
	body := decode(t, resp)
	assert.Equal(t, "Too many requests", body["message"])
	assert.Equal(t, float64(30), body["retryAfter"])

	assert.Len(t, store.ttls, 1)
	for key, ttl := range store.ttls {
		assert.True(t, strings.HasPrefix(key, "rate_limit:login:"), key)
		assert.Equal(t, 30*time.Second, ttl)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	store := newMemoryStore()
	store.fail = true
	app := fiber.New()
	app.Post("/login", middleware.NewRateLimiter(store, zerolog.Nop()).Limit("login", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestCallLogger_RedactsBody(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	app := fiber.New()
	app.Post("/users/user/:id", middleware.CallLogger(log), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/users/user/42?debug=1", strings.NewReader(`{"login":"ab1","password":"Aa1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "controller call", entry["message"])
	assert.Equal(t, map[string]any{"id": "42"}, entry["params"])
	assert.Equal(t, map[string]any{"debug": "1"}, entry["query"])
	assert.Equal(t, map[string]any{"login": "ab1", "password": "[REDACTED]"}, entry["body"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.NotContains(t, buf.String(), "Aa1")
}

func TestCallLogger_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	app := fiber.New()
	app.Get("/boom", middleware.CallLogger(log), func(c *fiber.Ctx) error {
		return errors.New("persistence error during listUsers: connection refused")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["error"], "connection refused")
	assert.Equal(t, float64(http.StatusInternalServerError), entry["status"])
}

type declaredError struct {
	status int
}

func (e declaredError) Error() string   { return "declared" }
func (e declaredError) StatusCode() int { return e.status }

func TestCallLogger_LogsWrittenStatusForErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"declared status", declaredError{status: http.StatusUnprocessableEntity}, http.StatusUnprocessableEntity},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			app := fiber.New()
			app.Get("/fail", middleware.CallLogger(zerolog.New(&buf)), func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil), -1)
			require.NoError(t, err)
			resp.Body.Close()

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, float64(tt.status), entry["status"])
		})
	}
}

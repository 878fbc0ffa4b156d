package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
)

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func callerRequest(userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	return req.WithContext(WithCaller(req.Context(), auth.Caller{UserID: userID, Role: enums.UserRoleUser}))
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	limiter := newFakeLimiter()
	handler := RateLimit(PerMinute(2), limiter, nil)(okHandler())

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, callerRequest(userID))
		switch {
		case i < 2 && rec.Code != http.StatusOK:
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		case i == 2:
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
			}
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, callerRequest(uuid.New()))
	if rec.Code != http.StatusOK {
		t.Fatalf("other users keep their own budget, got %d", rec.Code)
	}
}

func TestRateLimitFallsBackToClientIP(t *testing.T) {
	limiter := newFakeLimiter()
	handler := RateLimit(PerMinute(1), limiter, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if _, ok := limiter.counts["api:ip:203.0.113.9"]; !ok {
		t.Fatalf("expected ip scope, got %v", limiter.counts)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis unavailable")
	handler := RateLimit(PerMinute(1), limiter, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, callerRequest(uuid.New()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass when limiter errors, got %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := newFakeLimiter()
	handler := RateLimit(PerMinute(0), limiter, nil)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, callerRequest(uuid.New()))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with limiter disabled, got %d", rec.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("disabled limiter must not be consulted")
	}
}

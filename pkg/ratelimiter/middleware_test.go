package ratelimiter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakinetix/mailkit/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, errors.New("redis down")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLimiter(t *testing.T, capacity int) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       capacity,
		RefillRate:     1,
		RefillInterval: time.Minute,
	})
	require.NoError(t, err)
	return limiter
}

func sendFrom(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/send-email", nil)
	req.RemoteAddr = ip + ":51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_LimitsPerClientIP(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(newLimiter(t, 2))(okHandler())

	first := sendFrom(h, "10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, sendFrom(h, "10.0.0.1").Code)

	limited := sendFrom(h, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "rate limit exceeded", body["error"])

	assert.Equal(t, http.StatusOK, sendFrom(h, "10.0.0.2").Code, "other clients are unaffected")
}

func TestMiddleware_CustomKeyAndHandler(t *testing.T) {
	t.Parallel()

	var limitedCalled bool
	h := ratelimiter.Middleware(newLimiter(t, 1),
		ratelimiter.WithKeyFunc(func(r *http.Request) string { return "global" }),
		ratelimiter.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			limitedCalled = true
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	)(okHandler())

	assert.Equal(t, http.StatusOK, sendFrom(h, "10.0.0.1").Code)
	assert.Equal(t, http.StatusServiceUnavailable, sendFrom(h, "10.0.0.2").Code)
	assert.True(t, limitedCalled)
}

func TestMiddleware_EmptyKeySkipsLimiting(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(newLimiter(t, 1),
		ratelimiter.WithKeyFunc(func(r *http.Request) string { return "" }),
	)(okHandler())

	for range 3 {
		rec := sendFrom(h, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestMiddleware_StoreFailureAllowsRequest(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(failingLimiter{})(okHandler())
	assert.Equal(t, http.StatusOK, sendFrom(h, "10.0.0.1").Code)
}

func TestComposite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/send-welcome-email", nil)
	req.RemoteAddr = "192.168.1.7:4000"

	key := ratelimiter.Composite(ratelimiter.ByClientIP, ratelimiter.ByPath)(req)
	assert.Equal(t, "ip:192.168.1.7:/send-welcome-email", key)

	empty := ratelimiter.Composite(func(*http.Request) string { return "" })(req)
	assert.Empty(t, empty)

	long := ratelimiter.Composite(func(*http.Request) string {
		return "a-very-long-key-component-that-goes-on-and-on-and-on-beyond-limits"
	}, ratelimiter.ByPath)(req)
	assert.LessOrEqual(t, len(long), 64)
	assert.NotContains(t, long, ":")
}

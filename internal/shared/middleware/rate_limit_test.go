package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/pkg/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingCache struct {
	cache.Cache
}

func (f *failingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, errors.New("store down")
}

func limiterRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(ClientIPMiddleware())
	r.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":12345"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterCeiling(t *testing.T) {
	rl := NewRateLimiter(cache.NewMemoryCache(), 120*time.Second, 3)
	r := limiterRouter(rl)

	for i := 0; i < 3; i++ {
		w := doRequest(r, "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := doRequest(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(cache.NewMemoryCache(), 120*time.Second, 3)
	r := limiterRouter(rl)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1").Code)

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2").Code)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(cache.NewMemoryCache(), 120*time.Second, 3)
	rl.SetTimeFunc(func() time.Time { return now })
	r := limiterRouter(rl)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1").Code)
	}
	require.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1").Code)

	// Advance past the window; old timestamps are pruned.
	now = now.Add(121 * time.Second)
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1").Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl := NewRateLimiter(&failingCache{}, 120*time.Second, 3)
	r := limiterRouter(rl)

	// Limiter store down: every request passes.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1").Code)
	}
}

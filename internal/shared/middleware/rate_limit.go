package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/shared/response"
	"staybook-backend/pkg/cache"
)

// RateLimiter guards write-heavy endpoints with a fixed-window-with-pruning
// approximation of sliding-window limiting. Per client IP it keeps an ordered
// list of recent request timestamps under "rt_<ip>" in the shared store,
// prunes entries older than the window, and rejects once the pruned count
// reaches the ceiling before appending.
//
// Concurrent requests from one IP can both pass the check-then-set gap; that
// race is accepted. This is coarse abuse protection, not a security control.
type RateLimiter struct {
	cache   cache.Cache
	window  time.Duration
	ceiling int
	now     func() time.Time
}

func NewRateLimiter(c cache.Cache, window time.Duration, ceiling int) *RateLimiter {
	return &RateLimiter{
		cache:   c,
		window:  window,
		ceiling: ceiling,
		now:     time.Now,
	}
}

// SetTimeFunc overrides the clock. Used in tests.
func (rl *RateLimiter) SetTimeFunc(fn func() time.Time) {
	rl.now = fn
}

// Allow records a request for ip and reports whether it is within the limit.
func (rl *RateLimiter) Allow(c *gin.Context, ip string) (bool, error) {
	key := "rt_" + ip
	now := float64(rl.now().UnixNano()) / float64(time.Second)
	windowSecs := rl.window.Seconds()

	var timestamps []float64
	if _, err := rl.cache.Get(c.Request.Context(), key, &timestamps); err != nil {
		return false, err
	}

	recent := timestamps[:0]
	for _, ts := range timestamps {
		if now-ts < windowSecs {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.ceiling {
		return false, nil
	}

	recent = append(recent, now)
	if err := rl.cache.Set(c.Request.Context(), key, recent, rl.window); err != nil {
		return false, err
	}

	return true, nil
}

// Middleware applies the limiter to a route group.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetString("client_ip")
		if ip == "" {
			ip = c.ClientIP()
		}

		allowed, err := rl.Allow(c, ip)
		if err != nil {
			// Limiter store being down must not take requests with it.
			log.Error().Err(err).Str("ip", ip).Msg("Rate limiter store error, letting request through")
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c, "Too many requests at a time!")
			c.Abort()
			return
		}

		c.Next()
	}
}

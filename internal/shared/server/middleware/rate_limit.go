package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig controls the fixed-window limiter applied to /api routes.
type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Limiter *RateLimiter
}

// RateLimiter counts requests per key in fixed windows. Stale windows are
// evicted opportunistically so the key set does not grow without bound.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*rateWindow
	now       func() time.Time
	lastSweep time.Time
}

type rateWindow struct {
	start time.Time
	count int
}

// NewRateLimiter builds a limiter; now may be nil to use wall-clock time.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		now:     now,
	}
}

// RateLimit rejects requests beyond Max per Window for a client IP.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		if cfg.Max <= 0 || cfg.Window <= 0 {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP())
		allowed, retryAfter := cfg.Limiter.Allow(key, cfg.Max, cfg.Window)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": retryAfterSeconds * 1000,
		})
		c.Abort()
	}
}

// Allow records one request for key and reports whether it fits the window.
func (l *RateLimiter) Allow(key string, max int, window time.Duration) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= window {
		for k, w := range l.windows {
			if now.Sub(w.start) >= window {
				delete(l.windows, k)
			}
		}
		l.lastSweep = now
	}
	win, ok := l.windows[key]
	if !ok || now.Sub(win.start) >= window {
		win = &rateWindow{start: now}
		l.windows[key] = win
	}
	if win.count < max {
		win.count++
		return true, 0
	}
	return false, win.start.Add(window).Sub(now)
}

// middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/assetops/entitlements/logging"
)

// slidingWindow tracks request timestamps per client. The cache this service
// fronts is per-process, so the limiter is too; there is no shared state to
// coordinate across instances.
type slidingWindow struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	per    time.Duration
	lastGC time.Time
}

func newSlidingWindow(limit int, per time.Duration) *slidingWindow {
	return &slidingWindow{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		per:    per,
		lastGC: time.Now(),
	}
}

// allow records one hit for key and reports whether it stays within limit.
func (s *slidingWindow) allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-s.per)

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := s.hits[key][:0]
	for _, ts := range s.hits[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	recent = append(recent, now)
	s.hits[key] = recent

	// Periodically drop idle clients so the map does not grow unbounded.
	if now.Sub(s.lastGC) > s.per {
		for k, v := range s.hits {
			if len(v) == 0 || !v[len(v)-1].After(cutoff) {
				delete(s.hits, k)
			}
		}
		s.lastGC = now
	}

	return len(recent) <= s.limit
}

func RateLimiter(limit int, per time.Duration) gin.HandlerFunc {
	window := newSlidingWindow(limit, per)

	return func(c *gin.Context) {
		key := c.ClientIP() // Or use a user identifier
		allowed := window.allow(key)

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

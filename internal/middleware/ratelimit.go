package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig controls per-client request rate limiting.
type RateLimitConfig struct {
	// RPS is the sustained request rate allowed per client IP.
	RPS float64
	// Burst is the burst size allowed per client IP.
	Burst int
}

// clientLimiter pairs a token bucket with its last-seen time so idle
// entries can be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns a gin middleware that applies a per-client-IP token
// bucket. Requests over the limit receive 429 with a JSON envelope.
//
// Limiter entries idle for more than ten minutes are evicted lazily on
// the next sweep, so the map does not grow without bound.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		// Misconfigured limiter: pass everything through rather than
		// deadlocking all traffic.
		return func(c *gin.Context) { c.Next() }
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*clientLimiter)
		lastSweep = time.Now()
	)

	const idleEviction = 10 * time.Minute

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > idleEviction {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) > idleEviction {
					delete(clients, key)
				}
			}
			lastSweep = now
		}

		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests",
				"data":    nil,
			})
			return
		}

		c.Next()
	}
}

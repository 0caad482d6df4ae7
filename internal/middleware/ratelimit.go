package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/prescripto/health-recommender/internal/domain"
)

// RateLimiter applies a token-bucket limit per client IP. Idle client
// limiters are evicted periodically so the map does not grow without bound.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	logger *logrus.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a per-client rate limiter. rps <= 0 disables
// limiting.
func NewRateLimiter(rps float64, burst int, logger *logrus.Logger) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		logger:  logger,
		clients: make(map[string]*clientLimiter),
	}
	go rl.cleanupLoop()
	return rl
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		if !rl.limiterFor(c.ClientIP()).Allow() {
			rl.logger.WithField("client_ip", c.ClientIP()).Warn("Rate limit exceeded")
			apiErr := domain.NewAPIError(domain.ErrRateLimit, "Too many requests", "", c.GetString("correlation_id"))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiErr)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-30 * time.Minute)
		rl.mu.Lock()
		for ip, cl := range rl.clients {
			if cl.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing limit requests/sec with burst
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*clientLimiter),
		limit:    limit,
		burst:    burst,
	}
}

// Handler returns the Fiber middleware
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !r.allow(c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		return c.Next()
	}
}

func (r *RateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[ip]
	if !exists {
		v = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// CleanupLoop evicts idle clients; run in a goroutine
func (r *RateLimiter) CleanupLoop() {
	for {
		time.Sleep(time.Minute)
		r.mu.Lock()
		for ip, v := range r.visitors {
			if time.Since(v.lastSeen) > 5*time.Minute {
				delete(r.visitors, ip)
			}
		}
		r.mu.Unlock()
	}
}

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mroshb/daymate/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per user and per client IP. Each bucket
// allows max requests per window with bursts up to max.
type RateLimiter struct {
	userLimits map[string]*bucket
	ipLimits   map[string]*bucket
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration

	stop chan struct{}
	once sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[string]*bucket),
		ipLimits:        make(map[string]*bucket),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
		stop:            make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) get(limits map[string]*bucket, key string, max int) *rate.Limiter {
	b, ok := limits[key]
	if !ok {
		limit := rate.Inf
		if max > 0 {
			limit = rate.Every(rl.window / time.Duration(max))
		}
		b = &bucket{limiter: rate.NewLimiter(limit, max)}
		limits[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// CheckUserLimit checks if user has exceeded rate limit
func (rl *RateLimiter) CheckUserLimit(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.get(rl.userLimits, userID, rl.userMaxRequests).Allow()
}

// CheckIPLimit checks if IP has exceeded rate limit
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.get(rl.ipLimits, ip, rl.ipMaxRequests).Allow()
}

// GetUserRemaining returns remaining requests for user
func (rl *RateLimiter) GetUserRemaining(userID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.userLimits[userID]
	if !ok {
		return rl.userMaxRequests
	}
	if remaining := int(b.limiter.Tokens()); remaining > 0 {
		return remaining
	}
	return 0
}

// cleanup drops buckets that have been idle for a full window
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for key, b := range rl.userLimits {
			if b.lastSeen.Before(cutoff) {
				delete(rl.userLimits, key)
			}
		}
		for key, b := range rl.ipLimits {
			if b.lastSeen.Before(cutoff) {
				delete(rl.ipLimits, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[string]*bucket)
	rl.ipLimits = make(map[string]*bucket)
}

// RateLimit rejects requests over the client IP budget and, once a user is
// authenticated, over that user's budget.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.CheckIPLimit(clientIP(r)) {
				writeError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "too many requests")
				return
			}
			if userID, ok := UserIDFromContext(r.Context()); ok && !rl.CheckUserLimit(userID) {
				writeError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

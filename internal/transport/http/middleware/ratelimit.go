package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	sweepEvery = 5 * time.Minute
	staleAfter = 10 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than staleAfter are pruned during lookups, at most once per sweepEvery.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	r         rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows r requests per second per client with bursts of burst.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*clientBucket),
		r:         r,
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) bucket(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= sweepEvery {
		for key, b := range rl.buckets {
			if now.Sub(b.lastSeen) > staleAfter {
				delete(rl.buckets, key)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.r, rl.burst)}
		rl.buckets[client] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Limit rejects requests over the client's budget with 429 and Retry-After.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.bucket(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", rl.retryAfter())
			writeJSONError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter is the whole-second wait for one token to refill.
func (rl *RateLimiter) retryAfter() string {
	secs := 1
	if rl.r > 0 && rl.r < 1 {
		secs = int(math.Ceil(1 / float64(rl.r)))
	}
	return strconv.Itoa(secs)
}

// clientIP is the connection address without its port. Forwarded headers
// are ignored here; behind a trusted proxy the router rewrites RemoteAddr
// first (chi RealIP), so spoofed headers cannot mint fresh buckets.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package rest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter controls the frequency of requests to the hosted backend.
type RateLimiter struct {
	// main limiter, default 10/sec
	limiter *rate.Limiter

	// additional backoff after a 429 response
	backoffUntil time.Time
	mu           sync.Mutex
}

// NewRateLimiter creates a rate limiter for backend requests.
// rps - requests per second
// burst - allowed burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// DefaultRateLimiter returns a limiter with conservative settings. Multi-page
// aggregations issue pages sequentially, so a small burst is enough.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(10.0, 2)
}

// Wait blocks until the next request is allowed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	waitUntil := r.backoffUntil
	r.mu.Unlock()

	// if a server-requested backoff is active - wait for it
	if time.Now().Before(waitUntil) {
		select {
		case <-time.After(time.Until(waitUntil)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return r.limiter.Wait(ctx)
}

// SetBackoff sets a pause after a 429 / Retry-After response.
func (r *RateLimiter) SetBackoff(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backoffUntil = time.Now().Add(d)
}

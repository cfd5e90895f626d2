// Package notifyworker consumes notification-requested events off the
// event bus and dispatches them through a Sender, rate-limited and retried
// with exponential backoff. Grounded on notification-worker/src/{worker
// absent, rate_limiter.rs, retry.rs, sender.rs}, restyled after the
// teacher's clockutil.Clock injection for deterministic tests.
package notifyworker

import (
	"sync"
	"time"

	"github.com/coldwire/mediacore/clockutil"
)

// RateLimiter is a token-bucket limiter (notification-worker's
// RateLimiter), refilling refillAmount tokens every refillPeriod up to
// capacity.
type RateLimiter struct {
	mu sync.Mutex

	capacity     uint32
	refillAmount uint32
	refillPeriod time.Duration

	tokens     uint32
	lastRefill time.Time

	clock clockutil.Clock
}

// NewRateLimiter returns a limiter starting full (capacity tokens).
func NewRateLimiter(capacity, refillAmount uint32, refillPeriod time.Duration) *RateLimiter {
	return NewRateLimiterWithClock(capacity, refillAmount, refillPeriod, clockutil.System{})
}

// NewRateLimiterWithClock is NewRateLimiter with an injectable clock, for
// deterministic tests.
func NewRateLimiterWithClock(capacity, refillAmount uint32, refillPeriod time.Duration, clock clockutil.Clock) *RateLimiter {
	return &RateLimiter{
		capacity:     capacity,
		refillAmount: refillAmount,
		refillPeriod: refillPeriod,
		tokens:       capacity,
		lastRefill:   clock.Now(),
		clock:        clock,
	}
}

// FromRequestsPerSecond mirrors RateLimiter::from_requests_per_second.
func FromRequestsPerSecond(rps uint32) *RateLimiter {
	return NewRateLimiter(rps, rps, time.Second)
}

// TryAcquire consumes one token if available, refilling first. Returns
// false if the bucket is empty.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	elapsed := now.Sub(r.lastRefill)
	if elapsed >= r.refillPeriod {
		periods := elapsed.Seconds() / r.refillPeriod.Seconds()
		added := uint32(periods * float64(r.refillAmount))
		r.tokens += added
		if r.tokens > r.capacity {
			r.tokens = r.capacity
		}
		r.lastRefill = now
	}

	if r.tokens == 0 {
		return false
	}
	r.tokens--
	return true
}

// AvailableTokens returns the current token count without consuming one.
func (r *RateLimiter) AvailableTokens() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens
}

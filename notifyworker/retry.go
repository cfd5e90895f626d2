package notifyworker

import (
	"context"
	"math"
	"time"
)

// RetryConfig controls exponential backoff between delivery attempts
// (notification-worker/src/retry.rs RetryConfig).
type RetryConfig struct {
	MaxRetries   uint32
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig mirrors the reference worker's defaults: 3 retries,
// starting at 1s, doubling, capped at 60s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
	}
}

// DelayForAttempt returns the backoff delay before the given attempt
// number (1-indexed; attempt 0 is immediate).
func (c RetryConfig) DelayForAttempt(attempt uint32) time.Duration {
	if attempt == 0 {
		return 0
	}
	seconds := c.InitialDelay.Seconds() * math.Pow(c.Multiplier, float64(attempt-1))
	if cap := c.MaxDelay.Seconds(); seconds > cap {
		seconds = cap
	}
	return time.Duration(seconds * float64(time.Second))
}

// RetryWithBackoff runs f, retrying up to config.MaxRetries times with
// exponential backoff between attempts, honoring ctx cancellation between
// retries (spec §9: "every long-running task... must observe a
// cancellation signal at each loop iteration").
func RetryWithBackoff[T any](ctx context.Context, config RetryConfig, f func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := uint32(0); attempt <= config.MaxRetries; attempt++ {
		result, err := f(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < config.MaxRetries {
			delay := config.DelayForAttempt(attempt + 1)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, lastErr
}

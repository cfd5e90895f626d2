package notifyworker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coldwire/mediacore/clockutil"
)

func TestRateLimiterAcquiresUpToCapacity(t *testing.T) {
	limiter := NewRateLimiter(5, 5, time.Second)
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.TryAcquire())
	}
	assert.False(t, limiter.TryAcquire())
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	fake := clockutil.NewFake(time.Unix(0, 0))
	limiter := NewRateLimiterWithClock(5, 5, 100*time.Millisecond, fake)
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.TryAcquire())
	}
	assert.False(t, limiter.TryAcquire())

	fake.Advance(150 * time.Millisecond)
	assert.True(t, limiter.TryAcquire())
}

func TestRetryConfigDelayForAttemptBacksOffExponentially(t *testing.T) {
	c := DefaultRetryConfig()
	assert.Equal(t, time.Duration(0), c.DelayForAttempt(0))
	assert.Equal(t, time.Second, c.DelayForAttempt(1))
	assert.Equal(t, 2*time.Second, c.DelayForAttempt(2))
	assert.Equal(t, 4*time.Second, c.DelayForAttempt(3))
}

func TestRetryConfigDelayClampsToMax(t *testing.T) {
	c := RetryConfig{MaxRetries: 10, InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}
	assert.Equal(t, 5*time.Second, c.DelayForAttempt(10))
}

package congestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAimdIncreasesUnderGoodConditions covers scenario S5's first half:
// ten consecutive good samples must strictly increase current_rate,
// bounded by max_rate.
func TestAimdIncreasesUnderGoodConditions(t *testing.T) {
	c := NewController(DefaultConfig())
	prev := c.CurrentRate()

	for i := 0; i < 10; i++ {
		rate := c.AdjustRate(Sample{RTTMs: 50, LossRate: 0})
		assert.Greater(t, rate, prev)
		assert.LessOrEqual(t, rate, DefaultConfig().MaxRate)
		prev = rate
	}
}

// TestAimdDecreasesUnderLoss covers scenario S5's second half: one
// sample with 10% loss must cut target_rate by the multiplicative
// decrease factor.
func TestAimdDecreasesUnderLoss(t *testing.T) {
	c := NewController(DefaultConfig())
	initialTarget := c.TargetRate()

	c.AdjustRate(Sample{RTTMs: 50, LossRate: 0.10})

	assert.InDelta(t, initialTarget*DefaultConfig().MultiplicativeDecrease, c.TargetRate(), 1e-6)
	assert.Less(t, c.CurrentRate(), initialTarget)
}

func TestAimdHoldsBetweenThresholds(t *testing.T) {
	c := NewController(DefaultConfig())
	initialTarget := c.TargetRate()

	// Loss below congestion threshold but not low enough to count as
	// "good" (0.01 <= loss <= threshold).
	c.AdjustRate(Sample{RTTMs: 50, LossRate: 0.02})
	assert.Equal(t, initialTarget, c.TargetRate())
}

func TestRateClampsToBounds(t *testing.T) {
	c := NewController(Config{
		InitialRate:            500_000,
		MinRate:                100_000,
		MaxRate:                1_000_000,
		LossThreshold:          0.05,
		RTTThresholdMs:         200,
		AdditiveIncrease:       10_000,
		MultiplicativeDecrease: 0.8,
	})

	c.SetTargetRate(50_000)
	assert.GreaterOrEqual(t, c.TargetRate(), 100_000.0)

	c.SetTargetRate(2_000_000)
	assert.LessOrEqual(t, c.TargetRate(), 1_000_000.0)
}

func TestResetRestoresInitialRate(t *testing.T) {
	c := NewController(DefaultConfig())
	c.AdjustRate(Sample{RTTMs: 300, LossRate: 0.5})
	assert.NotEqual(t, DefaultConfig().InitialRate, c.CurrentRate())

	c.Reset()
	assert.Equal(t, DefaultConfig().InitialRate, c.CurrentRate())
	assert.Equal(t, DefaultConfig().InitialRate, c.TargetRate())
}

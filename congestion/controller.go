// Package congestion implements the AIMD congestion controller (spec
// §4.9), grounded directly on congestion_control.rs and restyled after
// the teacher's av/adaptation.go (AIMD config struct with documented
// default rationale, sync.Mutex-guarded state, quality-style texture).
package congestion

import "sync"

// Config holds the AIMD tuning parameters (spec §3 Congestion State).
type Config struct {
	InitialRate float64 // bps
	MinRate     float64 // bps
	MaxRate     float64 // bps

	LossThreshold float64 // 0.0-1.0
	RTTThresholdMs float64

	AdditiveIncrease       float64 // bps per update
	MultiplicativeDecrease float64 // (0,1)
}

// DefaultConfig mirrors the reference engine's defaults: 1 Mbps initial
// rate, a 64 kbps-10 Mbps range, 5% loss / 200ms RTT congestion
// thresholds, 10 kbps additive increase, and a 20% multiplicative cut.
func DefaultConfig() Config {
	return Config{
		InitialRate:            1_000_000,
		MinRate:                64_000,
		MaxRate:                10_000_000,
		LossThreshold:          0.05,
		RTTThresholdMs:         200,
		AdditiveIncrease:       10_000,
		MultiplicativeDecrease: 0.8,
	}
}

// Sample is one congestion-relevant network observation (spec §3
// Network Metrics Sample, restricted to the fields AdjustRate needs).
type Sample struct {
	RTTMs    float64
	LossRate float64
}

// Controller runs the AIMD rate-control state machine (spec §4.9).
type Controller struct {
	mu          sync.Mutex
	config      Config
	currentRate float64
	targetRate  float64
}

// NewController returns a Controller starting at config.InitialRate.
func NewController(config Config) *Controller {
	return &Controller{
		config:      config,
		currentRate: config.InitialRate,
		targetRate:  config.InitialRate,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AdjustRate folds one sample into the controller's state, returning the
// new smoothed current rate (spec §4.9).
func (c *Controller) AdjustRate(s Sample) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	congested := s.LossRate > c.config.LossThreshold || s.RTTMs > c.config.RTTThresholdMs
	good := s.LossRate < 0.01 && s.RTTMs < 0.8*c.config.RTTThresholdMs

	switch {
	case congested:
		c.targetRate *= c.config.MultiplicativeDecrease
	case good:
		c.targetRate += c.config.AdditiveIncrease
	}

	c.targetRate = clamp(c.targetRate, c.config.MinRate, c.config.MaxRate)
	c.currentRate += 0.1 * (c.targetRate - c.currentRate)

	return c.currentRate
}

// CurrentRate returns the smoothed send rate.
func (c *Controller) CurrentRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRate
}

// TargetRate returns the unsmoothed target rate the controller is
// converging toward.
func (c *Controller) TargetRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetRate
}

// SetTargetRate overrides the target rate for external control (e.g. an
// application-level cap), clamped to [MinRate, MaxRate].
func (c *Controller) SetTargetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targetRate = clamp(rate, c.config.MinRate, c.config.MaxRate)
}

// Reset restores both current and target rate to the configured initial
// rate.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRate = c.config.InitialRate
	c.targetRate = c.config.InitialRate
}

// Snapshot is a consistent read of both rates.
type Snapshot struct {
	CurrentRate float64
	TargetRate  float64
}

// Snapshot returns a consistent read of the controller's current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{CurrentRate: c.currentRate, TargetRate: c.targetRate}
}

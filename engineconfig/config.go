// Package engineconfig holds the engine's construction-time configuration
// (spec §6: "the core components take a configuration object at
// construction, not process-wide globals"), grounded on toxcore.go's
// Options/NewOptions pattern.
package engineconfig

import (
	"time"

	"github.com/coldwire/mediacore/congestion"
	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/relay"
)

// CongestionOptions are the recognized congestion-controller options (spec
// §6): {initial_rate_bps, min_rate_bps, max_rate_bps,
// packet_loss_threshold, rtt_threshold_ms, additive_increase_bps,
// multiplicative_decrease}.
type CongestionOptions struct {
	InitialRateBps         float64
	MinRateBps             float64
	MaxRateBps             float64
	PacketLossThreshold    float64
	RTTThresholdMs         float64
	AdditiveIncreaseBps    float64
	MultiplicativeDecrease float64
}

// ToControllerConfig converts o into a congestion.Config.
func (o CongestionOptions) ToControllerConfig() congestion.Config {
	return congestion.Config{
		InitialRate:            o.InitialRateBps,
		MinRate:                o.MinRateBps,
		MaxRate:                o.MaxRateBps,
		LossThreshold:          o.PacketLossThreshold,
		RTTThresholdMs:         o.RTTThresholdMs,
		AdditiveIncrease:       o.AdditiveIncreaseBps,
		MultiplicativeDecrease: o.MultiplicativeDecrease,
	}
}

// AllocationOptions are the recognized allocation-manager options (spec
// §6): {default_lifetime, max_allocations}.
type AllocationOptions struct {
	DefaultLifetime time.Duration
	MaxAllocations  int
}

// EventBusOptions configure the (optional) NATS event-bus connection.
type EventBusOptions struct {
	Enabled bool
	URL     string
}

// Options is the engine's full construction-time configuration.
type Options struct {
	Congestion CongestionOptions
	Allocation AllocationOptions
	EventBus   EventBusOptions
}

// NewOptions returns Options populated with the reference engine's
// defaults (congestion.DefaultConfig, a 10-minute TURN-style allocation
// lifetime, and the event bus disabled).
func NewOptions() *Options {
	d := congestion.DefaultConfig()
	return &Options{
		Congestion: CongestionOptions{
			InitialRateBps:         d.InitialRate,
			MinRateBps:             d.MinRate,
			MaxRateBps:             d.MaxRate,
			PacketLossThreshold:    d.LossThreshold,
			RTTThresholdMs:         d.RTTThresholdMs,
			AdditiveIncreaseBps:    d.AdditiveIncrease,
			MultiplicativeDecrease: d.MultiplicativeDecrease,
		},
		Allocation: AllocationOptions{
			DefaultLifetime: 10 * time.Minute,
			MaxAllocations:  relay.DefaultMaxAllocations,
		},
		EventBus: EventBusOptions{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
		},
	}
}

// Validate rejects configurations that would make a constructed component
// misbehave rather than letting them fail later with a confusing error.
func (o *Options) Validate() error {
	c := o.Congestion
	switch {
	case c.MinRateBps <= 0:
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "congestion.min_rate_bps must be positive")
	case c.MaxRateBps < c.MinRateBps:
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "congestion.max_rate_bps must be >= min_rate_bps")
	case c.InitialRateBps < c.MinRateBps || c.InitialRateBps > c.MaxRateBps:
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "congestion.initial_rate_bps must be within [min_rate_bps, max_rate_bps]")
	case c.PacketLossThreshold < 0 || c.PacketLossThreshold > 1:
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "congestion.packet_loss_threshold must be in [0,1]")
	case c.MultiplicativeDecrease <= 0 || c.MultiplicativeDecrease >= 1:
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "congestion.multiplicative_decrease must be in (0,1)")
	}

	if o.Allocation.MaxAllocations <= 0 {
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "allocation.max_allocations must be positive")
	}
	if o.Allocation.DefaultLifetime <= 0 {
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "allocation.default_lifetime must be positive")
	}

	if o.EventBus.Enabled && o.EventBus.URL == "" {
		return mediaerr.New(mediaerr.KindConfigError, "engineconfig.Validate", "event_bus.url required when event_bus is enabled")
	}
	return nil
}

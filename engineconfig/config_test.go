package engineconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsIsValid(t *testing.T) {
	o := NewOptions()
	require.NoError(t, o.Validate())
}

func TestValidateRejectsInvertedRateBounds(t *testing.T) {
	o := NewOptions()
	o.Congestion.MaxRateBps = 100
	o.Congestion.MinRateBps = 200
	assert.Error(t, o.Validate())
}

func TestValidateRejectsOutOfRangeLossThreshold(t *testing.T) {
	o := NewOptions()
	o.Congestion.PacketLossThreshold = 1.5
	assert.Error(t, o.Validate())
}

func TestValidateRejectsZeroMaxAllocations(t *testing.T) {
	o := NewOptions()
	o.Allocation.MaxAllocations = 0
	assert.Error(t, o.Validate())
}

func TestToControllerConfigRoundTripsFields(t *testing.T) {
	o := NewOptions()
	cfg := o.Congestion.ToControllerConfig()
	assert.Equal(t, o.Congestion.InitialRateBps, cfg.InitialRate)
	assert.Equal(t, o.Congestion.MultiplicativeDecrease, cfg.MultiplicativeDecrease)
}

func TestValidateRejectsEventBusEnabledWithoutURL(t *testing.T) {
	o := NewOptions()
	o.EventBus.Enabled = true
	o.EventBus.URL = ""
	assert.Error(t, o.Validate())
}

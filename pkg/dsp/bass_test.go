package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisablingBassDrivesTargetGainToZero(t *testing.T) {
	bp := NewBassProcessor(48000, 1, BassConfig{Enabled: true, Intensity: 100})

	// Feed enough frames to cross at least one adapt boundary with a
	// broadband signal so target_gain moves off zero.
	for i := 0; i < adaptFrameInterval+1; i++ {
		bp.ProcessSample(0, 0.3)
	}
	require.GreaterOrEqual(t, bp.TargetGainDB(0), 0.0, "target gain should not go negative")

	bp.SetConfig(BassConfig{Enabled: false, Intensity: 100})
	for i := 0; i < adaptFrameInterval+1; i++ {
		bp.ProcessSample(0, 0.3)
	}

	assert.Equal(t, 0.0, bp.TargetGainDB(0), "TargetGainDB() after disabling bass")
}

func TestBassIntensityClampedToValidRange(t *testing.T) {
	bp := NewBassProcessor(48000, 1, DefaultBassConfig())

	bp.SetConfig(BassConfig{Enabled: true, Intensity: 150})
	assert.Equal(t, 100.0, bp.config.Intensity, "Intensity should clamp to 100")

	bp.SetConfig(BassConfig{Enabled: true, Intensity: -10})
	assert.Equal(t, 0.0, bp.config.Intensity, "Intensity should clamp to 0")
}

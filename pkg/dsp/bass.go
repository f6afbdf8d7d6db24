package dsp

import "math"

const (
	adaptFrameInterval = 2048
	gainStepDB         = 0.2
	smoothingAlpha     = 0.005
	energyEpsilon      = 1e-9
)

// BassConfig is the shared, host-mutable configuration for the adaptive
// bass processor: enabled defaults false, intensity defaults 50 (clamped
// to [0,100]). See pkg/worker for how it is read on (re)construction.
type BassConfig struct {
	Enabled   bool
	Intensity float64 // 0..100
}

// DefaultBassConfig returns the documented defaults.
func DefaultBassConfig() BassConfig {
	return BassConfig{Enabled: false, Intensity: 50}
}

// bassChannelState holds the per-channel accumulators and filters of the
// adaptive bass processor.
type bassChannelState struct {
	highPass *Biquad
	lowShelf *Biquad

	currentGain float64
	targetGain  float64

	lowEnergy   float64
	totalEnergy float64
	counter     int
}

// BassProcessor implements an adaptive low-shelf bass boost with a DC
// high-pass prefilter, one instance per channel.
type BassProcessor struct {
	sampleRate float64
	channels   []*bassChannelState
	config     BassConfig
}

// NewBassProcessor constructs per-channel HighPass(30Hz, Q=0.707) and
// LowShelf(80Hz, Q=0.65, 0dB) filters as the initial filter parameters.
func NewBassProcessor(sampleRate float64, numChannels int, config BassConfig) *BassProcessor {
	bp := &BassProcessor{sampleRate: sampleRate, config: config}
	bp.channels = make([]*bassChannelState, numChannels)
	for i := range bp.channels {
		bp.channels[i] = &bassChannelState{
			highPass: NewBiquad(HighPass, sampleRate, 30, 0.707, 0),
			lowShelf: NewBiquad(LowShelf, sampleRate, 80, 0.65, 0),
		}
	}
	return bp
}

// SetConfig updates the enabled/intensity configuration; the next adapt()
// boundary will act on it.
func (bp *BassProcessor) SetConfig(config BassConfig) {
	if config.Intensity < 0 {
		config.Intensity = 0
	}
	if config.Intensity > 100 {
		config.Intensity = 100
	}
	bp.config = config
}

// ProcessSample runs one sample of channel ch through the accumulate /
// high-pass / accumulate / low-shelf pipeline described in §4.5, advancing
// the every-2048-frame adapt schedule.
func (bp *BassProcessor) ProcessSample(ch int, x float64) float64 {
	s := bp.channels[ch]

	// Drift current_gain toward target_gain by smoothingAlpha of the
	// remaining difference on every sample; self-limiting since the
	// difference shrinks geometrically.
	s.currentGain += (s.targetGain - s.currentGain) * smoothingAlpha
	bp.reinstallLowShelfIfNeeded(ch)

	s.totalEnergy += x * x

	hp := s.highPass.Process(x)

	s.lowEnergy += hp * hp

	out := s.lowShelf.Process(hp)

	s.counter++
	if s.counter >= adaptFrameInterval {
		bp.adapt()
	}

	return out
}

// reinstallLowShelfIfNeeded recomputes and reinstalls the LowShelf
// coefficients for channel ch from current_gain on every call (once per
// sample, whether or not the gain moved), preserving filter state so the
// gain ramp does not click.
func (bp *BassProcessor) reinstallLowShelfIfNeeded(ch int) {
	s := bp.channels[ch]
	s.lowShelf.SetCoefficients(LowShelf, bp.sampleRate, 80, 0.65, s.currentGain)
}

// adapt runs the every-2048-frame gain-adaptation step described in §4.5,
// across all channels at once (the accumulators are per-channel but the
// cadence is shared since ProcessSample is called in lockstep per frame
// by the chain).
func (bp *BassProcessor) adapt() {
	if !bp.config.Enabled {
		for _, s := range bp.channels {
			s.targetGain = 0
			s.lowEnergy = 0
			s.totalEnergy = 0
			s.counter = 0
		}
		return
	}

	maxGainDB := bp.config.Intensity / 100 * 8.0

	var ratioSum, totalSum float64
	n := float64(len(bp.channels))
	for _, s := range bp.channels {
		if s.totalEnergy > energyEpsilon {
			ratioSum += math.Sqrt(s.lowEnergy / s.totalEnergy)
		}
		totalSum += s.totalEnergy
	}
	avgRatio := ratioSum / n
	avgTotal := totalSum / n

	for _, s := range bp.channels {
		if avgTotal > energyEpsilon {
			if avgRatio < 0.4 {
				s.targetGain += gainStepDB
			} else if avgRatio > 0.6 {
				s.targetGain -= gainStepDB
			}
		}
		if s.targetGain < 0 {
			s.targetGain = 0
		}
		if s.targetGain > maxGainDB {
			s.targetGain = maxGainDB
		}

		s.lowEnergy = 0
		s.totalEnergy = 0
		s.counter = 0
	}
}

// CurrentGainDB exposes the applied gain of a channel, primarily for
// tests of the adaptation schedule (testable property 10).
func (bp *BassProcessor) CurrentGainDB(ch int) float64 {
	return bp.channels[ch].currentGain
}

// TargetGainDB exposes the adaptation target, primarily for tests.
func (bp *BassProcessor) TargetGainDB(ch int) float64 {
	return bp.channels[ch].targetGain
}

// Reset clears all per-channel filter state and accumulators.
func (bp *BassProcessor) Reset() {
	for _, s := range bp.channels {
		s.highPass.Reset()
		s.lowShelf.Reset()
		s.currentGain = 0
		s.targetGain = 0
		s.lowEnergy = 0
		s.totalEnergy = 0
		s.counter = 0
	}
}

package dsp

// Chain is the per-channel cascade of §4.5: bass processor, a fixed
// high-shelf trim at 12kHz/Q0.7/-1.5dB, and a peak limiter at -0.1dBFS.
// Process operates on interleaved float32 buffers in place.
type Chain struct {
	sampleRate float64
	channels   int

	bass      *BassProcessor
	highShelf []*Biquad
	limiter   *Limiter
}

// NewChain builds the fixed cascade for the given sample rate and channel
// count, with the bass processor configured per bassConfig.
func NewChain(sampleRate float64, numChannels int, bassConfig BassConfig) *Chain {
	c := &Chain{
		sampleRate: sampleRate,
		channels:   numChannels,
		bass:       NewBassProcessor(sampleRate, numChannels, bassConfig),
		limiter:    NewLimiter(sampleRate, numChannels, -0.1),
	}
	c.highShelf = make([]*Biquad, numChannels)
	for i := range c.highShelf {
		c.highShelf[i] = NewBiquad(HighShelf, sampleRate, 12000, 0.7, -1.5)
	}
	return c
}

// Process runs interleaved samples through the cascade in place; frames =
// len(samples) / channels.
func (c *Chain) Process(samples []float32) {
	ch := c.channels
	for i, x := range samples {
		channel := i % ch
		y := c.bass.ProcessSample(channel, float64(x))
		y = c.highShelf[channel].Process(y)
		y = c.limiter.Process(channel, y)
		samples[i] = float32(y)
	}
}

// SetBassBoost toggles the adaptive bass boost on or off.
func (c *Chain) SetBassBoost(enabled bool) {
	cfg := c.bass.config
	cfg.Enabled = enabled
	c.bass.SetConfig(cfg)
}

// SetBassIntensity clamps and applies a new bass intensity (0..100).
func (c *Chain) SetBassIntensity(intensity float64) {
	cfg := c.bass.config
	cfg.Intensity = intensity
	c.bass.SetConfig(cfg)
}

// Bass exposes the underlying bass processor, mainly for tests and
// diagnostics.
func (c *Chain) Bass() *BassProcessor { return c.bass }

// Limiter exposes the underlying limiter, mainly for tests.
func (c *Chain) Limiter() *Limiter { return c.limiter }

// Reset clears all filter/envelope state across the cascade.
func (c *Chain) Reset() {
	c.bass.Reset()
	for _, b := range c.highShelf {
		b.Reset()
	}
	c.limiter.Reset()
}

package clock

import "testing"

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.State() != Stopped {
		t.Errorf("State() = %v, want Stopped", c.State())
	}
	if c.SampleRate() != 44100 || c.Channels() != 2 {
		t.Errorf("defaults = %d/%d, want 44100/2", c.SampleRate(), c.Channels())
	}
}

func TestTimeSecondsZeroWhenRateOrChannelsZero(t *testing.T) {
	c := New()
	c.SetSampleRate(0)
	c.SetSamplePos(1000)
	if got := c.TimeSeconds(); got != 0 {
		t.Errorf("TimeSeconds() = %v, want 0 when rate is 0", got)
	}

	c.SetSampleRate(44100)
	c.SetChannels(0)
	if got := c.TimeSeconds(); got != 0 {
		t.Errorf("TimeSeconds() = %v, want 0 when channels is 0", got)
	}
}

func TestTimeSecondsDerivation(t *testing.T) {
	c := New()
	c.SetSampleRate(48000)
	c.SetChannels(2)
	c.SetSamplePos(96000) // 1 second of interleaved stereo samples

	got := c.TimeSeconds()
	if got != 1.0 {
		t.Errorf("TimeSeconds() = %v, want 1.0", got)
	}
}

func TestIncrementSamplesNoOpUnlessPlaying(t *testing.T) {
	c := New()
	c.SetState(Stopped)
	c.IncrementSamples(100)
	if c.SamplePos() != 0 {
		t.Errorf("SamplePos() = %d, want 0 while Stopped", c.SamplePos())
	}

	c.SetState(Playing)
	c.IncrementSamples(100)
	if c.SamplePos() != 100 {
		t.Errorf("SamplePos() = %d, want 100 while Playing", c.SamplePos())
	}
}

func TestClearBufferSignalRoundTrip(t *testing.T) {
	c := New()
	if c.ShouldClearBuffer() {
		t.Fatal("ShouldClearBuffer() true before any signal")
	}

	c.SignalClearBuffer()
	if !c.ShouldClearBuffer() {
		t.Fatal("ShouldClearBuffer() false after SignalClearBuffer()")
	}

	c.ResetClearBuffer()
	if c.ShouldClearBuffer() {
		t.Fatal("ShouldClearBuffer() true after ResetClearBuffer()")
	}
}

func TestEOSRoundTrip(t *testing.T) {
	c := New()
	if c.IsEOS() {
		t.Fatal("IsEOS() true on a fresh clock")
	}
	c.SetEOS(true)
	if !c.IsEOS() {
		t.Fatal("IsEOS() false after SetEOS(true)")
	}
}

package engine

import (
	"testing"

	"github.com/drgolem/audioengine/pkg/clock"
)

// Load/Play/Stop exercise the decoder and worker lifecycle against real
// files, which this package-level test avoids (no fixture audio files
// are shipped); these tests cover the parts of the host-facing API that
// don't require an opened decoder or a live output device.

func TestNewEngineStartsStoppedAtDefaultFormat(t *testing.T) {
	e := New(DefaultConfig())
	if e.GetTimeSecs() != 0 {
		t.Errorf("GetTimeSecs() = %v, want 0 on a fresh engine", e.GetTimeSecs())
	}
	if e.IsEOS() {
		t.Error("IsEOS() should be false on a fresh engine")
	}
}

func TestLoadUnsupportedFormatFailsSynchronouslyWithoutSpawningWorker(t *testing.T) {
	e := New(DefaultConfig())
	if err := e.Load("nonexistent.xyz"); err == nil {
		t.Fatal("Load of an unsupported extension should fail")
	}
	if e.worker != nil {
		t.Error("a failed Load must not leave a worker behind")
	}
}

func TestSeekUpdatesSamplePosAndSignalsClearBuffer(t *testing.T) {
	e := New(DefaultConfig())
	e.clock.SetSampleRate(44100)
	e.clock.SetChannels(2)

	e.Seek(1.0)

	want := uint64(44100 * 2)
	if got := e.clock.SamplePos(); got != want {
		t.Errorf("SamplePos() = %d, want %d", got, want)
	}
	if !e.clock.ShouldClearBuffer() {
		t.Error("Seek should signal clear_buffer")
	}
}

func TestStopResetsSamplePosToZero(t *testing.T) {
	e := New(DefaultConfig())
	e.clock.SetSamplePos(12345)
	e.Stop()
	if got := e.clock.SamplePos(); got != 0 {
		t.Errorf("SamplePos() after Stop() = %d, want 0", got)
	}
	if e.clock.State() != clock.Stopped {
		t.Errorf("State() after Stop() = %v, want Stopped", e.clock.State())
	}
}

func TestSetBassIntensityClampsToValidRange(t *testing.T) {
	e := New(DefaultConfig())
	e.SetBassIntensity(150)
	if e.bassConfig.Intensity != 100 {
		t.Errorf("Intensity = %v, want clamped to 100", e.bassConfig.Intensity)
	}
	e.SetBassIntensity(-10)
	if e.bassConfig.Intensity != 0 {
		t.Errorf("Intensity = %v, want clamped to 0", e.bassConfig.Intensity)
	}
}

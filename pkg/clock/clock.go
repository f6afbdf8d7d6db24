// Package clock implements the process-shared, atomically-accessed
// control block read by the producer worker and the real-time output
// callback, and written by the host and the output backend.
//
// Ordering is chosen per field: writes that
// must be observed before the callback reacts (SetState, SetSamplePos,
// SignalClearBuffer, SetSampleRate/SetChannels) use sequentially
// consistent stores; the callback uses a relaxed load where stale-by-one-
// callback is acceptable (State), an acquire-release add in
// IncrementSamples, and an acquire load for ShouldClearBuffer.
package clock

import (
	"code.hybscloud.com/atomix"
)

// State is the playback state machine value of the Clock.
type State int32

const (
	Stopped State = iota
	Playing
	Paused
)

// Clock is a fixed-size control block whose fields are all lock-free
// atomic scalars; see pkg/types.Command for the command-channel messages
// that accompany Clock mutations from the host.
type Clock struct {
	state      atomix.Int32
	sampleRate atomix.Int32
	channels   atomix.Int32
	samplePos  atomix.Uint64
	clearBuf   atomix.Bool
	eos        atomix.Bool
}

// New returns a Clock initialised to Stopped at 44100 Hz stereo, the
// default until the output backend reports the device's real values.
func New() *Clock {
	c := &Clock{}
	c.state.Store(int32(Stopped))
	c.sampleRate.Store(44100)
	c.channels.Store(2)
	return c
}

// State returns the current playback state. Read by the output callback
// with a relaxed load: observing a state that is one callback period stale
// is acceptable.
func (c *Clock) State() State {
	return State(c.state.LoadRelaxed())
}

// SetState sets the playback state with a sequentially consistent store,
// so the callback is guaranteed to observe it no later than its next
// invocation.
func (c *Clock) SetState(s State) {
	c.state.Store(int32(s))
}

// SampleRate and Channels report the current output device configuration.
func (c *Clock) SampleRate() int { return int(c.sampleRate.Load()) }
func (c *Clock) Channels() int   { return int(c.channels.Load()) }

// SetSampleRate and SetChannels are written only by the output backend at
// stream creation time, using sequentially consistent stores so the
// producer worker observes the new configuration promptly.
func (c *Clock) SetSampleRate(rate int) { c.sampleRate.Store(int32(rate)) }
func (c *Clock) SetChannels(ch int)     { c.channels.Store(int32(ch)) }

// SamplePos returns the interleaved-sample count since load.
func (c *Clock) SamplePos() uint64 {
	return c.samplePos.Load()
}

// SetSamplePos sets the sample position directly: used by the host on
// seek and by the worker on load (reset to 0).
func (c *Clock) SetSamplePos(pos uint64) {
	c.samplePos.Store(pos)
}

// IncrementSamples advances sample_pos by n, called from the output
// callback; it is a no-op unless state == Playing, and uses an
// acquire-release add.
func (c *Clock) IncrementSamples(n uint64) {
	if c.State() != Playing {
		return
	}
	c.samplePos.AddAcqRel(int64(n))
}

// SignalClearBuffer requests that the downstream ring be drained before
// the next sample is emitted; used to serialise seek with audible output.
// Uses a sequentially consistent store so the callback observes it
// promptly.
func (c *Clock) SignalClearBuffer() {
	c.clearBuf.Store(true)
}

// ShouldClearBuffer reports (with an acquire load) whether a clear is
// pending; the caller (the output callback) must act on a true result and
// then call ResetClearBuffer.
func (c *Clock) ShouldClearBuffer() bool {
	return c.clearBuf.LoadAcquire()
}

// ResetClearBuffer clears the pending-clear flag after the callback has
// drained the consumer endpoint.
func (c *Clock) ResetClearBuffer() {
	c.clearBuf.StoreRelease(false)
}

// IsEOS reports whether the stream has been marked end-of-stream by the
// producer worker immediately before it exited.
func (c *Clock) IsEOS() bool {
	return c.eos.Load()
}

// SetEOS marks (or clears, on load of a new source) end-of-stream.
func (c *Clock) SetEOS(v bool) {
	c.eos.Store(v)
}

// TimeSeconds derives sample_pos / (sample_rate * channels), defined as 0
// when either is zero.
func (c *Clock) TimeSeconds() float64 {
	rate := c.SampleRate()
	ch := c.Channels()
	if rate == 0 || ch == 0 {
		return 0
	}
	return float64(c.SamplePos()) / (float64(rate) * float64(ch))
}

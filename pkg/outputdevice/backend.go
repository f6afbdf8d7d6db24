// Package outputdevice implements the real-time output callback on top
// of github.com/drgolem/go-portaudio/portaudio's callback-mode stream:
// PortAudio invokes the callback on its own C-managed real-time thread,
// not a Go goroutine, so the callback must never allocate, block, or
// take a lock that a non-real-time goroutine could hold for long.
package outputdevice

import (
	"fmt"
	"log/slog"

	"github.com/drgolem/go-portaudio/portaudio"

	"github.com/drgolem/audioengine/pkg/clock"
	"github.com/drgolem/audioengine/pkg/pcm"
	"github.com/drgolem/audioengine/pkg/ringbuffer"
)

// SampleFormat selects the wire format written to the device.
type SampleFormat int

const (
	FormatFloat32 SampleFormat = iota
	FormatInt16
	FormatInt24
	FormatUint8
)

func (f SampleFormat) bytesPerSample() int {
	switch f {
	case FormatFloat32:
		return 4
	case FormatInt16:
		return 2
	case FormatInt24:
		return 3
	case FormatUint8:
		return 1
	default:
		return 2
	}
}

func (f SampleFormat) paSampleFormat() portaudio.PaSampleFormat {
	switch f {
	case FormatInt24:
		return portaudio.SampleFmtInt24
	case FormatUint8:
		return portaudio.SampleFmtInt16 // widened; go-portaudio has no native 8-bit output format
	default:
		return portaudio.SampleFmtInt16
	}
}

// Config describes one open output stream.
type Config struct {
	DeviceIndex     int
	Channels        int
	SampleRate      int
	FramesPerBuffer int
	Format          SampleFormat
}

// Backend is one live PortAudio output stream bound to a ring buffer
// consumer and a shared clock, implementing the hot-swap supervisor's
// consumer-endpoint slot (§4.8, §9).
type Backend struct {
	config   Config
	stream   *portaudio.PaStream
	consumer *ringbuffer.Consumer
	clock    *clock.Clock
	logger   *slog.Logger

	scratch []float32
}

// Open creates, opens in callback mode, and starts a PortAudio output
// stream for config, reading from consumer and advancing clock as frames
// are delivered.
func Open(config Config, consumer *ringbuffer.Consumer, c *clock.Clock) (*Backend, error) {
	b := &Backend{
		config:   config,
		consumer: consumer,
		clock:    c,
		logger:   slog.Default(),
		scratch:  make([]float32, config.FramesPerBuffer*config.Channels),
	}

	stream := &portaudio.PaStream{
		OutputParameters: &portaudio.PaStreamParameters{
			DeviceIndex:  config.DeviceIndex,
			ChannelCount: config.Channels,
			SampleFormat: config.Format.paSampleFormat(),
		},
		SampleRate: float64(config.SampleRate),
	}

	if err := stream.OpenCallback(config.FramesPerBuffer, b.audioCallback); err != nil {
		return nil, fmt.Errorf("outputdevice: open stream on device %d: %w", config.DeviceIndex, err)
	}
	if err := stream.StartStream(); err != nil {
		stream.CloseCallback()
		return nil, fmt.Errorf("outputdevice: start stream on device %d: %w", config.DeviceIndex, err)
	}

	b.stream = stream
	return b, nil
}

// Consumer returns the ring consumer endpoint this backend was opened
// with, so the output manager can reclaim it after Close.
func (b *Backend) Consumer() *ringbuffer.Consumer {
	return b.consumer
}

// Close stops and closes the underlying stream. Safe to call once.
func (b *Backend) Close() error {
	if b.stream == nil {
		return nil
	}
	if err := b.stream.StopStream(); err != nil {
		b.logger.Warn("stop stream", "error", err)
	}
	err := b.stream.CloseCallback()
	b.stream = nil
	return err
}

// audioCallback fills output with samples popped from the ring, per the
// ordered steps of §4.7: clear-buffer check, state check, pop-and-convert,
// silence-fill tail, position advance, EOS transition. No locks are taken
// here; the Clock's atomic fields and the ring's atomic cursors are the
// entire synchronization surface, by design of both components.
func (b *Backend) audioCallback(
	input, output []byte,
	frameCount uint,
	timeInfo *portaudio.StreamCallbackTimeInfo,
	statusFlags portaudio.StreamCallbackFlags,
) portaudio.StreamCallbackResult {

	if b.clock.ShouldClearBuffer() {
		b.consumer.Clear()
		b.clock.ResetClearBuffer()
	}

	bytesPerSample := b.config.Format.bytesPerSample()
	framesNeeded := int(frameCount)
	samplesNeeded := framesNeeded * b.config.Channels

	if b.clock.State() != clock.Playing {
		clearSilence(output, samplesNeeded*bytesPerSample)
		return portaudio.Continue
	}

	// scratch is pre-sized in Open to FramesPerBuffer*Channels; if
	// PortAudio ever calls back with more frames than configured, serve
	// only as many samples as scratch holds and silence-fill the rest of
	// output below, rather than growing scratch here — this callback
	// must never allocate.
	servable := samplesNeeded
	if servable > cap(b.scratch) {
		servable = cap(b.scratch)
	}
	popped := b.consumer.PopSlice(b.scratch[:servable])

	writeSamples(output, b.scratch[:popped], b.config.Format)

	tailBytes := (samplesNeeded - popped) * bytesPerSample
	if tailBytes > 0 {
		clearSilence(output[popped*bytesPerSample:], tailBytes)
	}

	b.clock.IncrementSamples(uint64(popped))

	if b.clock.IsEOS() && b.consumer.OccupiedLen() == 0 {
		b.clock.SetState(clock.Stopped)
		return portaudio.Complete
	}
	return portaudio.Continue
}

func clearSilence(buf []byte, n int) {
	if n > len(buf) {
		n = len(buf)
	}
	clear(buf[:n])
}

// writeSamples performs the branch-free-per-sample conversion of §4.7:
// the format switch happens once per callback invocation, not once per
// sample.
func writeSamples(output []byte, samples []float32, format SampleFormat) {
	switch format {
	case FormatFloat32:
		pcm.Float32ToFloat32LE(samples, output)
	case FormatInt24:
		pcm.Float32ToInt24(samples, output)
	case FormatUint8:
		pcm.Float32ToUint8(samples, output)
	default:
		pcm.Float32ToInt16(samples, output)
	}
}

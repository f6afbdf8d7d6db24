// Package engine is the host-facing API, composing pkg/clock,
// pkg/ringbuffer, pkg/commandqueue, pkg/worker, and pkg/outputmanager
// instead of one monolithic player struct.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/drgolem/audioengine/pkg/clock"
	"github.com/drgolem/audioengine/pkg/commandqueue"
	"github.com/drgolem/audioengine/pkg/decoders"
	"github.com/drgolem/audioengine/pkg/dsp"
	"github.com/drgolem/audioengine/pkg/outputdevice"
	"github.com/drgolem/audioengine/pkg/outputmanager"
	"github.com/drgolem/audioengine/pkg/ringbuffer"
	"github.com/drgolem/audioengine/pkg/types"
	"github.com/drgolem/audioengine/pkg/worker"
)

// RingCapacity is the reference ring size of invariant 6: at least one
// second of interleaved audio at the expected peak rate/channels.
const RingCapacity = 2 * 44100

// Config configures the engine's initial device target and worker
// timing; device-format fields (rate/channels) are filled in by the
// backend at connect time, not chosen here.
type Config struct {
	DeviceIndex     int
	FramesPerBuffer int
	Format          outputdevice.SampleFormat
	Worker          worker.Config
}

// DefaultConfig returns sane defaults (512 frames/buffer, device index 1).
func DefaultConfig() Config {
	return Config{
		DeviceIndex:     1,
		FramesPerBuffer: 512,
		Format:          outputdevice.FormatInt16,
		Worker:          worker.DefaultConfig(),
	}
}

// Engine is the host-facing playback engine.
type Engine struct {
	config Config
	logger *slog.Logger

	clock  *clock.Clock
	cmdQ   *commandqueue.Queue
	output *outputmanager.Manager

	producerEndpoint *ringbuffer.Producer
	bassConfig       dsp.BassConfig

	worker *worker.Worker
}

// New constructs an Engine: default Clock at 44100 Hz stereo Stopped, a
// ring of RingCapacity, and an OutputManager which will set the Clock's
// real device values once connected.
func New(config Config) *Engine {
	c := clock.New()
	producer, consumer := ringbuffer.New(RingCapacity)

	deviceConfig := outputdevice.Config{
		DeviceIndex:     config.DeviceIndex,
		Channels:        2,
		SampleRate:      44100,
		FramesPerBuffer: config.FramesPerBuffer,
		Format:          config.Format,
	}

	return &Engine{
		config:           config,
		logger:           slog.Default(),
		clock:            c,
		cmdQ:             commandqueue.New(commandqueue.DefaultCapacity),
		output:           outputmanager.New(consumer, c, deviceConfig),
		producerEndpoint: producer,
		bassConfig:       dsp.DefaultBassConfig(),
	}
}

// Load stops any current playback, opens a decoder on path, resets
// Clock.sample_pos, and spawns a new producer worker.
func (e *Engine) Load(path string) error {
	e.Stop()

	decoder, err := decoders.NewDecoder(path)
	if err != nil {
		return fmt.Errorf("engine: load %s: %w", path, err)
	}

	e.clock.SetSamplePos(0)
	e.clock.SetEOS(false)

	e.worker = worker.New(e.config.Worker, e.clock, e.cmdQ, decoder, e.producerEndpoint, e.bassConfig)
	e.worker.Play()

	e.logger.Info("loaded", "file", path)
	return nil
}

// Play transitions the Clock to Playing and asks the output manager to
// start the backend.
func (e *Engine) Play() {
	e.clock.SetState(clock.Playing)
	e.output.Start()
}

// Pause transitions the Clock to Paused.
func (e *Engine) Pause() {
	e.clock.SetState(clock.Paused)
	e.output.Pause()
}

// Stop transitions the Clock to Stopped, tears down the worker, and
// resets sample_pos to 0.
func (e *Engine) Stop() {
	e.clock.SetState(clock.Stopped)
	e.output.Stop()
	if e.worker != nil {
		e.worker.Stop()
		e.worker = nil
		// Discard commands the joined worker never consumed (at least the
		// Stop that worker.Stop sent), so the next worker does not see them.
		e.cmdQ.DrainAll(func(types.Command) {})
	}
	e.clock.SetSamplePos(0)
}

// Seek sets sample_pos from timeSecs, signals the callback to clear the
// ring, and forwards a Seek command to the worker — the two independent
// clear mechanisms of invariant 4/testable property 6.
func (e *Engine) Seek(timeSecs float64) {
	rate, channels := e.clock.SampleRate(), e.clock.Channels()
	pos := uint64(timeSecs * float64(rate) * float64(channels))
	e.clock.SetSamplePos(pos)
	e.clock.SignalClearBuffer()
	e.cmdQ.Send(types.Command{Kind: types.CommandSeek, SeekSecs: timeSecs})
}

// SetBassBoost enables or disables the adaptive bass processor.
func (e *Engine) SetBassBoost(enabled bool) {
	e.bassConfig.Enabled = enabled
	e.cmdQ.Send(types.Command{Kind: types.CommandSetBassBoost, BassBoost: enabled})
}

// SetBassIntensity sets the bass processor's intensity, clamped to
// [0, 100].
func (e *Engine) SetBassIntensity(intensity float64) {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 100 {
		intensity = 100
	}
	e.bassConfig.Intensity = intensity
	e.cmdQ.Send(types.Command{Kind: types.CommandSetBassIntensity, BassIntens: intensity})
}

// GetTimeSecs returns Clock.time_seconds.
func (e *Engine) GetTimeSecs() float64 {
	return e.clock.TimeSeconds()
}

// Tick must be called periodically by the host loop; it drives the
// output manager's hot-swap supervisor.
func (e *Engine) Tick() {
	e.output.Tick()
}

// IsEOS reports whether the current stream has finished: the worker has
// exhausted the decoder and the output callback has drained the ring and
// moved the Clock to Stopped.
func (e *Engine) IsEOS() bool {
	return e.clock.IsEOS() && e.clock.State() == clock.Stopped
}

// Package worker implements the producer worker: a dedicated background
// goroutine that pulls from the decoder, resamples, runs the DSP chain,
// and pushes into the ring, reacting to commands from the host and to
// clock-driven output reconfiguration. It uses a stopChan+sync.WaitGroup
// lifecycle with sleep-based backpressure retry on a full ring.
package worker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/drgolem/audioengine/pkg/clock"
	"github.com/drgolem/audioengine/pkg/commandqueue"
	"github.com/drgolem/audioengine/pkg/dsp"
	"github.com/drgolem/audioengine/pkg/resampler"
	"github.com/drgolem/audioengine/pkg/ringbuffer"
	"github.com/drgolem/audioengine/pkg/types"
)

// RefillThreshold is the vacant_len floor below which the worker pauses
// to let the consumer drain, per §4.6 step 3's reference value.
const RefillThreshold uint64 = 1024

// Config tunes the worker's timing, per §9's open question about sleep
// granularity: exposed rather than hard-coded so deployments with larger
// buffers can widen it.
type Config struct {
	// BackpressureSleep is how long the worker sleeps when the ring is
	// nearly full or awaiting new input; a 2-10ms range keeps refill
	// latency low without busy-spinning.
	BackpressureSleep time.Duration
}

// DefaultConfig returns the mid-range of that sleep granularity.
func DefaultConfig() Config {
	return Config{BackpressureSleep: 8 * time.Millisecond}
}

// Worker is the producer worker. It owns the decoder, an optional
// resampler, the DSP chain, and the ring's producer endpoint for its
// lifetime.
type Worker struct {
	config  Config
	clock   *clock.Clock
	cmdQ    *commandqueue.Queue
	logger  *slog.Logger

	decoder    types.Decoder
	producer   *ringbuffer.Producer
	resampler  *resampler.Resampler
	chain      *dsp.Chain
	bassConfig dsp.BassConfig

	lastOutputRate     int
	lastOutputChannels int

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New constructs a Worker. Callers must call Play to start it and Stop to
// join it.
func New(config Config, c *clock.Clock, cmdQ *commandqueue.Queue, decoder types.Decoder, producer *ringbuffer.Producer, bassConfig dsp.BassConfig) *Worker {
	return &Worker{
		config:     config,
		clock:      c,
		cmdQ:       cmdQ,
		logger:     slog.Default(),
		decoder:    decoder,
		producer:   producer,
		bassConfig: bassConfig,
		stopChan:   make(chan struct{}),
	}
}

// Play spawns the worker's main loop goroutine.
func (w *Worker) Play() {
	w.wg.Add(1)
	go w.run()
}

// Stop requests the worker to stop via the command channel (in addition
// to closing stopChan, in case the worker is sleeping in a backpressure
// retry and needs the cheap select-driven wake-up) and joins it. No
// timeout is applied: the worker's inner loops always either make
// progress or sleep briefly.
func (w *Worker) Stop() {
	w.cmdQ.Send(types.Command{Kind: types.CommandStop})
	select {
	case <-w.stopChan:
	default:
		close(w.stopChan)
	}
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()
	w.logger.Info("producer worker started")

	for {
		select {
		case <-w.stopChan:
			w.finish()
			return
		default:
		}

		if w.drainCommands() {
			w.finish()
			return
		}

		w.reconfigureIfNeeded()

		if w.producer.VacantLen() < RefillThreshold {
			time.Sleep(w.config.BackpressureSleep)
			continue
		}

		block, err := w.decoder.DecodeNext()
		if err != nil {
			// Permanent decode error / EOF: flush resampler, push the
			// tail, mark EOS, and exit.
			w.flushAndExit()
			return
		}
		if block == nil {
			// Transient decode error, swallowed internally: try again.
			continue
		}

		samples := block
		if w.resampler != nil {
			samples = w.resampler.Process(block)
			if len(samples) == 0 {
				continue
			}
		}
		w.chain.Process(samples)
		w.pushWithRetry(samples)
	}
}

// drainCommands processes every pending command non-blockingly, per step
// 1 of §4.6. Returns true if a Stop command was observed.
func (w *Worker) drainCommands() (stopped bool) {
	w.cmdQ.DrainAll(func(cmd types.Command) {
		switch cmd.Kind {
		case types.CommandSeek:
			if err := w.decoder.Seek(cmd.SeekSecs); err != nil {
				w.logger.Warn("seek failed", "error", err)
			}
			w.producer.Clear()
		case types.CommandStop:
			stopped = true
		case types.CommandSetBassBoost:
			w.bassConfig.Enabled = cmd.BassBoost
			if w.chain != nil {
				w.chain.SetBassBoost(cmd.BassBoost)
			}
		case types.CommandSetBassIntensity:
			intensity := cmd.BassIntens
			if intensity < 0 {
				intensity = 0
			}
			if intensity > 100 {
				intensity = 100
			}
			w.bassConfig.Intensity = intensity
			if w.chain != nil {
				w.chain.SetBassIntensity(intensity)
			}
		}
	})
	return stopped
}

// reconfigureIfNeeded rebuilds the resampler and DSP chain when the
// output rate/channels reported by the Clock has changed since the last
// iteration, per step 2 of §4.6.
func (w *Worker) reconfigureIfNeeded() {
	rate := w.clock.SampleRate()
	channels := w.clock.Channels()

	if rate == w.lastOutputRate && channels == w.lastOutputChannels && w.chain != nil {
		return
	}

	w.logger.Info("rebuilding resampler/DSP chain for new output format",
		"rate", rate, "channels", channels)

	if w.resampler != nil {
		w.resampler.Close()
		w.resampler = nil
	}

	decRate, decChannels := w.decoder.SampleRate(), w.decoder.Channels()
	if decRate != rate || decChannels != channels {
		r, err := resampler.New(decRate, rate, decChannels, channels)
		if err != nil {
			w.logger.Error("resampler construction failed; continuing without processed output for this block", "error", err)
		} else {
			w.resampler = r
		}
	}

	w.chain = dsp.NewChain(float64(rate), channels, w.bassConfig)
	w.lastOutputRate = rate
	w.lastOutputChannels = channels

	w.producer.Clear()
}

// pushWithRetry repeatedly pushes the unpushed tail of samples,
// re-draining commands and sleeping briefly between attempts, per step 4
// of §4.6.
func (w *Worker) pushWithRetry(samples []float32) {
	for len(samples) > 0 {
		n := w.producer.PushSlice(samples)
		samples = samples[n:]
		if len(samples) == 0 {
			return
		}

		select {
		case <-w.stopChan:
			return
		default:
		}
		if w.drainCommands() {
			return
		}
		time.Sleep(w.config.BackpressureSleep)
	}
}

// flushAndExit flushes any resampler tail, pushes it, marks end-of-stream
// on the Clock immediately before exiting (per §9's explicit resolution
// of the historical EOS ambiguity), and returns.
func (w *Worker) flushAndExit() {
	if w.resampler != nil {
		tail := w.resampler.Flush()
		if len(tail) > 0 {
			w.chain.Process(tail)
			w.pushWithRetry(tail)
		}
	}
	w.clock.SetEOS(true)
	w.logger.Info("producer worker finished: decoder exhausted")
}

func (w *Worker) finish() {
	w.logger.Info("producer worker stopped")
}

// Package types holds the shared contracts that cross package boundaries:
// the Decoder interface wrapped by every codec backend, the command
// vocabulary sent from the host to the producer worker, and sentinel
// errors shared by the ring buffer and queue implementations.
package types

import (
	"errors"
	"time"
)

// Decoder produces interleaved float32 samples in [-1.0, 1.0] from an
// opened audio source. Implementations wrap a codec-specific library
// (MP3, FLAC, WAV); block size is not mandated and callers must not assume
// a constant sample count per call.
type Decoder interface {
	// Open opens fileName for decoding.
	Open(fileName string) error

	// Close releases the decoder's resources.
	Close() error

	// SampleRate and Channels report the stream's native values, stable
	// for the lifetime of the opened source.
	SampleRate() int
	Channels() int

	// Duration returns the stream's total length, if known.
	Duration() (time.Duration, bool)

	// DecodeNext returns the next block of interleaved samples. A nil
	// slice with a nil error means "try again" (a transient decode error
	// was swallowed internally). A nil slice with io.EOF means the
	// stream is exhausted.
	DecodeNext() ([]float32, error)

	// Seek attempts a best-effort seek to timeSecs; errors are absorbed
	// internally rather than surfaced, per the decoder's best-effort
	// seek contract.
	Seek(timeSecs float64) error
}

// CommandKind enumerates the messages the host sends the producer worker
// over the command queue.
type CommandKind int

const (
	CommandSeek CommandKind = iota
	CommandStop
	CommandSetBassBoost
	CommandSetBassIntensity
)

// Command is the payload type carried by pkg/commandqueue. Only the field
// relevant to Kind is meaningful.
type Command struct {
	Kind       CommandKind
	SeekSecs   float64
	BassBoost  bool
	BassIntens float64
}

// Sentinel errors shared by the ring buffer and command queue: both are
// lock-free structures that signal backpressure by returning an error
// rather than blocking.
var (
	// ErrWouldBlock indicates an operation on a lock-free structure could
	// not complete without blocking (queue full/empty, ring full/empty).
	ErrWouldBlock = errors.New("audioengine: would block")

	// ErrNotFound indicates a load() source path was missing or unreadable.
	ErrNotFound = errors.New("audioengine: source not found")

	// ErrUnsupportedFormat indicates no decoder could be matched to the
	// requested source.
	ErrUnsupportedFormat = errors.New("audioengine: unsupported audio format")

	// ErrResamplerConstruction indicates the resampler could not be built
	// for the requested rate/channel combination.
	ErrResamplerConstruction = errors.New("audioengine: resampler construction failed")

	// ErrInsufficientData indicates a Consume() call asked to advance the
	// ring's read position past what is actually available.
	ErrInsufficientData = errors.New("audioengine: insufficient data in ring")
)

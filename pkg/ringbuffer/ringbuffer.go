// Package ringbuffer implements the SPSC audio buffer: a lock-free ring of
// interleaved float32 samples with exactly one producer endpoint and one
// consumer endpoint. It generalizes the byte-oriented ring buffer pattern
// to audio samples and splits ownership into two endpoint types so each
// side can be handed off (never aliased) rather than shared.
package ringbuffer

import (
	"sync/atomic"

	"github.com/drgolem/audioengine/pkg/types"
)

// Re-exported for callers that want to compare against the shared
// lock-free sentinel without importing pkg/types directly.
var ErrWouldBlock = types.ErrWouldBlock

// ring is the shared state behind a Producer/Consumer endpoint pair.
// Write() must only ever be called through Producer, Read() only through
// Consumer: that discipline, not a lock, is what makes this safe.
type ring struct {
	buffer   []float32
	size     uint64 // power of 2
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// Producer is the single-writer endpoint of a ring buffer.
type Producer struct {
	r *ring
}

// Consumer is the single-reader endpoint of a ring buffer.
type Consumer struct {
	r *ring
}

// New creates a ring buffer of the requested capacity (in interleaved
// samples, rounded up to the next power of two) and returns its two
// endpoints. Each endpoint has exactly one owner at a time; ownership
// transfers by handing the *Producer or *Consumer value to the new owner
// and not retaining a second reference to it.
func New(capacity uint64) (*Producer, *Consumer) {
	size := nextPowerOf2(capacity)
	r := &ring{
		buffer: make([]float32, size),
		size:   size,
		mask:   size - 1,
	}
	return &Producer{r: r}, &Consumer{r: r}
}

// VacantLen returns a lower bound on the number of samples that can be
// pushed without blocking; it may underestimate the true value but never
// overestimates it.
func (p *Producer) VacantLen() uint64 {
	return p.r.size - (p.r.writePos.Load() - p.r.readPos.Load())
}

// PushSlice stores as many of src as fit and returns how many were stored
// (0..len(src)); it never partially writes past capacity.
func (p *Producer) PushSlice(src []float32) int {
	r := p.r
	n := uint64(len(src))
	if n == 0 {
		return 0
	}

	vacant := r.size - (r.writePos.Load() - r.readPos.Load())
	if n > vacant {
		n = vacant
	}
	if n == 0 {
		return 0
	}

	writePos := r.writePos.Load()
	start := writePos & r.mask
	end := (writePos + n) & r.mask

	if end > start || n == 0 {
		copy(r.buffer[start:start+n], src[:n])
	} else {
		firstChunk := r.size - start
		copy(r.buffer[start:], src[:firstChunk])
		copy(r.buffer[:end], src[firstChunk:n])
	}

	r.writePos.Store(writePos + n)
	return int(n)
}

// TryPush stores a single sample, returning ErrWouldBlock if the ring is
// full.
func (p *Producer) TryPush(sample float32) error {
	if n := p.PushSlice([]float32{sample}); n == 0 {
		return ErrWouldBlock
	}
	return nil
}

// Clear resets the ring to empty. Only the side that currently owns both
// halves conceptually (e.g. during a seek-triggered clear, called from the
// producer side) should call this; the output callback calls the
// Consumer's Clear below for the same purpose from its side.
func (p *Producer) Clear() {
	p.r.readPos.Store(p.r.writePos.Load())
}

// OccupiedLen returns a lower bound on the number of samples available to
// pop.
func (c *Consumer) OccupiedLen() uint64 {
	return c.r.writePos.Load() - c.r.readPos.Load()
}

// PopSlice retrieves up to len(dst) samples into dst and returns the count
// actually retrieved (0..len(dst)).
func (c *Consumer) PopSlice(dst []float32) int {
	r := c.r
	n := uint64(len(dst))
	if n == 0 {
		return 0
	}

	occupied := r.writePos.Load() - r.readPos.Load()
	if n > occupied {
		n = occupied
	}
	if n == 0 {
		return 0
	}

	readPos := r.readPos.Load()
	start := readPos & r.mask
	end := (readPos + n) & r.mask

	if end > start || n == 0 {
		copy(dst[:n], r.buffer[start:start+n])
	} else {
		firstChunk := r.size - start
		copy(dst[:firstChunk], r.buffer[start:])
		copy(dst[firstChunk:n], r.buffer[:end])
	}

	r.readPos.Store(readPos + n)
	return int(n)
}

// TryPop retrieves a single sample, returning ErrWouldBlock if the ring is
// empty.
func (c *Consumer) TryPop() (float32, error) {
	var v [1]float32
	if n := c.PopSlice(v[:]); n == 0 {
		return 0, ErrWouldBlock
	}
	return v[0], nil
}

// ReadSlices returns zero-copy views of the currently available data,
// split into at most two slices when it wraps around the backing array.
// Call Consume(total) (or less) afterwards to advance the read position.
func (c *Consumer) ReadSlices() (first, second []float32, total uint64) {
	r := c.r
	occupied := r.writePos.Load() - r.readPos.Load()
	if occupied == 0 {
		return nil, nil, 0
	}

	readPos := r.readPos.Load()
	start := readPos & r.mask
	end := (readPos + occupied) & r.mask

	if end > start {
		return r.buffer[start:end], nil, occupied
	}
	return r.buffer[start:], r.buffer[:end], occupied
}

// PeekContiguous returns a zero-copy view of just the contiguous portion
// of available data (may be less than the total available if it wraps).
func (c *Consumer) PeekContiguous() []float32 {
	r := c.r
	occupied := r.writePos.Load() - r.readPos.Load()
	if occupied == 0 {
		return nil
	}

	readPos := r.readPos.Load()
	start := readPos & r.mask
	end := (readPos + occupied) & r.mask

	if end > start {
		return r.buffer[start:end]
	}
	return r.buffer[start:]
}

// Consume advances the read position by n samples without copying,
// following a ReadSlices/PeekContiguous call.
func (c *Consumer) Consume(n uint64) error {
	if n == 0 {
		return nil
	}
	r := c.r
	occupied := r.writePos.Load() - r.readPos.Load()
	if n > occupied {
		return types.ErrInsufficientData
	}
	r.readPos.Store(r.readPos.Load() + n)
	return nil
}

// Clear discards all buffered samples, observed by the output callback
// when Clock.should_clear_buffer() is true.
func (c *Consumer) Clear() {
	c.r.readPos.Store(c.r.writePos.Load())
}

// Size returns the ring's total capacity in samples.
func (c *Consumer) Size() uint64 { return c.r.size }

func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

// Package resampler implements a fixed-input-chunk sample-rate/channel
// converter on top of github.com/zaf/resample (a CGO binding to SoXR).
// cmd/transform.go drives that library directly for one-shot whole-file
// conversion; here it is fronted by a staging buffer so Process can be
// called with arbitrarily-sized input chunks from the producer worker
// while the underlying soxr instance is still fed exactly F-frame chunks
// at a time.
package resampler

import (
	"bytes"
	"fmt"

	soxr "github.com/zaf/resample"

	"github.com/drgolem/audioengine/pkg/pcm"
	"github.com/drgolem/audioengine/pkg/types"
)

// DefaultChunkFrames is F, the fixed input chunk size in frames.
const DefaultChunkFrames = 1024

// Resampler converts interleaved float32 samples from (fromRate,
// fromChannels) to (toRate, toChannels). Channel mixing (mono<->multi
// channel) happens first, in the source's sample-rate domain; the mixed
// stream is then handed to soxr, which only ever sees one channel count
// on both of its own ends.
type Resampler struct {
	fromRate, toRate         int
	fromChannels, toChannels int
	chunkFrames              int

	soxr *soxr.Soxr
	sink bytes.Buffer

	staging []float32 // post-mix, pre-resample: toChannels layout at fromRate
}

// New constructs a Resampler. If fromRate == toRate, the resampler is
// still constructed (soxr performs an identity conversion) so callers
// need not special-case the matched-rate path; the same holds for
// fromChannels == toChannels on the mixing stage.
func New(fromRate, toRate, fromChannels, toChannels int) (*Resampler, error) {
	if fromRate <= 0 || toRate <= 0 || fromChannels <= 0 || toChannels <= 0 {
		return nil, fmt.Errorf("%w: invalid rate/channels (%d->%d, %d ch->%d ch)",
			types.ErrResamplerConstruction, fromRate, toRate, fromChannels, toChannels)
	}

	r := &Resampler{
		fromRate:     fromRate,
		toRate:       toRate,
		fromChannels: fromChannels,
		toChannels:   toChannels,
		chunkFrames:  DefaultChunkFrames,
	}

	sx, err := soxr.New(&r.sink, float64(fromRate), float64(toRate), toChannels, soxr.I16, soxr.HighQ)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrResamplerConstruction, err)
	}
	r.soxr = sx
	return r, nil
}

// InputFramesNext reports F, the fixed chunk size consumed per process
// step (diagnostic, per §4.4).
func (r *Resampler) InputFramesNext() int {
	return r.chunkFrames
}

// Process mixes input from fromChannels to toChannels, appends the mixed
// samples to the internal staging buffer, then, while staging holds at
// least F*toChannels samples, consumes exactly that many per chunk,
// resamples through soxr, and returns the accumulated interleaved
// output.
func (r *Resampler) Process(input []float32) []float32 {
	r.staging = append(r.staging, mixChannels(input, r.fromChannels, r.toChannels)...)

	chunkSamples := r.chunkFrames * r.toChannels
	var out []float32

	for len(r.staging) >= chunkSamples {
		chunk := r.staging[:chunkSamples]
		out = append(out, r.pushChunk(chunk)...)
		r.staging = r.staging[chunkSamples:]
	}
	return out
}

// Flush pads any remaining staged samples to one full chunk with zeros
// and processes it, returning the final output; idempotent when staging
// is empty (it returns nil without pushing anything through soxr).
func (r *Resampler) Flush() []float32 {
	if len(r.staging) == 0 {
		return nil
	}

	chunkSamples := r.chunkFrames * r.toChannels
	padded := make([]float32, chunkSamples)
	copy(padded, r.staging)
	r.staging = r.staging[:0]

	return r.pushChunk(padded)
}

// mixChannels converts interleaved frames from fromCh channels to toCh
// channels: a no-op when the counts match, an average-down-to-mono
// downmix when toCh == 1, a duplicate-to-every-channel upmix when
// fromCh == 1, and otherwise a downmix-to-mono-then-duplicate remix.
// Grounded on the same channel-averaging convertToMono16Bit uses for its
// stereo-to-mono case, generalized to arbitrary channel counts.
func mixChannels(input []float32, fromCh, toCh int) []float32 {
	if fromCh == toCh {
		return input
	}

	frames := len(input) / fromCh
	out := make([]float32, frames*toCh)

	switch {
	case toCh == 1:
		for f := 0; f < frames; f++ {
			var sum float32
			for c := 0; c < fromCh; c++ {
				sum += input[f*fromCh+c]
			}
			out[f] = sum / float32(fromCh)
		}
	case fromCh == 1:
		for f := 0; f < frames; f++ {
			v := input[f]
			for c := 0; c < toCh; c++ {
				out[f*toCh+c] = v
			}
		}
	default:
		for f := 0; f < frames; f++ {
			var sum float32
			for c := 0; c < fromCh; c++ {
				sum += input[f*fromCh+c]
			}
			mono := sum / float32(fromCh)
			for c := 0; c < toCh; c++ {
				out[f*toCh+c] = mono
			}
		}
	}
	return out
}

// pushChunk converts one chunk to int16, writes it through soxr, and
// converts whatever soxr emits back to float32.
func (r *Resampler) pushChunk(chunk []float32) []float32 {
	in := make([]byte, len(chunk)*2)
	pcm.Float32ToInt16(chunk, in)

	r.sink.Reset()
	if _, err := r.soxr.Write(in); err != nil {
		return nil
	}

	produced := r.sink.Bytes()
	out := make([]float32, len(produced)/2)
	pcm.Int16ToFloat32(produced, out)
	return out
}

// Close releases the underlying soxr resampler.
func (r *Resampler) Close() error {
	return r.soxr.Close()
}

// Package flac wraps github.com/drgolem/go-flac as a types.Decoder,
// converting its 16-bit PCM output to interleaved float32 samples.
package flac

import (
	"fmt"
	"io"
	"time"

	goflac "github.com/drgolem/go-flac/flac"

	"github.com/drgolem/audioengine/pkg/pcm"
)

const decodeChunkFrames = 4096

// Decoder wraps goflac.FlacDecoder, implementing types.Decoder.
type Decoder struct {
	decoder  *goflac.FlacDecoder
	rate     int
	channels int
	bps      int

	scratch []byte
}

// NewDecoder creates a new, unopened FLAC decoder; Open requests 16-bit
// PCM output from the underlying frame decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens fileName for FLAC decoding.
func (d *Decoder) Open(fileName string) error {
	decoder, err := goflac.NewFlacFrameDecoder(16)
	if err != nil {
		return fmt.Errorf("flac: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("flac: open %s: %w", fileName, err)
	}

	rate, channels, bps := decoder.GetFormat()
	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.bps = bps
	d.scratch = make([]byte, decodeChunkFrames*channels*(bps/8))
	return nil
}

// Close releases the decoder.
func (d *Decoder) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
		d.decoder.Delete()
		d.decoder = nil
	}
	return nil
}

// SampleRate returns the stream's native sample rate.
func (d *Decoder) SampleRate() int { return d.rate }

// Channels returns the stream's native channel count.
func (d *Decoder) Channels() int { return d.channels }

// Duration is not exposed by the wrapped go-flac binding.
func (d *Decoder) Duration() (time.Duration, bool) {
	return 0, false
}

// DecodeNext decodes the next block and returns it as interleaved float32
// samples.
func (d *Decoder) DecodeNext() ([]float32, error) {
	if d.decoder == nil {
		return nil, fmt.Errorf("flac: decoder not initialized")
	}

	n, err := d.decoder.DecodeSamples(decodeChunkFrames, d.scratch)
	if n == 0 {
		if err != nil {
			return nil, io.EOF
		}
		return nil, nil
	}

	out := make([]float32, n*d.channels)
	pcm.BytesToFloat32(d.scratch[:n*d.channels*(d.bps/8)], d.bps, out)
	return out, nil
}

// Seek is absorbed as a best-effort no-op: go-flac's frame decoder
// exposes no seek primitive on the surface used here.
func (d *Decoder) Seek(timeSecs float64) error {
	return nil
}

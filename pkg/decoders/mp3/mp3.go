// Package mp3 wraps github.com/drgolem/go-mpg123 as a types.Decoder,
// converting its int16 PCM output to interleaved float32 samples.
package mp3

import (
	"fmt"
	"io"
	"time"

	"github.com/drgolem/go-mpg123/mpg123"

	"github.com/drgolem/audioengine/pkg/pcm"
)

const decodeChunkFrames = 4096

// Decoder wraps mpg123.Decoder, implementing types.Decoder.
type Decoder struct {
	decoder  *mpg123.Decoder
	rate     int
	channels int

	scratch []byte
}

// NewDecoder creates a new MP3 decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens fileName for MP3 decoding.
func (d *Decoder) Open(fileName string) error {
	decoder, err := mpg123.NewDecoder("")
	if err != nil {
		return fmt.Errorf("mp3: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("mp3: open %s: %w", fileName, err)
	}

	rate, channels, _ := decoder.GetFormat()
	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.scratch = make([]byte, decodeChunkFrames*channels*2)
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

// Duration is not exposed by the wrapped mpg123 binding.
func (d *Decoder) Duration() (time.Duration, bool) {
	return 0, false
}

// DecodeNext decodes the next block and returns it as interleaved float32
// samples. A transient decode error is absorbed and reported as (nil, nil)
// ("try again"); exhaustion is reported as (nil, io.EOF).
func (d *Decoder) DecodeNext() ([]float32, error) {
	if d.decoder == nil {
		return nil, fmt.Errorf("mp3: decoder not initialized")
	}

	n, err := d.decoder.DecodeSamples(decodeChunkFrames, d.scratch)
	if n == 0 {
		if err != nil {
			return nil, io.EOF
		}
		return nil, nil // try again
	}

	out := make([]float32, n*d.channels)
	pcm.BytesToFloat32(d.scratch[:n*d.channels*2], 16, out)
	return out, nil
}

// Seek is not supported by the wrapped mpg123 binding's surface used
// here; the decoder absorbs the request as a best-effort no-op.
func (d *Decoder) Seek(timeSecs float64) error {
	return nil
}

// Package wav wraps github.com/youpy/go-wav as a types.Decoder, converting
// its per-sample integer values to interleaved float32 samples.
package wav

import (
	"fmt"
	"io"
	"os"
	"time"

	goWav "github.com/youpy/go-wav"

	"github.com/drgolem/audioengine/pkg/pcm"
)

const decodeChunkFrames = 4096

// Decoder wraps goWav.Reader, implementing types.Decoder.
type Decoder struct {
	file     *os.File
	reader   *goWav.Reader
	rate     int
	channels int
	bps      int

	packed  []byte
	scratch []float32
}

// NewDecoder creates a new WAV decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens fileName for PCM WAV decoding.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("wav: open %s: %w", fileName, err)
	}

	reader := goWav.NewReader(file)
	format, err := reader.Format()
	if err != nil {
		file.Close()
		return fmt.Errorf("wav: read format: %w", err)
	}
	if format.AudioFormat != goWav.AudioFormatPCM {
		file.Close()
		return fmt.Errorf("wav: unsupported format %d (only PCM supported)", format.AudioFormat)
	}

	d.file = file
	d.reader = reader
	d.rate = int(format.SampleRate)
	d.channels = int(format.NumChannels)
	d.bps = int(format.BitsPerSample)
	d.packed = make([]byte, decodeChunkFrames*d.channels*(d.bps/8))
	d.scratch = make([]float32, decodeChunkFrames*d.channels)
	return nil
}

// Close releases the file handle.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// SampleRate returns the stream's native sample rate.
func (d *Decoder) SampleRate() int { return d.rate }

// Channels returns the stream's native channel count.
func (d *Decoder) Channels() int { return d.channels }

// Duration is not exposed by the wrapped go-wav reader.
func (d *Decoder) Duration() (time.Duration, bool) {
	return 0, false
}

// DecodeNext decodes up to decodeChunkFrames frames and returns them as
// interleaved float32 samples.
func (d *Decoder) DecodeNext() ([]float32, error) {
	if d.reader == nil {
		return nil, fmt.Errorf("wav: decoder not initialized")
	}

	bytesPerSample := d.bps / 8
	totalFrames := 0

	for totalFrames < decodeChunkFrames {
		samplesData, err := d.reader.ReadSamples(1)
		if err != nil {
			if totalFrames == 0 {
				return nil, io.EOF
			}
			break
		}
		if len(samplesData) == 0 {
			break
		}

		for ch := 0; ch < d.channels; ch++ {
			if ch >= len(samplesData[0].Values) {
				break
			}
			value := samplesData[0].Values[ch]
			offset := (totalFrames*d.channels + ch) * bytesPerSample

			switch d.bps {
			case 8:
				d.packed[offset] = byte(value)
			case 16:
				d.packed[offset] = byte(value & 0xFF)
				d.packed[offset+1] = byte((value >> 8) & 0xFF)
			case 24:
				d.packed[offset] = byte(value & 0xFF)
				d.packed[offset+1] = byte((value >> 8) & 0xFF)
				d.packed[offset+2] = byte((value >> 16) & 0xFF)
			case 32:
				d.packed[offset] = byte(value & 0xFF)
				d.packed[offset+1] = byte((value >> 8) & 0xFF)
				d.packed[offset+2] = byte((value >> 16) & 0xFF)
				d.packed[offset+3] = byte((value >> 24) & 0xFF)
			default:
				return nil, fmt.Errorf("wav: unsupported bits per sample: %d", d.bps)
			}
		}
		totalFrames++
	}

	if totalFrames == 0 {
		return nil, io.EOF
	}

	n := pcm.BytesToFloat32(d.packed[:totalFrames*d.channels*bytesPerSample], d.bps, d.scratch)
	out := make([]float32, n)
	copy(out, d.scratch[:n])
	return out, nil
}

// Seek is reset-and-skip: go-wav's reader only supports sequential reads
// from the data chunk, but the decoder's *os.File is itself seekable, so
// Seek rewinds the file, re-parses the header to land back at the start
// of the data chunk, and discards samples up to the target frame.
// Seeking past the end of the stream lands at EOF rather than erroring;
// the next DecodeNext call reports it.
func (d *Decoder) Seek(timeSecs float64) error {
	if d.reader == nil {
		return fmt.Errorf("wav: decoder not initialized")
	}
	if timeSecs < 0 {
		timeSecs = 0
	}

	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wav: seek to start: %w", err)
	}

	reader := goWav.NewReader(d.file)
	if _, err := reader.Format(); err != nil {
		return fmt.Errorf("wav: re-reading format after seek: %w", err)
	}
	d.reader = reader

	targetFrame := int64(timeSecs * float64(d.rate))
	for i := int64(0); i < targetFrame; i++ {
		samplesData, err := d.reader.ReadSamples(1)
		if err != nil || len(samplesData) == 0 {
			break
		}
	}
	return nil
}

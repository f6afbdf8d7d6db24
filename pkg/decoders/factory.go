package decoders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/drgolem/audioengine/pkg/decoders/flac"
	"github.com/drgolem/audioengine/pkg/decoders/mp3"
	"github.com/drgolem/audioengine/pkg/decoders/wav"
	"github.com/drgolem/audioengine/pkg/types"
)

// NewDecoder creates and opens the appropriate decoder based on file extension.
// Supports .mp3, .flac, .fla, and .wav formats.
// Returns an opened decoder ready for use, or an error if the format is unsupported
// or the file cannot be opened.
func NewDecoder(fileName string) (types.Decoder, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var decoder types.Decoder

	switch ext {
	case ".mp3":
		decoder = mp3.NewDecoder()
	case ".flac", ".fla":
		decoder = flac.NewDecoder()
	case ".wav":
		decoder = wav.NewDecoder()
	default:
		return nil, fmt.Errorf("%w: %s (supported: .mp3, .flac, .fla, .wav)", types.ErrUnsupportedFormat, ext)
	}

	if err := decoder.Open(fileName); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrNotFound, fileName, err)
	}

	return decoder, nil
}

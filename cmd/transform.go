package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	wav "github.com/youpy/go-wav"

	"github.com/drgolem/audioengine/pkg/decoders"
	"github.com/drgolem/audioengine/pkg/pcm"
	"github.com/drgolem/audioengine/pkg/resampler"
	"github.com/drgolem/audioengine/pkg/types"
)

var transformCmd = &cobra.Command{
	Use:   "transform <input_file>",
	Short: "Transform audio file sample rate and format",
	Long: `Transform audio files to different sample rates and convert to WAV format,
driven by the same pkg/resampler component the real-time playback path uses.
Supports input from MP3, FLAC, and WAV formats with optional mono conversion.

Examples:
  audioengine transform input.mp3 --new-samplerate 48000 --out output.wav
  audioengine transform input.flac --new-samplerate 44100 --mono --out output.wav`,
	Args: cobra.ExactArgs(1),
	Run:  runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().Int("new-samplerate", 48000, "Target sample rate in Hz")
	transformCmd.Flags().String("out", "out_transformed.wav", "Output WAV file path")
	transformCmd.Flags().Bool("mono", false, "Convert output to mono signal (average channels)")
}

func runTransform(cmd *cobra.Command, args []string) {
	inFileName := args[0]

	if _, err := os.Stat(inFileName); os.IsNotExist(err) {
		slog.Error("input file not found", "path", inFileName)
		os.Exit(1)
	}

	newSampleRate, _ := cmd.Flags().GetInt("new-samplerate")
	outFileName, _ := cmd.Flags().GetString("out")
	convertToMono, _ := cmd.Flags().GetBool("mono")

	if newSampleRate <= 0 || newSampleRate > 384000 {
		slog.Error("invalid sample rate", "rate", newSampleRate, "valid_range", "1-384000")
		os.Exit(1)
	}

	decoder, err := decoders.NewDecoder(inFileName)
	if err != nil {
		slog.Error("failed to create decoder", "error", err)
		os.Exit(1)
	}
	defer decoder.Close()

	inSampleRate, channels := decoder.SampleRate(), decoder.Channels()

	slog.Info("audio transformation starting",
		"input_file", inFileName,
		"input_sample_rate", inSampleRate,
		"input_channels", channels,
		"output_sample_rate", newSampleRate,
		"output_mono", convertToMono,
		"output_file", outFileName)

	samples, totalFrames, err := decodeAllAudio(decoder)
	if err != nil {
		slog.Error("failed to decode audio", "error", err)
		os.Exit(1)
	}
	slog.Info("decoding complete", "input_frames", totalFrames)

	outChannels := channels
	if convertToMono && channels > 1 {
		outChannels = 1
	}

	resampled, err := resampleAll(samples, inSampleRate, newSampleRate, channels, outChannels)
	if err != nil {
		slog.Error("failed to resample audio", "error", err)
		os.Exit(1)
	}

	outFrames := len(resampled) / outChannels
	slog.Info("resampling complete", "output_frames", outFrames)

	pcmBytes := make([]byte, len(resampled)*2)
	pcm.Float32ToInt16(resampled, pcmBytes)

	slog.Info("writing output WAV file", "path", outFileName)
	if err := writeWAVFile(outFileName, pcmBytes, uint32(outFrames), uint16(outChannels), uint32(newSampleRate), 16); err != nil {
		slog.Error("failed to write WAV file", "error", err)
		os.Exit(1)
	}

	slog.Info("transformation complete",
		"input_frames", totalFrames,
		"output_frames", outFrames,
		"sample_rate_ratio", fmt.Sprintf("%.3f", float64(newSampleRate)/float64(inSampleRate)))
}

// decodeAllAudio reads every block from decoder into one interleaved
// float32 slice, operating on the shared sample representation instead
// of raw bytes.
func decodeAllAudio(decoder types.Decoder) ([]float32, int, error) {
	var out []float32
	for {
		block, err := decoder.DecodeNext()
		if len(block) > 0 {
			out = append(out, block...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("decode error: %w", err)
		}
		if len(block) == 0 {
			break
		}
	}
	return out, len(out) / decoder.Channels(), nil
}

// resampleAll drives pkg/resampler to completion over the whole buffer,
// used here for an offline one-shot conversion rather than the real-time
// path's incremental Process calls. Channel mixing (mono<->multi-channel)
// happens inside the resampler itself when fromChannels != toChannels.
func resampleAll(samples []float32, fromRate, toRate, fromChannels, toChannels int) ([]float32, error) {
	if fromRate == toRate && fromChannels == toChannels {
		return samples, nil
	}

	r, err := resampler.New(fromRate, toRate, fromChannels, toChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	defer r.Close()

	out := r.Process(samples)
	out = append(out, r.Flush()...)
	return out, nil
}

// writeWAVFile writes audio data to a WAV file.
func writeWAVFile(fileName string, audioData []byte, numSamples uint32, numChannels uint16, sampleRate uint32, bitsPerSample uint16) error {
	fOut, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer fOut.Close()

	wavWriter := wav.NewWriter(fOut, numSamples, numChannels, sampleRate, bitsPerSample)
	if _, err := wavWriter.Write(audioData); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

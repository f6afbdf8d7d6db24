package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audioengine",
	Short: "Real-time audio playback engine with hot-swappable output",
	Long: `audioengine - a real-time audio playback engine built around a lock-free
SPSC ringbuffer, a per-channel DSP chain, and an output-device hot-swap
supervisor.

Features:
  - Decode -> resample -> DSP chain -> lock-free SPSC ring -> device callback
  - Adaptive bass boost and a peak limiter running on the real-time path
  - Output device loss/recovery handled without tearing down playback
  - Support for MP3, FLAC, and WAV audio formats

Commands:
  - play: play a single audio file
  - playlist: play multiple audio files sequentially
  - devices: list available output devices
  - transform: convert audio files to different sample rates and WAV format`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

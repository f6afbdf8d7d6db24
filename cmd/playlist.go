package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"

	"github.com/drgolem/audioengine/pkg/engine"
	"github.com/drgolem/audioengine/pkg/outputdevice"
	"github.com/drgolem/audioengine/pkg/playlist"
)

var (
	playlistDeviceIdx int
	playlistFrames    int
	playlistVerbose   bool
)

// playlistCmd represents the playlist command
var playlistCmd = &cobra.Command{
	Use:   "playlist <audio_file> [audio_file...]",
	Short: "Play multiple audio files sequentially",
	Long: `Play a list of audio files one after another through the real-time engine.
Each file is loaded and played to completion before the next starts; this is
not gapless playback.

Examples:
  audioengine playlist song1.mp3 song2.flac song3.wav
  audioengine playlist -d 0 -v music/*.flac`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.Flags().IntVarP(&playlistDeviceIdx, "device", "d", 1, "Audio output device index")
	playlistCmd.Flags().IntVarP(&playlistFrames, "frames", "f", 512, "Output frames per callback")
	playlistCmd.Flags().BoolVarP(&playlistVerbose, "verbose", "v", false, "Verbose output (debug logging)")
}

func runPlaylist(cmd *cobra.Command, args []string) {
	logLevel := slog.LevelInfo
	if playlistVerbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	files := args

	slog.Info("initializing PortAudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("failed to initialize PortAudio", "error", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	slog.Info("PortAudio initialized", "version", portaudio.GetVersion())
	slog.Info("configuration", "device_index", playlistDeviceIdx, "file_count", len(files))

	config := engine.DefaultConfig()
	config.DeviceIndex = playlistDeviceIdx
	config.FramesPerBuffer = playlistFrames
	config.Format = outputdevice.FormatInt16

	eng := engine.New(config)
	pl := playlist.New(eng, files)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		pl.Run()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("all files completed", "total", len(files))
	case sig := <-sigChan:
		slog.Info("signal received, stopping", "signal", sig)
		pl.Stop()
		<-done
	}

	slog.Info("exiting")
}

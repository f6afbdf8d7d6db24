package cmd

import (
	"fmt"
	"os"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"

	"github.com/drgolem/audioengine/pkg/outputdevice"
)

var devicesProbeCount int

// devicesCmd lists candidate output device indices, probing each with
// outputdevice.Probe, since --device otherwise takes an index on faith
// with no way to discover which ones are actually openable.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List candidate output devices by probing device indices",
	Run:   runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().IntVar(&devicesProbeCount, "max-index", 8, "Highest device index to probe")
}

func runDevices(cmd *cobra.Command, args []string) {
	if err := portaudio.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize PortAudio: %v\n", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	fmt.Printf("PortAudio version: %s\n", portaudio.GetVersion())
	fmt.Println("Probing output devices (no enumeration API is available; indices are tried in order):")

	for idx := 0; idx <= devicesProbeCount; idx++ {
		config := outputdevice.Config{
			DeviceIndex:     idx,
			Channels:        2,
			SampleRate:      44100,
			FramesPerBuffer: 512,
			Format:          outputdevice.FormatInt16,
		}
		if err := outputdevice.Probe(config); err != nil {
			fmt.Printf("  [%d] unavailable: %v\n", idx, err)
			continue
		}
		fmt.Printf("  [%d] available (44100Hz stereo)\n", idx)
	}
}

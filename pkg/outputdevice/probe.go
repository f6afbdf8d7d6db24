package outputdevice

import (
	"fmt"

	"github.com/drgolem/go-portaudio/portaudio"
)

// Probe checks that config's device index can still accept an output
// stream, without starting real playback. The go-portaudio binding this
// module wraps exposes no device-enumeration or default-device-changed
// notification API (only Initialize/Terminate/GetVersion and
// stream construction by a caller-supplied index), so device health is
// inferred the only way the observed surface allows: by attempting to
// open and immediately close a stream on that index. A failure here is
// what drives the output manager's Connected -> Disconnected transition.
func Probe(config Config) error {
	stream := &portaudio.PaStream{
		OutputParameters: &portaudio.PaStreamParameters{
			DeviceIndex:  config.DeviceIndex,
			ChannelCount: config.Channels,
			SampleFormat: config.Format.paSampleFormat(),
		},
		SampleRate: float64(config.SampleRate),
	}

	if err := stream.Open(config.FramesPerBuffer); err != nil {
		return fmt.Errorf("outputdevice: device %d unavailable: %w", config.DeviceIndex, err)
	}
	return stream.Close()
}

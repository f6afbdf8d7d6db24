package outputdevice

import (
	"testing"

	"github.com/drgolem/audioengine/pkg/pcm"
)

func TestSampleFormatBytesPerSample(t *testing.T) {
	cases := map[SampleFormat]int{
		FormatFloat32: 4,
		FormatInt16:   2,
		FormatInt24:   3,
		FormatUint8:   1,
	}
	for format, want := range cases {
		if got := format.bytesPerSample(); got != want {
			t.Errorf("%v.bytesPerSample() = %d, want %d", format, got, want)
		}
	}
}

func TestWriteSamplesInt16RoundTrips(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	out := make([]byte, len(samples)*2)
	writeSamples(out, samples, FormatInt16)

	decoded := make([]float32, len(samples))
	pcm.Int16ToFloat32(out, decoded)

	for i := range samples {
		diff := decoded[i] - samples[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1.0/32768 {
			t.Errorf("decoded[%d] = %v, want ~%v", i, decoded[i], samples[i])
		}
	}
}

func TestClearSilenceBoundsToBufferLength(t *testing.T) {
	buf := make([]byte, 4)
	for i := range buf {
		buf[i] = 0xFF
	}
	clearSilence(buf, 100) // n larger than len(buf) must not panic
	for i, b := range buf {
		if b != 0 {
			t.Errorf("buf[%d] = %d, want 0", i, b)
		}
	}
}

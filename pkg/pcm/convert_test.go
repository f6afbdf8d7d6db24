package pcm

import "testing"

func TestInt16RoundTrip(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 0.999, -1.0}
	bytes := make([]byte, len(in)*2)
	n := Float32ToInt16(in, bytes)
	if n != len(in) {
		t.Fatalf("Float32ToInt16 wrote %d, want %d", n, len(in))
	}

	out := make([]float32, len(in))
	m := Int16ToFloat32(bytes, out)
	if m != len(in) {
		t.Fatalf("Int16ToFloat32 wrote %d, want %d", m, len(in))
	}

	for i := range in {
		diff := out[i] - in[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1.0/32768 {
			t.Errorf("out[%d] = %v, want ~%v", i, out[i], in[i])
		}
	}
}

func TestBytesToFloat32SaturatesWithinRange(t *testing.T) {
	src := []byte{0xFF, 0x7F} // max positive int16
	dst := make([]float32, 1)
	BytesToFloat32(src, 16, dst)
	if dst[0] <= 0 || dst[0] > 1.0 {
		t.Errorf("dst[0] = %v, want in (0, 1.0]", dst[0])
	}
}

func Test24BitSignExtension(t *testing.T) {
	// Full-scale negative (-8388608) as 24-bit little-endian: 0x800000
	src := []byte{0x00, 0x00, 0x80}
	dst := make([]float32, 1)
	BytesToFloat32(src, 24, dst)
	if dst[0] > -0.99 {
		t.Errorf("dst[0] = %v, want close to -1.0", dst[0])
	}
}

func TestFloat32ToFloat32LERoundTrips(t *testing.T) {
	in := []float32{0, 0.25, -0.75, 1, -1}
	out := make([]byte, len(in)*4)
	n := Float32ToFloat32LE(in, out)
	if n != len(in) {
		t.Fatalf("wrote %d samples, want %d", n, len(in))
	}
}

func TestFloat32ToUint8CentersOnSilence(t *testing.T) {
	dst := make([]byte, 1)
	Float32ToUint8([]float32{0}, dst)
	if dst[0] != 128 {
		t.Errorf("silence encoded as %d, want 128 (WAV 8-bit convention)", dst[0])
	}
}

func TestFloat32ToInt24Saturates(t *testing.T) {
	dst := make([]byte, 3)
	Float32ToInt24([]float32{2.0}, dst) // out of [-1,1] range
	v := int32(uint32(dst[0]) | uint32(dst[1])<<8 | uint32(dst[2])<<16)
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	if v != 8388607 {
		t.Errorf("saturated value = %d, want 8388607", v)
	}
}

// Package pcm converts between little-endian integer PCM byte buffers
// (what the wrapped codec libraries decode into) and interleaved float32
// samples in [-1.0, 1.0] (what the rest of the pipeline operates on).
package pcm

import "math"

// BytesToFloat32 decodes n interleaved samples (n*bytesPerSample*channels
// implied by len(src)) at the given bit depth into dst, which must be at
// least len(src)/(bitsPerSample/8) long. It returns the number of samples
// written.
func BytesToFloat32(src []byte, bitsPerSample int, dst []float32) int {
	bytesPerSample := bitsPerSample / 8
	if bytesPerSample == 0 {
		return 0
	}
	n := len(src) / bytesPerSample
	if n > len(dst) {
		n = len(dst)
	}

	switch bitsPerSample {
	case 8:
		for i := 0; i < n; i++ {
			// WAV 8-bit PCM is unsigned.
			dst[i] = (float32(src[i]) - 128) / 128
		}
	case 16:
		const scale = 1.0 / 32768
		for i := 0; i < n; i++ {
			off := i * 2
			v := int16(uint16(src[off]) | uint16(src[off+1])<<8)
			dst[i] = float32(v) * scale
		}
	case 24:
		const scale = 1.0 / 8388608
		for i := 0; i < n; i++ {
			off := i * 3
			v := int32(uint32(src[off]) | uint32(src[off+1])<<8 | uint32(src[off+2])<<16)
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF // sign-extend 24-bit
			}
			dst[i] = float32(v) * scale
		}
	case 32:
		const scale = 1.0 / 2147483648
		for i := 0; i < n; i++ {
			off := i * 4
			v := int32(uint32(src[off]) | uint32(src[off+1])<<8 | uint32(src[off+2])<<16 | uint32(src[off+3])<<24)
			dst[i] = float32(v) * scale
		}
	default:
		return 0
	}
	return n
}

// Float32ToInt16 converts interleaved float32 samples to little-endian
// signed 16-bit PCM bytes with saturating conversion, used by the offline
// transform command's WAV writer and by the resampler's int16 boundary
// with zaf/resample (declared soxr.I16).
func Float32ToInt16(src []float32, dst []byte) int {
	n := len(src)
	if n*2 > len(dst) {
		n = len(dst) / 2
	}
	for i := 0; i < n; i++ {
		v := src[i] * 32768
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		s := int16(v)
		dst[i*2] = byte(s)
		dst[i*2+1] = byte(s >> 8)
	}
	return n
}

// Int16ToFloat32 converts little-endian signed 16-bit PCM bytes back to
// interleaved float32 samples.
func Int16ToFloat32(src []byte, dst []float32) int {
	n := len(src) / 2
	if n > len(dst) {
		n = len(dst)
	}
	const scale = 1.0 / 32768
	for i := 0; i < n; i++ {
		off := i * 2
		v := int16(uint16(src[off]) | uint16(src[off+1])<<8)
		dst[i] = float32(v) * scale
	}
	return n
}

// Float32ToFloat32LE writes src as little-endian IEEE-754 float32 bytes,
// for output backends configured to pass samples through unconverted.
func Float32ToFloat32LE(src []float32, dst []byte) int {
	n := len(src)
	if n*4 > len(dst) {
		n = len(dst) / 4
	}
	for i := 0; i < n; i++ {
		bits := math.Float32bits(src[i])
		off := i * 4
		dst[off] = byte(bits)
		dst[off+1] = byte(bits >> 8)
		dst[off+2] = byte(bits >> 16)
		dst[off+3] = byte(bits >> 24)
	}
	return n
}

// Float32ToInt24 converts interleaved float32 samples to little-endian
// signed 24-bit PCM bytes with saturating conversion.
func Float32ToInt24(src []float32, dst []byte) int {
	n := len(src)
	if n*3 > len(dst) {
		n = len(dst) / 3
	}
	for i := 0; i < n; i++ {
		v := src[i] * 8388608
		if v > 8388607 {
			v = 8388607
		}
		if v < -8388608 {
			v = -8388608
		}
		s := int32(v)
		off := i * 3
		dst[off] = byte(s)
		dst[off+1] = byte(s >> 8)
		dst[off+2] = byte(s >> 16)
	}
	return n
}

// Float32ToUint8 converts interleaved float32 samples to unsigned 8-bit
// PCM bytes using the WAV convention (128 = silence).
func Float32ToUint8(src []float32, dst []byte) int {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		v := src[i]*128 + 128
		if v > 255 {
			v = 255
		}
		if v < 0 {
			v = 0
		}
		dst[i] = byte(v)
	}
	return n
}

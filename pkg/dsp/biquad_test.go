package dsp

import "testing"

func TestBiquadZeroStateNoDCOffset(t *testing.T) {
	types := []FilterType{HighPass, LowPass, LowShelf, HighShelf}
	for _, typ := range types {
		b := NewBiquad(typ, 48000, 1000, 0.707, 3)
		b.Reset()
		for i := 0; i < 100; i++ {
			if y := b.Process(0); y != 0 {
				t.Errorf("filter type %v: Process(0) = %v on iteration %d, want 0", typ, y, i)
			}
		}
	}
}

func TestBiquadCoefficientUpdatePreservesState(t *testing.T) {
	b := NewBiquad(LowShelf, 48000, 80, 0.65, 0)
	b.Process(0.5)
	z1Before, z2Before := b.z1, b.z2

	b.SetCoefficients(LowShelf, 48000, 80, 0.65, 4)

	if b.z1 != z1Before || b.z2 != z2Before {
		t.Errorf("coefficient update changed state: (%v,%v) -> (%v,%v)", z1Before, z2Before, b.z1, b.z2)
	}
}

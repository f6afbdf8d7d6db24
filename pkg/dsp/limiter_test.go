package dsp

import "testing"

func TestLimiterPassesThroughBelowThreshold(t *testing.T) {
	l := NewLimiter(48000, 1, -0.1)
	t_ := l.Threshold()

	x := t_ * 0.5
	y := l.Process(0, x)
	if y != x {
		t.Errorf("Process(%v) = %v, want %v (unchanged, below threshold)", x, y, x)
	}
}

func TestLimiterConvergesUnderThresholdOnSustainedOverload(t *testing.T) {
	l := NewLimiter(48000, 1, -0.1)
	thresh := l.Threshold()

	x := 1.0 // well above threshold
	var y float64
	for i := 0; i < 20000; i++ { // several attack/release time constants
		y = l.Process(0, x)
	}

	const overshoot = 0.02
	if abs(y) > thresh*(1+overshoot) {
		t.Errorf("after convergence |y| = %v, want <= %v", abs(y), thresh*(1+overshoot))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

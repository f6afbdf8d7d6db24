package dsp

import "math"

const limiterEpsilon = 1e-12

// Limiter is a per-channel peak limiter with an asymmetric attack/release
// envelope follower, per §4.5: threshold -0.1 dBFS, attack ~5ms, release
// ~150ms.
type Limiter struct {
	thresholdDB float64
	threshold   float64
	alphaAttack float64
	alphaRelease float64
	envelope    []float64
}

// NewLimiter constructs a limiter for numChannels at the given sample
// rate with the given threshold and reference attack/release time
// constants.
func NewLimiter(sampleRate float64, numChannels int, thresholdDB float64) *Limiter {
	const attackSecs = 0.005
	const releaseSecs = 0.150

	l := &Limiter{
		thresholdDB:  thresholdDB,
		threshold:    math.Pow(10, thresholdDB/20),
		alphaAttack:  math.Exp(-1 / (sampleRate * attackSecs)),
		alphaRelease: math.Exp(-1 / (sampleRate * releaseSecs)),
		envelope:     make([]float64, numChannels),
	}
	return l
}

// Process applies the limiter to a single sample of channel ch:
//
//	e = |x| + epsilon
//	E = alpha_a*(E-e)+e   if e > E (attack)
//	E = alpha_r*(E-e)+e   otherwise (release)
//	gain = (E > T) ? T/E : 1
//	y = x * gain
func (l *Limiter) Process(ch int, x float64) float64 {
	e := math.Abs(x) + limiterEpsilon

	env := l.envelope[ch]
	if e > env {
		env = l.alphaAttack*(env-e) + e
	} else {
		env = l.alphaRelease*(env-e) + e
	}
	l.envelope[ch] = env

	gain := 1.0
	if env > l.threshold {
		gain = l.threshold / env
	}
	return x * gain
}

// Reset zeroes the envelope followers.
func (l *Limiter) Reset() {
	for i := range l.envelope {
		l.envelope[i] = 0
	}
}

// Threshold returns the linear threshold T derived from thresholdDB.
func (l *Limiter) Threshold() float64 {
	return l.threshold
}

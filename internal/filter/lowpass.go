package filter

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

const (
	// MinQ is the smallest resonance accepted; lower values are floored.
	MinQ = 0.01
	// DefaultOrder is two cascaded sections.
	DefaultOrder = 4
)

// LowpassCoefficients designs a 2-pole lowpass section by bilinear transform
// of the analog prototype. cutoff must lie in (0, sampleRate/2).
func LowpassCoefficients(cutoff, q, sampleRate float64) biquad.Coefficients {
	if q < MinQ {
		q = MinQ
	}
	k := math.Tan(math.Pi * cutoff / sampleRate)
	kk := k * k
	norm := 1 / (1 + k/q + kk)
	b0 := kk * norm
	return biquad.Coefficients{
		B0: b0,
		B1: 2 * b0,
		B2: b0,
		A1: 2 * (kk - 1) * norm,
		A2: (1 - k/q + kk) * norm,
	}
}

// Lowpass is a resonant lowpass built from identical biquad sections in
// series. Every section is retuned on each cutoff/resonance change and keeps
// its own delay registers.
type Lowpass struct {
	sampleRate float64
	cutoff     float64
	q          float64
	coeffs     biquad.Coefficients
	sections   []biquad.Section
}

// New returns a lowpass of the given even order (2, 4, 6, ...). Orders below
// 2 fall back to DefaultOrder.
func New(sampleRate, cutoff, q float64, order int) *Lowpass {
	if order < 2 {
		order = DefaultOrder
	}
	lp := &Lowpass{
		sampleRate: sampleRate,
		sections:   make([]biquad.Section, (order+1)/2),
	}
	lp.Set(cutoff, q)
	return lp
}

// SetFreq retunes the cutoff frequency in Hz.
func (lp *Lowpass) SetFreq(cutoff float64) {
	lp.Set(cutoff, lp.q)
}

// SetRes retunes the resonance.
func (lp *Lowpass) SetRes(q float64) {
	lp.Set(lp.cutoff, q)
}

// Set retunes cutoff and resonance with a single coefficient update.
// Delay registers are preserved.
func (lp *Lowpass) Set(cutoff, q float64) {
	if q < MinQ {
		q = MinQ
	}
	lp.cutoff = cutoff
	lp.q = q
	lp.coeffs = LowpassCoefficients(cutoff, q, lp.sampleRate)
	for i := range lp.sections {
		lp.sections[i].Coefficients = lp.coeffs
	}
}

// Process filters one sample through every section in order.
func (lp *Lowpass) Process(x float64) float64 {
	for i := range lp.sections {
		x = lp.sections[i].ProcessSample(x)
	}
	return core.FlushDenormals(x)
}

// Reset clears the delay registers of all sections.
func (lp *Lowpass) Reset() {
	for i := range lp.sections {
		lp.sections[i].Reset()
	}
}

func (lp *Lowpass) Cutoff() float64                   { return lp.cutoff }
func (lp *Lowpass) Resonance() float64                { return lp.q }
func (lp *Lowpass) Coefficients() biquad.Coefficients { return lp.coeffs }
func (lp *Lowpass) Order() int                        { return 2 * len(lp.sections) }

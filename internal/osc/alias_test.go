package osc

import (
	"math/cmplx"
	"testing"

	algofft "github.com/cwbudde/algo-fft"
)

// inharmonicEnergy sums spectral energy outside the harmonic bins of a tone
// that completes exactly `cycles` periods in the analysis window.
func inharmonicEnergy(t *testing.T, samples []float64, cycles int) float64 {
	t.Helper()
	plan, err := algofft.NewPlanReal64(len(samples))
	if err != nil {
		t.Fatalf("fft plan: %v", err)
	}
	spec := make([]complex128, len(samples)/2+1)
	plan.Forward(spec, samples)
	var energy float64
	for bin := 1; bin < len(spec); bin++ {
		if bin%cycles == 0 {
			continue
		}
		m := cmplx.Abs(spec[bin])
		energy += m * m
	}
	return energy
}

func TestPolyBLEPReducesAliasedEnergy(t *testing.T) {
	const (
		sr     = 48000.0
		size   = 4096
		cycles = 61
	)
	freq := float64(cycles) * sr / size

	bl := NewSaw(sr)
	bl.SetFreq(freq)
	naive := NewSaw(sr)
	naive.SetFreq(freq)

	blSamples := make([]float64, size)
	naiveSamples := make([]float64, size)
	for i := range blSamples {
		blSamples[i] = bl.Process()
		naive.phase += naive.incr
		if naive.phase >= 1 {
			naive.phase -= 1
		}
		naiveSamples[i] = 2*naive.phase - 1
	}

	withBLEP := inharmonicEnergy(t, blSamples, cycles)
	without := inharmonicEnergy(t, naiveSamples, cycles)
	if withBLEP >= without*0.5 {
		t.Fatalf("expected PolyBLEP to at least halve aliased energy: blep=%g naive=%g", withBLEP, without)
	}
}

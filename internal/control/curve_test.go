package control

import (
	"math"
	"testing"
)

func TestCurvesHitExactEndpoints(t *testing.T) {
	curves := DefaultCurves()
	want := [NumKnobs][2]float64{
		KnobCutoff:    {CutoffMinHz, CutoffMaxHz},
		KnobResonance: {ResonanceMin, ResonanceMax},
		KnobEnvDepth:  {0, EnvDepthMaxHz},
		KnobDetune:    {-DetuneMaxCents, DetuneMaxCents},
	}
	for k, c := range curves {
		t.Run(Knob(k).String(), func(t *testing.T) {
			if got := c.Map(0); got != want[k][0] {
				t.Fatalf("Map(0)=%v want %v", got, want[k][0])
			}
			if got := c.Map(1); got != want[k][1] {
				t.Fatalf("Map(1)=%v want %v", got, want[k][1])
			}
		})
	}
}

func TestCutoffCurveStrictlyIncreasing(t *testing.T) {
	c := DefaultCurves()[KnobCutoff]
	prev := c.Map(0)
	for i := 1; i <= 1000; i++ {
		v := c.Map(float64(i) / 1000)
		if !(v > prev) {
			t.Fatalf("not increasing at x=%v: %v <= %v", float64(i)/1000, v, prev)
		}
		prev = v
	}
}

func TestCurvesClampInput(t *testing.T) {
	c := ExpCurve{Min: 20, Max: 10000}
	if got := c.Map(-3); got != 20 {
		t.Fatalf("Map(-3)=%v want 20", got)
	}
	if got := c.Map(7); got != 10000 {
		t.Fatalf("Map(7)=%v want 10000", got)
	}
	// Geometric midpoint.
	if got, want := c.Map(0.5), math.Sqrt(20*10000); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Map(0.5)=%v want %v", got, want)
	}
	l := LinearCurve{Min: -50, Max: 50}
	if got := l.Map(0.75); got != 25 {
		t.Fatalf("linear Map(0.75)=%v want 25", got)
	}
}

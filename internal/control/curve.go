package control

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// Curve maps a normalized reading in [0,1] to engineering units.
type Curve interface {
	Map(x float64) float64
}

// ExpCurve is a logarithmic-feel map Min*(Max/Min)^x. Min and Max must be > 0.
type ExpCurve struct {
	Min, Max float64
}

func (c ExpCurve) Map(x float64) float64 {
	x = core.Clamp(x, 0, 1)
	switch x {
	case 0:
		return c.Min
	case 1:
		return c.Max
	}
	return c.Min * math.Pow(c.Max/c.Min, x)
}

// LinearCurve maps x linearly onto [Min, Max].
type LinearCurve struct {
	Min, Max float64
}

func (c LinearCurve) Map(x float64) float64 {
	x = core.Clamp(x, 0, 1)
	return c.Min + (c.Max-c.Min)*x
}

// Documented control ranges.
const (
	CutoffMinHz    = 20.0
	CutoffMaxHz    = 10000.0
	ResonanceMin   = 0.1
	ResonanceMax   = 1.5
	EnvDepthMaxHz  = 4000.0
	DetuneMaxCents = 50.0
)

// DefaultCurves returns the per-knob curves in Knob order.
func DefaultCurves() [NumKnobs]Curve {
	return [NumKnobs]Curve{
		KnobCutoff:    ExpCurve{Min: CutoffMinHz, Max: CutoffMaxHz},
		KnobResonance: LinearCurve{Min: ResonanceMin, Max: ResonanceMax},
		KnobEnvDepth:  LinearCurve{Min: 0, Max: EnvDepthMaxHz},
		KnobDetune:    LinearCurve{Min: -DetuneMaxCents, Max: DetuneMaxCents},
	}
}

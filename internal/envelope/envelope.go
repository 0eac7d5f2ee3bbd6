package envelope

import "math"

const (
	// PeakThreshold and FloorThreshold snap the ramps to their limits so a
	// curved ramp terminates in a bounded number of samples.
	PeakThreshold  = 0.99
	FloorThreshold = 0.01

	minTimeSec = 0.0005
)

type Params struct {
	AttackSec float64
	DecaySec  float64
	// Curve bends both ramps: 0 is linear, positive values start slowly and
	// finish fast, negative values do the opposite.
	Curve float64
}

func DefaultParams() Params {
	return Params{
		AttackSec: 0.01,
		DecaySec:  0.25,
		Curve:     0,
	}
}

// Envelope is an attack/hold/decay generator producing a 0..1 signal.
//
// The ramps move a position p in [0,1] at a constant rate and map it through
// the curve, so a stage change can resume from the current output by
// inverting the curve instead of restarting from a limit.
type Envelope struct {
	sampleRate float64
	params     Params
	attackStep float64
	decayStep  float64
	curveScale float64 // e^curve - 1, 0 when linear
	stage      Stage
	pos        float64
	out        float64
}

func New(sampleRate float64, params Params) *Envelope {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	e := &Envelope{sampleRate: sampleRate}
	e.SetParams(params)
	return e
}

// SetParams updates the times and curve; the current stage and output are kept.
func (e *Envelope) SetParams(p Params) {
	if p.AttackSec < minTimeSec {
		p.AttackSec = minTimeSec
	}
	if p.DecaySec < minTimeSec {
		p.DecaySec = minTimeSec
	}
	e.params = p
	e.attackStep = 1 / (p.AttackSec * e.sampleRate)
	e.decayStep = 1 / (p.DecaySec * e.sampleRate)
	if p.Curve == 0 {
		e.curveScale = 0
	} else {
		e.curveScale = math.Expm1(p.Curve)
	}
	e.pos = e.inverse(e.out)
}

func (e *Envelope) Params() Params  { return e.params }
func (e *Envelope) Stage() Stage    { return e.stage }
func (e *Envelope) Output() float64 { return e.out }

// Trigger forces Attack from any stage. The ramp continues upward from the
// current output.
func (e *Envelope) Trigger() {
	e.apply(EventTrigger)
}

// Release forces Decay from Attack or Hold. It is ignored when Idle.
func (e *Envelope) Release() {
	e.apply(EventRelease)
}

// ForceDecay forces Decay from any stage.
func (e *Envelope) ForceDecay() {
	e.apply(EventForceDecay)
}

func (e *Envelope) apply(ev Event) {
	next := Next(e.stage, ev)
	if next == e.stage {
		return
	}
	e.stage = next
	e.pos = e.inverse(e.out)
}

// Process advances one sample and returns the output level.
func (e *Envelope) Process() float64 {
	switch e.stage {
	case Idle:
		e.out = 0
	case Attack:
		e.pos += e.attackStep
		if e.pos > 1 {
			e.pos = 1
		}
		e.out = e.shape(e.pos)
		if e.out >= PeakThreshold {
			e.out = 1
			e.pos = 1
			e.stage = Next(e.stage, EventPeak)
		}
	case Hold:
		e.out = 1
	case Decay:
		e.pos -= e.decayStep
		if e.pos < 0 {
			e.pos = 0
		}
		e.out = e.shape(e.pos)
		if e.out <= FloorThreshold {
			e.out = 0
			e.pos = 0
			e.stage = Next(e.stage, EventFloor)
		}
	}
	return e.out
}

// Reset returns to Idle with zero output.
func (e *Envelope) Reset() {
	e.stage = Idle
	e.pos = 0
	e.out = 0
}

func (e *Envelope) shape(p float64) float64 {
	if e.curveScale == 0 {
		return p
	}
	return math.Expm1(e.params.Curve*p) / e.curveScale
}

func (e *Envelope) inverse(level float64) float64 {
	if level <= 0 {
		return 0
	}
	if level >= 1 {
		return 1
	}
	if e.curveScale == 0 {
		return level
	}
	return math.Log1p(level*e.curveScale) / e.params.Curve
}

// Package voice renders the single synth voice: two saw oscillators, an
// envelope and a resonant lowpass, driven by the control snapshot.
package voice

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/cbegin/monosynth-go/internal/control"
	"github.com/cbegin/monosynth-go/internal/envelope"
	"github.com/cbegin/monosynth-go/internal/filter"
	"github.com/cbegin/monosynth-go/internal/osc"
)

const (
	// MinCutoffHz and MaxCutoffHz bound the envelope-modulated cutoff.
	MinCutoffHz = 20.0
	MaxCutoffHz = 18000.0

	// Retune thresholds; smaller changes keep the current coefficients.
	cutoffEpsilon    = 0.5
	resonanceEpsilon = 0.001

	maxResonance = 10.0
)

type Config struct {
	SampleRate   float64
	Envelope     envelope.Params
	FilterOrder  int
	FallbackNote control.Note // pitch used when nothing is sounding
}

func DefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate:   sampleRate,
		Envelope:     envelope.DefaultParams(),
		FilterOrder:  filter.DefaultOrder,
		FallbackNote: 36,
	}
}

// Status is what the voice last published for display.
type Status struct {
	Note     control.Note
	Stage    envelope.Stage
	Level    float64
	Phase    float64
	CutoffHz float64
}

// Voice is owned by the audio context. Render is the only method that
// mutates DSP state; Status may be called from any goroutine.
type Voice struct {
	cfg       Config
	params    *control.Params
	gates     *control.GateQueue
	osc1      osc.Saw
	osc2      osc.Saw
	env       *envelope.Envelope
	lp        *filter.Lowpass
	maxCutoff float64

	sounding  control.Note
	cutoff    float64 // applied to lp
	resonance float64 // applied to lp

	pubNote   atomic.Int32
	pubStage  atomic.Int32
	pubLevel  atomic.Uint64
	pubPhase  atomic.Uint64
	pubCutoff atomic.Uint64
}

func New(cfg Config, params *control.Params, gates *control.GateQueue) *Voice {
	def := DefaultConfig(48000)
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Envelope == (envelope.Params{}) {
		cfg.Envelope = def.Envelope
	}
	if cfg.FilterOrder <= 0 {
		cfg.FilterOrder = def.FilterOrder
	}
	if !cfg.FallbackNote.Valid() {
		cfg.FallbackNote = def.FallbackNote
	}
	v := &Voice{
		cfg:       cfg,
		params:    params,
		gates:     gates,
		env:       envelope.New(cfg.SampleRate, cfg.Envelope),
		maxCutoff: math.Min(MaxCutoffHz, 0.45*cfg.SampleRate),
		sounding:  control.NoNote,
	}
	v.osc1.Init(cfg.SampleRate)
	v.osc2.Init(cfg.SampleRate)
	snap := params.Load()
	v.cutoff = v.clampCutoff(snap.CutoffHz)
	v.resonance = clampResonance(snap.Resonance)
	v.lp = filter.New(cfg.SampleRate, v.cutoff, v.resonance, cfg.FilterOrder)
	v.publish()
	return v
}

func (v *Voice) Config() Config { return v.cfg }

// Render fills out with len(out)/2 interleaved stereo frames. It does not
// allocate, lock or block.
func (v *Voice) Render(out []float32) {
	v.drainGates()
	snap := v.params.Load()

	cutoff := v.clampCutoff(snap.CutoffHz + v.env.Output()*snap.EnvDepthHz)
	q := clampResonance(snap.Resonance)
	if math.Abs(cutoff-v.cutoff) > cutoffEpsilon || math.Abs(q-v.resonance) > resonanceEpsilon {
		v.cutoff, v.resonance = cutoff, q
		v.lp.Set(cutoff, q)
	}

	note := v.sounding
	if note == control.NoNote {
		note = v.cfg.FallbackNote
	}
	base := control.NoteToHz(note)
	v.osc1.SetFreq(base)
	dual := snap.Osc2
	if dual {
		v.osc2.SetFreq(base * snap.DetuneRatio)
	}

	frames := len(out) / 2
	for i := 0; i < frames; i++ {
		level := v.env.Process()
		v.osc1.SetAmp(level)
		s := v.osc1.Process()
		if dual {
			v.osc2.SetAmp(level)
			s = 0.5 * (s + v.osc2.Process())
		}
		y := float32(v.lp.Process(s))
		out[2*i] = y
		out[2*i+1] = y
		if v.env.Stage() == envelope.Idle {
			v.sounding = control.NoNote
		}
	}
	if len(out)%2 != 0 {
		out[len(out)-1] = 0
	}
	v.publish()
}

// drainGates applies at most one queue's worth of pending events.
func (v *Voice) drainGates() {
	for i := 0; i < control.GateQueueSize; i++ {
		ev, ok := v.gates.Pop()
		if !ok {
			return
		}
		switch ev.Kind {
		case control.GateTrigger:
			v.sounding = ev.Note
			v.env.Trigger()
		case control.GateRelease:
			if ev.Note == v.sounding {
				v.env.Release()
			}
		case control.GateStopAll:
			v.env.ForceDecay()
		}
	}
}

// Reset silences the voice immediately and clears all DSP state.
// It must be called from the audio context or while audio is stopped.
func (v *Voice) Reset() {
	for {
		if _, ok := v.gates.Pop(); !ok {
			break
		}
	}
	v.env.Reset()
	v.osc1.Reset()
	v.osc2.Reset()
	v.lp.Reset()
	v.sounding = control.NoNote
	v.publish()
}

func (v *Voice) Status() Status {
	return Status{
		Note:     control.Note(v.pubNote.Load()),
		Stage:    envelope.Stage(v.pubStage.Load()),
		Level:    math.Float64frombits(v.pubLevel.Load()),
		Phase:    math.Float64frombits(v.pubPhase.Load()),
		CutoffHz: math.Float64frombits(v.pubCutoff.Load()),
	}
}

func (v *Voice) publish() {
	v.pubNote.Store(int32(v.sounding))
	v.pubStage.Store(int32(v.env.Stage()))
	v.pubLevel.Store(math.Float64bits(v.env.Output()))
	v.pubPhase.Store(math.Float64bits(v.osc1.Phase()))
	v.pubCutoff.Store(math.Float64bits(v.cutoff))
}

func (v *Voice) clampCutoff(hz float64) float64 {
	if math.IsNaN(hz) {
		return MinCutoffHz
	}
	return core.Clamp(hz, MinCutoffHz, v.maxCutoff)
}

func clampResonance(q float64) float64 {
	if math.IsNaN(q) {
		return control.ResonanceMin
	}
	return core.Clamp(q, filter.MinQ, maxResonance)
}

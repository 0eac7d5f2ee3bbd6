package control

import (
	"math"
	"sync/atomic"
)

// Params is the control snapshot shared between the control context (sole
// writer) and the audio context (reader, once per block). Every field is an
// independent atomic word; a reader may see fields from different control
// iterations, which is harmless because each is meaningful on its own.
// Note-on atomicity is carried by GateQueue, not by this struct.
type Params struct {
	cutoff      atomic.Uint64 // float64 bits, Hz
	resonance   atomic.Uint64 // float64 bits, Q
	envDepth    atomic.Uint64 // float64 bits, Hz
	detuneCents atomic.Uint64 // float64 bits
	detuneRatio atomic.Uint64 // float64 bits
	osc2        atomic.Bool
	heldNote    atomic.Int32
}

// Snapshot is a plain copy of Params.
type Snapshot struct {
	CutoffHz    float64
	Resonance   float64
	EnvDepthHz  float64
	DetuneCents float64
	DetuneRatio float64
	Osc2        bool
	HeldNote    Note
}

func NewParams() *Params {
	p := &Params{}
	p.Store(Snapshot{
		CutoffHz:    1000,
		Resonance:   0.707,
		DetuneRatio: 1,
		HeldNote:    NoNote,
	})
	return p
}

// Load reads every field once. It does not allocate.
func (p *Params) Load() Snapshot {
	return Snapshot{
		CutoffHz:    loadFloat(&p.cutoff),
		Resonance:   loadFloat(&p.resonance),
		EnvDepthHz:  loadFloat(&p.envDepth),
		DetuneCents: loadFloat(&p.detuneCents),
		DetuneRatio: loadFloat(&p.detuneRatio),
		Osc2:        p.osc2.Load(),
		HeldNote:    Note(p.heldNote.Load()),
	}
}

// Store publishes every field. Only the control context may call it.
func (p *Params) Store(s Snapshot) {
	storeFloat(&p.cutoff, s.CutoffHz)
	storeFloat(&p.resonance, s.Resonance)
	storeFloat(&p.envDepth, s.EnvDepthHz)
	storeFloat(&p.detuneCents, s.DetuneCents)
	storeFloat(&p.detuneRatio, s.DetuneRatio)
	p.osc2.Store(s.Osc2)
	p.heldNote.Store(int32(s.HeldNote))
}

func (p *Params) setCutoff(hz float64)   { storeFloat(&p.cutoff, hz) }
func (p *Params) setResonance(q float64) { storeFloat(&p.resonance, q) }
func (p *Params) setEnvDepth(hz float64) { storeFloat(&p.envDepth, hz) }
func (p *Params) setOsc2(on bool)        { p.osc2.Store(on) }
func (p *Params) setHeldNote(n Note)     { p.heldNote.Store(int32(n)) }

func (p *Params) setDetune(cents, ratio float64) {
	storeFloat(&p.detuneCents, cents)
	storeFloat(&p.detuneRatio, ratio)
}

func loadFloat(w *atomic.Uint64) float64 {
	return math.Float64frombits(w.Load())
}

func storeFloat(w *atomic.Uint64, v float64) {
	w.Store(math.Float64bits(v))
}

package control

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-approx"
	"github.com/cwbudde/algo-dsp/dsp/core"
)

// DefaultHysteresis is the minimum raw movement that republishes a knob.
const DefaultHysteresis = 0.002

// KnobSource supplies raw knob readings in [0,1], indexed by Knob.
type KnobSource interface {
	Knobs() [NumKnobs]float64
}

// ButtonSource is implemented by sources that also carry the osc2 button.
type ButtonSource interface {
	Button() bool
}

// Config tunes a Bridge. Zero fields take defaults.
type Config struct {
	Curves     [NumKnobs]Curve
	Hysteresis float64
	Debounce   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Curves:     DefaultCurves(),
		Hysteresis: DefaultHysteresis,
		Debounce:   DefaultDebounce,
	}
}

// Bridge converts raw control input into the shared Params snapshot and the
// gate queue. It is the only producer for both. Its methods may be called
// from several control goroutines; they serialize on an internal mutex that
// the audio context never touches.
type Bridge struct {
	mu     sync.Mutex
	cfg    Config
	params *Params
	gates  *GateQueue

	last    [NumKnobs]float64
	held    Note
	osc2    bool
	button  Debouncer
	dropped uint64
}

// NewBridge publishes DefaultPositions so the audio context starts from sane
// values before the first poll.
func NewBridge(cfg Config, params *Params, gates *GateQueue) *Bridge {
	def := DefaultConfig()
	for i := range cfg.Curves {
		if cfg.Curves[i] == nil {
			cfg.Curves[i] = def.Curves[i]
		}
	}
	if cfg.Hysteresis <= 0 {
		cfg.Hysteresis = def.Hysteresis
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	b := &Bridge{
		cfg:    cfg,
		params: params,
		gates:  gates,
		held:   NoNote,
		button: Debouncer{Stable: cfg.Debounce},
	}
	for i := range b.last {
		b.last[i] = math.NaN()
	}
	params.setHeldNote(NoNote)
	params.setOsc2(false)
	for k, raw := range DefaultPositions() {
		b.setKnobLocked(Knob(k), raw)
	}
	return b
}

// SetKnob publishes a raw reading. It reports whether the value moved far
// enough to be republished.
func (b *Bridge) SetKnob(k Knob, raw float64) bool {
	if k < 0 || k >= NumKnobs || math.IsNaN(raw) {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setKnobLocked(k, raw)
}

func (b *Bridge) setKnobLocked(k Knob, raw float64) bool {
	raw = core.Clamp(raw, 0, 1)
	if prev := b.last[k]; !math.IsNaN(prev) && math.Abs(raw-prev) <= b.cfg.Hysteresis {
		return false
	}
	b.last[k] = raw
	v := b.cfg.Curves[k].Map(raw)
	switch k {
	case KnobCutoff:
		b.params.setCutoff(v)
	case KnobResonance:
		b.params.setResonance(v)
	case KnobEnvDepth:
		b.params.setEnvDepth(v)
	case KnobDetune:
		b.params.setDetune(v, CentsToRatio(v))
	}
	return true
}

// Knob returns the last published raw reading.
func (b *Bridge) Knob(k Knob) float64 {
	if k < 0 || k >= NumKnobs {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last[k]
}

func (b *Bridge) SetOsc2(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.osc2 = on
	b.params.setOsc2(on)
}

func (b *Bridge) ToggleOsc2() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.osc2 = !b.osc2
	b.params.setOsc2(b.osc2)
	return b.osc2
}

// SetButton feeds a raw osc2 button sample; a debounced press toggles osc2.
func (b *Bridge) SetButton(pressed bool, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.button.Update(pressed, now) {
		b.osc2 = !b.osc2
		b.params.setOsc2(b.osc2)
	}
}

// NoteOn handles a note-on message. Velocity 0 is a note-off. It reports
// false when the note is out of range or the gate queue is full.
func (b *Bridge) NoteOn(note, velocity int) bool {
	if velocity <= 0 {
		return b.NoteOff(note)
	}
	n, ok := NoteFromMIDI(note)
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pushLocked(GateEvent{Kind: GateTrigger, Note: n}) {
		return false
	}
	b.held = n
	b.params.setHeldNote(n)
	return true
}

// NoteOff releases note if it is the held note. Releasing any other note
// is ignored and reports false.
func (b *Bridge) NoteOff(note int) bool {
	n, ok := NoteFromMIDI(note)
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if n != b.held {
		return false
	}
	if !b.pushLocked(GateEvent{Kind: GateRelease, Note: n}) {
		return false
	}
	b.held = NoNote
	b.params.setHeldNote(NoNote)
	return true
}

// AllNotesOff stops all sound: the voice decays from whatever stage it is in.
func (b *Bridge) AllNotesOff() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pushLocked(GateEvent{Kind: GateStopAll, Note: NoNote}) {
		return false
	}
	b.held = NoNote
	b.params.setHeldNote(NoNote)
	return true
}

func (b *Bridge) HeldNote() Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held
}

// Dropped counts gate events rejected because the queue was full.
func (b *Bridge) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *Bridge) pushLocked(ev GateEvent) bool {
	if b.gates.Push(ev) {
		return true
	}
	b.dropped++
	return false
}

// Poll reads every knob from src, plus the osc2 button when src has one.
func (b *Bridge) Poll(src KnobSource, now time.Time) {
	knobs := src.Knobs()
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, raw := range knobs {
		if math.IsNaN(raw) {
			continue
		}
		b.setKnobLocked(Knob(k), raw)
	}
	if bs, ok := src.(ButtonSource); ok {
		if b.button.Update(bs.Button(), now) {
			b.osc2 = !b.osc2
			b.params.setOsc2(b.osc2)
		}
	}
}

// Run polls src every interval until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context, src KnobSource, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	b.Poll(src, time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			b.Poll(src, now)
		}
	}
}

// CentsToRatio returns 2^(cents/1200).
func CentsToRatio(cents float64) float64 {
	if cents == 0 {
		return 1
	}
	return float64(approx.FastExp(float32(cents / 1200 * math.Ln2)))
}

// NoteToHz returns the equal-tempered frequency of a MIDI note, A4 = 440 Hz.
func NoteToHz(n Note) float64 {
	return 440 * float64(approx.FastExp(float32((float64(n)-69)/12*math.Ln2)))
}

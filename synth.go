package monosynth

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/monosynth-go/internal/audio"
	"github.com/cbegin/monosynth-go/internal/control"
	"github.com/cbegin/monosynth-go/internal/envelope"
	"github.com/cbegin/monosynth-go/internal/filter"
	"github.com/cbegin/monosynth-go/internal/voice"
)

var (
	ErrInvalidSampleRate = errors.New("sampleRate must be positive")
	ErrInvalidBlockSize  = errors.New("blockSize must be positive")
)

// DefaultBlockSize is the number of frames rendered per control snapshot.
const DefaultBlockSize = 128

type (
	Knob           = control.Knob
	KnobSource     = control.KnobSource
	EnvelopeParams = envelope.Params
	Backend        = intaudio.Backend
)

const (
	KnobCutoff    = control.KnobCutoff
	KnobResonance = control.KnobResonance
	KnobEnvDepth  = control.KnobEnvDepth
	KnobDetune    = control.KnobDetune

	BackendEbiten = intaudio.BackendEbiten
	BackendOto    = intaudio.BackendOto
)

type Option func(*config)

type config struct {
	blockSize    int
	envelope     EnvelopeParams
	filterOrder  int
	fallbackNote int
	backend      Backend
	sampleTap    func([]float32)
	control      control.Config
}

func defaultConfig() config {
	return config{
		blockSize:    DefaultBlockSize,
		envelope:     envelope.DefaultParams(),
		filterOrder:  filter.DefaultOrder,
		fallbackNote: 36,
		backend:      BackendEbiten,
		control:      control.DefaultConfig(),
	}
}

// WithBlockSize sets how many frames are rendered between control reads.
func WithBlockSize(frames int) Option {
	return func(cfg *config) {
		cfg.blockSize = frames
	}
}

func WithEnvelope(p EnvelopeParams) Option {
	return func(cfg *config) {
		cfg.envelope = p
	}
}

// WithFilterOrder sets the lowpass order; odd orders round up.
func WithFilterOrder(order int) Option {
	return func(cfg *config) {
		cfg.filterOrder = order
	}
}

// WithFallbackNote sets the pitch the oscillators idle at.
func WithFallbackNote(note int) Option {
	return func(cfg *config) {
		cfg.fallbackNote = note
	}
}

func WithBackend(b Backend) Option {
	return func(cfg *config) {
		cfg.backend = b
	}
}

// WithHysteresis sets the raw knob movement needed to republish a value.
func WithHysteresis(eps float64) Option {
	return func(cfg *config) {
		cfg.control.Hysteresis = eps
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) Option {
	return func(cfg *config) {
		cfg.sampleTap = tap
	}
}

// Synth is a monophonic subtractive voice with its control bridge.
//
// Render/Process belong to the audio context (one goroutine at a time, and
// not while Start is active). Note and knob methods belong to the control
// context and are safe to call from any goroutine. Display is safe anywhere.
type Synth struct {
	mu         sync.Mutex
	sampleRate int
	blockSize  int
	backend    Backend
	params     *control.Params
	gates      *control.GateQueue
	bridge     *control.Bridge
	voice      *voice.Voice
	sampleTap  func([]float32)
	masterGain atomic.Uint64
	out        intaudio.Output
}

func NewSynth(sampleRate int, opts ...Option) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.blockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	fallback, ok := control.NoteFromMIDI(cfg.fallbackNote)
	if !ok {
		fallback = 36
	}
	params := control.NewParams()
	gates := control.NewGateQueue()
	bridge := control.NewBridge(cfg.control, params, gates)
	v := voice.New(voice.Config{
		SampleRate:   float64(sampleRate),
		Envelope:     cfg.envelope,
		FilterOrder:  cfg.filterOrder,
		FallbackNote: fallback,
	}, params, gates)
	s := &Synth{
		sampleRate: sampleRate,
		blockSize:  cfg.blockSize,
		backend:    cfg.backend,
		params:     params,
		gates:      gates,
		bridge:     bridge,
		voice:      v,
		sampleTap:  cfg.sampleTap,
	}
	s.masterGain.Store(math.Float64bits(1))
	return s, nil
}

func (s *Synth) SampleRate() int { return s.sampleRate }
func (s *Synth) BlockSize() int  { return s.blockSize }

// Render fills out with interleaved stereo frames, split into BlockSize
// frames so controls are read at a fixed cadence.
func (s *Synth) Render(out []float32) {
	step := s.blockSize * 2
	gain := float32(math.Float64frombits(s.masterGain.Load()))
	for off := 0; off < len(out); off += step {
		end := off + step
		if end > len(out) {
			end = len(out)
		}
		blk := out[off:end]
		s.voice.Render(blk)
		if gain != 1 {
			for i := range blk {
				blk[i] *= gain
			}
		}
	}
	if s.sampleTap != nil {
		s.sampleTap(out)
	}
}

// Process implements the audio backends' sample source.
func (s *Synth) Process(dst []float32) { s.Render(dst) }

// NoteOn starts note (0..127). Velocity 0 releases it. It reports false for
// out-of-range notes or when the event could not be queued.
func (s *Synth) NoteOn(note, velocity int) bool { return s.bridge.NoteOn(note, velocity) }

// NoteOff releases note if it is the held note.
func (s *Synth) NoteOff(note int) bool { return s.bridge.NoteOff(note) }

// AllNotesOff stops all sound; the envelope decays from wherever it is.
func (s *Synth) AllNotesOff() bool { return s.bridge.AllNotesOff() }

// SetKnob publishes a raw 0..1 reading for k.
func (s *Synth) SetKnob(k Knob, raw float64) bool { return s.bridge.SetKnob(k, raw) }

// Knob returns the last published raw reading for k.
func (s *Synth) Knob(k Knob) float64 { return s.bridge.Knob(k) }

func (s *Synth) SetOsc2(on bool)       { s.bridge.SetOsc2(on) }
func (s *Synth) ToggleOsc2() bool      { return s.bridge.ToggleOsc2() }
func (s *Synth) HeldNote() int         { return int(s.bridge.HeldNote()) }
func (s *Synth) DroppedEvents() uint64 { return s.bridge.Dropped() }

// SetButton feeds a raw osc2 button sample; a debounced press toggles osc2.
func (s *Synth) SetButton(pressed bool, now time.Time) { s.bridge.SetButton(pressed, now) }

// Poll reads every knob from src once.
func (s *Synth) Poll(src KnobSource) { s.bridge.Poll(src, time.Now()) }

// Run polls src every interval until ctx is done.
func (s *Synth) Run(ctx context.Context, src KnobSource, interval time.Duration) error {
	return s.bridge.Run(ctx, src, interval)
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default.
func (s *Synth) SetMasterVolume(volume float64) {
	if volume < 0 || math.IsNaN(volume) {
		volume = 0
	}
	s.masterGain.Store(math.Float64bits(volume))
}

func (s *Synth) MasterVolume() float64 {
	return math.Float64frombits(s.masterGain.Load())
}

// Start opens the configured backend and begins real-time playback.
func (s *Synth) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out != nil {
		if !s.out.IsPlaying() {
			s.out.Play()
		}
		return nil
	}
	out, err := intaudio.Open(s.backend, s.sampleRate, s)
	if err != nil {
		return err
	}
	s.out = out
	s.out.Play()
	return nil
}

// Stop halts playback and releases the device stream.
func (s *Synth) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out == nil {
		return nil
	}
	err := s.out.Stop()
	s.out = nil
	return err
}

func (s *Synth) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out != nil && s.out.IsPlaying()
}

package osc

// Saw is a band-limited sawtooth oscillator. The discontinuity at the phase
// wrap is smoothed with a two-sample polynomial BLEP residual.
type Saw struct {
	sampleRate float64
	freq       float64
	incr       float64 // phase increment per sample
	phase      float64 // [0, 1)
	amp        float64
}

// NewSaw returns an oscillator initialized for sampleRate at 220 Hz, full scale.
func NewSaw(sampleRate float64) *Saw {
	s := &Saw{}
	s.Init(sampleRate)
	return s
}

// Init resets phase and amplitude for the given sample rate.
func (s *Saw) Init(sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	s.sampleRate = sampleRate
	s.phase = 0
	s.amp = 1
	s.SetFreq(220)
}

// SetFreq sets the oscillator frequency in Hz. The value is kept inside
// (0, sampleRate/2) so the increment stays below half a cycle per sample.
// Phase is left untouched.
func (s *Saw) SetFreq(hz float64) {
	nyquist := s.sampleRate / 2
	if hz <= 0 {
		hz = 1e-3
	}
	if hz >= nyquist {
		hz = nyquist * 0.999
	}
	s.freq = hz
	s.incr = hz / s.sampleRate
}

// SetAmp sets the output gain (0..1).
func (s *Saw) SetAmp(gain float64) {
	s.amp = gain
}

func (s *Saw) Freq() float64  { return s.freq }
func (s *Saw) Phase() float64 { return s.phase }
func (s *Saw) Amp() float64   { return s.amp }

// Reset zeros the phase.
func (s *Saw) Reset() {
	s.phase = 0
}

// Process advances one sample and returns a saw in [-amp, +amp].
func (s *Saw) Process() float64 {
	s.phase += s.incr
	if s.phase >= 1 {
		s.phase -= 1
	}
	value := 2*s.phase - 1
	value -= polyBLEP(s.phase, s.incr)
	return value * s.amp
}

func polyBLEP(t, dt float64) float64 {
	switch {
	case t < dt:
		x := t / dt
		return x + x - x*x - 1
	case t > 1-dt:
		x := (t - 1) / dt
		return x*x + x + x + 1
	default:
		return 0
	}
}

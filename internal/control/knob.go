package control

import (
	"fmt"
	"strings"
)

// Knob identifies one continuous control input.
type Knob int

const (
	KnobCutoff Knob = iota
	KnobResonance
	KnobEnvDepth
	KnobDetune
	NumKnobs
)

var knobNames = [NumKnobs]string{"cutoff", "resonance", "envdepth", "detune"}

func (k Knob) String() string {
	if k < 0 || k >= NumKnobs {
		return "knob(" + fmt.Sprint(int(k)) + ")"
	}
	return knobNames[k]
}

// ParseKnob resolves a knob by name. "res", "q", "depth" and "env" are
// accepted as aliases.
func ParseKnob(name string) (Knob, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cutoff", "freq":
		return KnobCutoff, nil
	case "resonance", "res", "q":
		return KnobResonance, nil
	case "envdepth", "depth", "env":
		return KnobEnvDepth, nil
	case "detune":
		return KnobDetune, nil
	default:
		return 0, fmt.Errorf("unknown knob %q (expected cutoff|resonance|envdepth|detune)", name)
	}
}

// DefaultPositions are the raw readings published before any input arrives.
func DefaultPositions() [NumKnobs]float64 {
	return [NumKnobs]float64{0.5, 0.43, 0.5, 0.5}
}

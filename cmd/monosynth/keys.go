package main

import "github.com/cbegin/monosynth-go"

// Piano rows: the home row plays the white keys, the row above the sharps.
var pianoKeys = map[byte]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12, 'o': 13, 'l': 14,
}

type actionKind int

const (
	actNone actionKind = iota
	actNoteOn
	actNoteOff
	actPanic
	actKnob
	actOsc2
	actQuit
)

type action struct {
	kind  actionKind
	note  int
	knob  monosynth.Knob
	value float64
}

const knobStep = 0.02

// keyboard turns raw terminal bytes into synth actions. A terminal reports no
// key-up events, so pressing the sounding key again releases it.
type keyboard struct {
	octave   int // base note of the 'a' key
	selected monosynth.Knob
	knobs    [4]float64
	sounding int
}

func newKeyboard(knobs [4]float64) *keyboard {
	return &keyboard{octave: 48, selected: monosynth.KnobCutoff, knobs: knobs, sounding: -1}
}

func (kb *keyboard) handle(b byte) action {
	if off, ok := pianoKeys[b]; ok {
		note := kb.octave + off
		if note > 127 {
			return action{}
		}
		if note == kb.sounding {
			kb.sounding = -1
			return action{kind: actNoteOff, note: note}
		}
		kb.sounding = note
		return action{kind: actNoteOn, note: note}
	}
	switch b {
	case ' ':
		if kb.sounding < 0 {
			return action{}
		}
		note := kb.sounding
		kb.sounding = -1
		return action{kind: actNoteOff, note: note}
	case 'p':
		kb.sounding = -1
		return action{kind: actPanic}
	case 'z':
		if kb.octave >= 12 {
			kb.octave -= 12
		}
	case 'x':
		if kb.octave <= 96 {
			kb.octave += 12
		}
	case '1', '2', '3', '4':
		kb.selected = monosynth.Knob(b - '1')
	case '[', '-':
		return kb.nudge(-knobStep)
	case ']', '=':
		return kb.nudge(knobStep)
	case 'v':
		return action{kind: actOsc2}
	case 'q', 3, 4: // q, ctrl-c, ctrl-d
		return action{kind: actQuit}
	}
	return action{}
}

func (kb *keyboard) nudge(delta float64) action {
	v := kb.knobs[kb.selected] + delta
	v = min(max(v, 0), 1)
	kb.knobs[kb.selected] = v
	return action{kind: actKnob, knob: kb.selected, value: v}
}

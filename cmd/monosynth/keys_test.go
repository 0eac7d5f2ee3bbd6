package main

import (
	"testing"

	"github.com/cbegin/monosynth-go"
)

func TestKeyboardNotes(t *testing.T) {
	kb := newKeyboard([4]float64{0.5, 0.5, 0.5, 0.5})
	steps := []struct {
		key  byte
		want action
	}{
		{'a', action{kind: actNoteOn, note: 48}},
		{'w', action{kind: actNoteOn, note: 49}},
		{'w', action{kind: actNoteOff, note: 49}},
		{' ', action{}},
		{'x', action{}},
		{'k', action{kind: actNoteOn, note: 72}},
		{' ', action{kind: actNoteOff, note: 72}},
		{'p', action{kind: actPanic}},
		{'q', action{kind: actQuit}},
	}
	for i, st := range steps {
		if got := kb.handle(st.key); got != st.want {
			t.Fatalf("step %d key %q: got %+v want %+v", i, st.key, got, st.want)
		}
	}
}

func TestKeyboardKnobs(t *testing.T) {
	kb := newKeyboard([4]float64{0.5, 0.99, 0.5, 0.5})
	kb.handle('2')
	got := kb.handle(']')
	if got.kind != actKnob || got.knob != monosynth.KnobResonance || got.value != 1 {
		t.Fatalf("got %+v, want resonance clamped to 1", got)
	}
	kb.handle('1')
	got = kb.handle('[')
	if got.knob != monosynth.KnobCutoff || got.value != 0.48 {
		t.Fatalf("got %+v, want cutoff 0.48", got)
	}
}

package control

import (
	"context"
	"math"
	"testing"
	"time"
)

func newTestBridge() (*Bridge, *Params, *GateQueue) {
	p := NewParams()
	q := NewGateQueue()
	return NewBridge(DefaultConfig(), p, q), p, q
}

func TestBridgePublishesDefaults(t *testing.T) {
	_, p, _ := newTestBridge()
	s := p.Load()
	wantCutoff := DefaultCurves()[KnobCutoff].Map(0.5)
	if math.Abs(s.CutoffHz-wantCutoff) > 1e-9 {
		t.Fatalf("cutoff=%v want %v", s.CutoffHz, wantCutoff)
	}
	if s.HeldNote != NoNote || s.Osc2 {
		t.Fatalf("unexpected initial snapshot %+v", s)
	}
	if s.DetuneCents != 0 || s.DetuneRatio != 1 {
		t.Fatalf("centered detune should be unity: %+v", s)
	}
}

func TestHysteresisSuppressesJitter(t *testing.T) {
	b, p, _ := newTestBridge()
	if !b.SetKnob(KnobCutoff, 0.2) {
		t.Fatalf("large move should publish")
	}
	published := p.Load().CutoffHz
	for _, raw := range []float64{0.201, 0.1995, 0.2019, 0.1981} {
		if b.SetKnob(KnobCutoff, raw) {
			t.Fatalf("jitter %v should be suppressed", raw)
		}
		if got := p.Load().CutoffHz; got != published {
			t.Fatalf("cutoff changed on jitter: %v -> %v", published, got)
		}
	}
	if !b.SetKnob(KnobCutoff, 0.203) {
		t.Fatalf("move beyond hysteresis should publish")
	}
	if p.Load().CutoffHz <= published {
		t.Fatalf("cutoff should increase")
	}
}

func TestSetKnobClampsAndMaps(t *testing.T) {
	b, p, _ := newTestBridge()
	b.SetKnob(KnobResonance, 2)
	b.SetKnob(KnobEnvDepth, -1)
	b.SetKnob(KnobDetune, 1)
	s := p.Load()
	if s.Resonance != ResonanceMax {
		t.Fatalf("resonance=%v want %v", s.Resonance, ResonanceMax)
	}
	if s.EnvDepthHz != 0 {
		t.Fatalf("depth=%v want 0", s.EnvDepthHz)
	}
	if s.DetuneCents != DetuneMaxCents {
		t.Fatalf("detune=%v want %v", s.DetuneCents, DetuneMaxCents)
	}
	want := math.Pow(2, DetuneMaxCents/1200)
	if math.Abs(s.DetuneRatio-want)/want > 0.005 {
		t.Fatalf("ratio=%v want ~%v", s.DetuneRatio, want)
	}
	if b.SetKnob(NumKnobs, 0.5) || b.SetKnob(KnobCutoff, math.NaN()) {
		t.Fatalf("invalid knob input should be rejected")
	}
}

func TestNoteEvents(t *testing.T) {
	b, p, q := newTestBridge()

	if b.NoteOn(128, 100) || b.NoteOn(-1, 100) {
		t.Fatalf("out-of-range notes should be rejected")
	}
	if q.Len() != 0 {
		t.Fatalf("rejected notes must not enqueue")
	}

	if !b.NoteOn(60, 100) {
		t.Fatalf("note on failed")
	}
	if p.Load().HeldNote != 60 {
		t.Fatalf("held note not published")
	}
	if ev, _ := q.Pop(); ev != (GateEvent{Kind: GateTrigger, Note: 60}) {
		t.Fatalf("unexpected event %+v", ev)
	}

	if b.NoteOff(61) {
		t.Fatalf("releasing a non-held note should be ignored")
	}
	if !b.NoteOn(60, 0) {
		t.Fatalf("velocity 0 should release the held note")
	}
	if ev, _ := q.Pop(); ev != (GateEvent{Kind: GateRelease, Note: 60}) {
		t.Fatalf("unexpected event %+v", ev)
	}
	if b.HeldNote() != NoNote || p.Load().HeldNote != NoNote {
		t.Fatalf("held note should clear on release")
	}

	b.NoteOn(64, 90)
	b.AllNotesOff()
	q.Pop()
	if ev, _ := q.Pop(); ev.Kind != GateStopAll {
		t.Fatalf("want stop-all, got %+v", ev)
	}
}

func TestNoteOnReportsOverflow(t *testing.T) {
	b, _, q := newTestBridge()
	for i := 0; i < GateQueueSize; i++ {
		if !b.NoteOn(40+i%60, 100) {
			t.Fatalf("note %d rejected before capacity", i)
		}
	}
	if b.NoteOn(60, 100) {
		t.Fatalf("note on with a full queue should report false")
	}
	if b.Dropped() != 1 {
		t.Fatalf("dropped=%d want 1", b.Dropped())
	}
	if q.Len() != GateQueueSize {
		t.Fatalf("len=%d", q.Len())
	}
}

type fakePanel struct {
	knobs  [NumKnobs]float64
	button bool
}

func (f *fakePanel) Knobs() [NumKnobs]float64 { return f.knobs }
func (f *fakePanel) Button() bool             { return f.button }

func TestPollReadsKnobsAndButton(t *testing.T) {
	b, p, _ := newTestBridge()
	panel := &fakePanel{knobs: [NumKnobs]float64{1, 0, 1, 0.5}}
	t0 := time.Unix(0, 0)
	b.Poll(panel, t0)
	s := p.Load()
	if s.CutoffHz != CutoffMaxHz || s.Resonance != ResonanceMin || s.EnvDepthHz != EnvDepthMaxHz {
		t.Fatalf("poll did not publish knobs: %+v", s)
	}

	panel.button = true
	b.Poll(panel, t0.Add(time.Millisecond))
	if p.Load().Osc2 {
		t.Fatalf("osc2 toggled before debounce interval")
	}
	b.Poll(panel, t0.Add(15*time.Millisecond))
	if !p.Load().Osc2 {
		t.Fatalf("osc2 should toggle after stable press")
	}
	b.Poll(panel, t0.Add(40*time.Millisecond))
	if !p.Load().Osc2 {
		t.Fatalf("held button must not toggle again")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	b, p, _ := newTestBridge()
	panel := &fakePanel{knobs: [NumKnobs]float64{0, 0, 0, 0}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, panel, time.Millisecond) }()
	deadline := time.Now().Add(2 * time.Second)
	for p.Load().CutoffHz != CutoffMinHz {
		if time.Now().After(deadline) {
			t.Fatalf("run never polled")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("err=%v want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
}

func TestNoteToHz(t *testing.T) {
	tests := []struct {
		note Note
		hz   float64
	}{
		{69, 440},
		{60, 261.6256},
		{36, 65.4064},
		{81, 880},
	}
	for _, tc := range tests {
		got := NoteToHz(tc.note)
		if math.Abs(got-tc.hz)/tc.hz > 0.005 {
			t.Errorf("NoteToHz(%d)=%v want ~%v", tc.note, got, tc.hz)
		}
	}
}

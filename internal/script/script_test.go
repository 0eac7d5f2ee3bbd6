package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cbegin/monosynth-go/internal/control"
)

type recorder struct {
	rate   int
	calls  []string
	frames int
}

func (r *recorder) NoteOn(note, velocity int) bool {
	r.calls = append(r.calls, "on "+strconv.Itoa(note)+" "+strconv.Itoa(velocity))
	return true
}

func (r *recorder) NoteOff(note int) bool {
	r.calls = append(r.calls, "off "+strconv.Itoa(note))
	return true
}

func (r *recorder) AllNotesOff() bool {
	r.calls = append(r.calls, "panic")
	return true
}

func (r *recorder) SetKnob(k control.Knob, raw float64) bool {
	r.calls = append(r.calls, "knob "+k.String())
	return true
}

func (r *recorder) SetOsc2(on bool) {
	if on {
		r.calls = append(r.calls, "osc2 on")
	} else {
		r.calls = append(r.calls, "osc2 off")
	}
}

func (r *recorder) Render(out []float32) {
	r.calls = append(r.calls, "render "+strconv.Itoa(len(out)/2))
	r.frames += len(out) / 2
	for i := range out {
		out[i] = 0.5
	}
}

func (r *recorder) SampleRate() int { return r.rate }

func TestRunDrivesTargetInOrder(t *testing.T) {
	rec := &recorder{rate: 1000}
	src := `
knob("cutoff", 0.25)
osc2(true)
note_on(60)
wait(0.1)
note_off(60)
for i = 1, 2 do
  note_on(60 + i, 90)
  wait(0.05)
end
panic()
wait(0.2)
`
	out, err := NewRunner(rec).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{
		"knob cutoff", "osc2 on", "on 60 100", "render 100", "off 60",
		"on 61 90", "render 50", "on 62 90", "render 50", "panic", "render 200",
	}
	if strings.Join(rec.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls\n got %v\nwant %v", rec.calls, want)
	}
	if len(out) != 400*2 {
		t.Fatalf("rendered %d samples, want %d", len(out), 800)
	}
	if out[len(out)-1] != 0.5 {
		t.Fatalf("output not filled by target")
	}
}

func TestRunWrapsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "note_on(60"},
		{"range", "note_on(200)"},
		{"knob", `knob("volume", 1)`},
		{"wait", "wait(-1)"},
		{"runtime", "error('boom')"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRunner(&recorder{rate: 1000}).Run(context.Background(), tc.src)
			if !errors.Is(err, ErrScript) {
				t.Fatalf("err=%v want ErrScript", err)
			}
		})
	}
}

func TestRunEnforcesLengthLimit(t *testing.T) {
	r := NewRunner(&recorder{rate: 1000})
	r.MaxSeconds = 1
	_, err := r.Run(context.Background(), "wait(0.6) wait(0.6)")
	if !errors.Is(err, ErrScript) || !strings.Contains(err.Error(), "limit") {
		t.Fatalf("err=%v want length limit", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(&recorder{rate: 1000}).Run(ctx, "while true do end")
	if err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riff.lua")
	if err := os.WriteFile(path, []byte("note_on(sample_rate == 1000 and 40 or 41) wait(0.01)"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec := &recorder{rate: 1000}
	out, err := NewRunner(rec).RunFile(context.Background(), path)
	if err != nil {
		t.Fatalf("run file: %v", err)
	}
	if rec.calls[0] != "on 40 100" || len(out) != 20 {
		t.Fatalf("calls=%v len=%d", rec.calls, len(out))
	}
	if _, err := NewRunner(rec).RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

// Package script drives a synth from a small Lua performance script.
//
//	knob("cutoff", 0.3)
//	note_on(48, 100)
//	wait(0.5)
//	note_off(48)
//	wait(1)
//
// wait renders audio; everything else queues control changes that the next
// rendered block picks up.
package script

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/cbegin/monosynth-go/internal/control"
)

// ErrScript wraps every failure raised while loading or running a script.
var ErrScript = errors.New("script error")

// DefaultMaxSeconds caps the total rendered length.
const DefaultMaxSeconds = 600.0

// Target is the synth surface a script can drive.
type Target interface {
	NoteOn(note, velocity int) bool
	NoteOff(note int) bool
	AllNotesOff() bool
	SetKnob(k control.Knob, raw float64) bool
	SetOsc2(on bool)
	Render(out []float32)
	SampleRate() int
}

type Runner struct {
	target     Target
	MaxSeconds float64

	out []float32
}

func NewRunner(target Target) *Runner {
	return &Runner{target: target, MaxSeconds: DefaultMaxSeconds}
}

// RunFile loads and runs a script from disk.
func (r *Runner) RunFile(ctx context.Context, path string) ([]float32, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, string(src))
}

// Run executes src and returns the interleaved stereo audio its wait calls
// rendered.
func (r *Runner) Run(ctx context.Context, src string) ([]float32, error) {
	r.out = r.out[:0]
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	if ctx != nil {
		L.SetContext(ctx)
	}
	r.register(L)
	if err := L.DoString(src); err != nil {
		return r.out, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return r.out, nil
}

func (r *Runner) register(L *lua.LState) {
	L.SetGlobal("note_on", L.NewFunction(r.luaNoteOn))
	L.SetGlobal("note_off", L.NewFunction(r.luaNoteOff))
	L.SetGlobal("panic", L.NewFunction(r.luaPanic))
	L.SetGlobal("knob", L.NewFunction(r.luaKnob))
	L.SetGlobal("osc2", L.NewFunction(r.luaOsc2))
	L.SetGlobal("wait", L.NewFunction(r.luaWait))
	L.SetGlobal("sample_rate", lua.LNumber(r.target.SampleRate()))
}

func (r *Runner) luaNoteOn(L *lua.LState) int {
	note := L.CheckInt(1)
	vel := L.OptInt(2, 100)
	if note < int(control.MinNote) || note > int(control.MaxNote) {
		L.ArgError(1, fmt.Sprintf("note %d out of range 0..127", note))
		return 0
	}
	L.Push(lua.LBool(r.target.NoteOn(note, vel)))
	return 1
}

func (r *Runner) luaNoteOff(L *lua.LState) int {
	L.Push(lua.LBool(r.target.NoteOff(L.CheckInt(1))))
	return 1
}

func (r *Runner) luaPanic(L *lua.LState) int {
	L.Push(lua.LBool(r.target.AllNotesOff()))
	return 1
}

func (r *Runner) luaKnob(L *lua.LState) int {
	k, err := control.ParseKnob(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	raw := float64(L.CheckNumber(2))
	L.Push(lua.LBool(r.target.SetKnob(k, raw)))
	return 1
}

func (r *Runner) luaOsc2(L *lua.LState) int {
	r.target.SetOsc2(L.CheckBool(1))
	return 0
}

func (r *Runner) luaWait(L *lua.LState) int {
	sec := float64(L.CheckNumber(1))
	if sec < 0 || math.IsNaN(sec) {
		L.ArgError(1, "wait needs a non-negative duration")
		return 0
	}
	rate := r.target.SampleRate()
	total := float64(len(r.out)/2)/float64(rate) + sec
	if r.MaxSeconds > 0 && total > r.MaxSeconds {
		L.RaiseError("script renders %.1fs, limit is %.1fs", total, r.MaxSeconds)
		return 0
	}
	frames := int(math.Round(sec * float64(rate)))
	start := len(r.out)
	r.out = append(r.out, make([]float32, frames*2)...)
	r.target.Render(r.out[start:])
	return 0
}

package envelope

import (
	"math"
	"testing"
)

func TestNextTransitions(t *testing.T) {
	for _, tc := range []struct {
		from Stage
		ev   Event
		want Stage
	}{
		{Idle, EventTrigger, Attack},
		{Attack, EventTrigger, Attack},
		{Hold, EventTrigger, Attack},
		{Decay, EventTrigger, Attack},
		{Idle, EventRelease, Idle},
		{Attack, EventRelease, Decay},
		{Hold, EventRelease, Decay},
		{Decay, EventRelease, Decay},
		{Idle, EventForceDecay, Decay},
		{Attack, EventForceDecay, Decay},
		{Hold, EventForceDecay, Decay},
		{Attack, EventPeak, Hold},
		{Hold, EventPeak, Hold},
		{Decay, EventFloor, Idle},
		{Attack, EventFloor, Attack},
	} {
		if got := Next(tc.from, tc.ev); got != tc.want {
			t.Errorf("Next(%v, %d) = %v, want %v", tc.from, tc.ev, got, tc.want)
		}
	}
}

func TestAttackAndDecayTerminate(t *testing.T) {
	const sr = 48000.0
	for _, curve := range []float64{0, 3, -3} {
		p := Params{AttackSec: 0.01, DecaySec: 0.25, Curve: curve}
		e := New(sr, p)
		e.Trigger()

		attackBound := int(math.Ceil(p.AttackSec*sr)) + 2
		n := 0
		for e.Stage() == Attack {
			e.Process()
			n++
			if n > attackBound {
				t.Fatalf("curve=%v: attack did not reach hold within %d samples", curve, attackBound)
			}
		}
		if e.Stage() != Hold || e.Output() != 1 {
			t.Fatalf("curve=%v: expected hold at 1.0, got %v at %f", curve, e.Stage(), e.Output())
		}

		for i := 0; i < 1000; i++ {
			if e.Process() != 1 {
				t.Fatalf("curve=%v: hold must pin output at 1", curve)
			}
		}

		e.Release()
		decayBound := int(math.Ceil(p.DecaySec*sr)) + 2
		n = 0
		for e.Stage() == Decay {
			e.Process()
			n++
			if n > decayBound {
				t.Fatalf("curve=%v: decay did not reach idle within %d samples", curve, decayBound)
			}
		}
		if e.Stage() != Idle || e.Output() != 0 {
			t.Fatalf("curve=%v: expected idle at 0, got %v at %f", curve, e.Stage(), e.Output())
		}
	}
}

func TestRetriggerDuringDecayContinuesUpward(t *testing.T) {
	for _, curve := range []float64{0, 2.5, -2.5} {
		e := New(48000, Params{AttackSec: 0.01, DecaySec: 0.25, Curve: curve})
		e.Trigger()
		for e.Stage() != Hold {
			e.Process()
		}
		e.Release()
		for i := 0; i < 3000; i++ {
			e.Process()
		}
		level := e.Output()
		if level <= 0.01 || level >= 1 {
			t.Fatalf("curve=%v: expected mid-decay level, got %f", curve, level)
		}
		e.Trigger()
		if e.Stage() != Attack {
			t.Fatalf("curve=%v: trigger should enter attack, got %v", curve, e.Stage())
		}
		next := e.Process()
		if next < level {
			t.Fatalf("curve=%v: retrigger dropped from %f to %f", curve, level, next)
		}
		prev := next
		for e.Stage() == Attack {
			v := e.Process()
			if v < prev {
				t.Fatalf("curve=%v: attack not monotonic: %f after %f", curve, v, prev)
			}
			prev = v
		}
	}
}

func TestReleaseIgnoredWhenIdle(t *testing.T) {
	e := New(48000, DefaultParams())
	e.Release()
	if e.Stage() != Idle {
		t.Fatalf("release from idle should stay idle, got %v", e.Stage())
	}
	if v := e.Process(); v != 0 {
		t.Fatalf("idle output should be 0, got %f", v)
	}
}

func TestForceDecayFromAttack(t *testing.T) {
	e := New(48000, DefaultParams())
	e.Trigger()
	for i := 0; i < 100; i++ {
		e.Process()
	}
	level := e.Output()
	e.ForceDecay()
	if e.Stage() != Decay {
		t.Fatalf("expected decay, got %v", e.Stage())
	}
	if v := e.Process(); v >= level {
		t.Fatalf("decay should fall from %f, got %f", level, v)
	}
}

func TestOutputStaysNormalized(t *testing.T) {
	e := New(44100, Params{AttackSec: 0.002, DecaySec: 0.004, Curve: 5})
	for cycle := 0; cycle < 20; cycle++ {
		e.Trigger()
		for i := 0; i < 50+cycle*7; i++ {
			if v := e.Process(); v < 0 || v > 1 {
				t.Fatalf("output out of range: %f", v)
			}
		}
		e.Release()
		for i := 0; i < 30+cycle*5; i++ {
			if v := e.Process(); v < 0 || v > 1 {
				t.Fatalf("output out of range: %f", v)
			}
		}
	}
}

func TestSetParamsClampsTimes(t *testing.T) {
	e := New(48000, Params{AttackSec: 0, DecaySec: -1})
	p := e.Params()
	if p.AttackSec <= 0 || p.DecaySec <= 0 {
		t.Fatalf("times must be floored to positive values: %+v", p)
	}
	e.Trigger()
	for i := 0; i < 100 && e.Stage() == Attack; i++ {
		e.Process()
	}
	if e.Stage() != Hold {
		t.Fatalf("minimal attack should finish quickly, stage=%v", e.Stage())
	}
}

package envelope

// Stage is the envelope state.
type Stage int32

const (
	Idle Stage = iota
	Attack
	Hold
	Decay
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Hold:
		return "hold"
	case Decay:
		return "decay"
	default:
		return "unknown"
	}
}

// Event drives stage transitions.
type Event int

const (
	// EventTrigger starts (or restarts) the attack ramp.
	EventTrigger Event = iota
	// EventRelease is a note-off.
	EventRelease
	// EventForceDecay silences the voice from any stage.
	EventForceDecay
	// EventPeak fires when the attack ramp crosses the top threshold.
	EventPeak
	// EventFloor fires when the decay ramp crosses the bottom threshold.
	EventFloor
)

// Next is the stage transition function. Events that do not apply to the
// current stage leave it unchanged.
func Next(s Stage, ev Event) Stage {
	switch ev {
	case EventTrigger:
		return Attack
	case EventForceDecay:
		return Decay
	case EventRelease:
		if s == Attack || s == Hold {
			return Decay
		}
	case EventPeak:
		if s == Attack {
			return Hold
		}
	case EventFloor:
		if s == Decay {
			return Idle
		}
	}
	return s
}

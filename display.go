package monosynth

import (
	"fmt"
	"math"
)

// DisplayState is the read-only view shown to the player.
type DisplayState struct {
	Note        string // sounding note name, or "none"
	CutoffHz    int
	FilterHz    int     // cutoff after envelope modulation
	Resonance   float64 // rounded to two decimals
	EnvDepthHz  int
	Osc2        bool
	Stage       string
	Level       float64
	DetuneCents float64
}

// Display reads the current control snapshot and voice status. It never
// blocks the audio context.
func (s *Synth) Display() DisplayState {
	snap := s.params.Load()
	st := s.voice.Status()
	return DisplayState{
		Note:        st.Note.String(),
		CutoffHz:    int(math.Round(snap.CutoffHz)),
		FilterHz:    int(math.Round(st.CutoffHz)),
		Resonance:   math.Round(snap.Resonance*100) / 100,
		EnvDepthHz:  int(math.Round(snap.EnvDepthHz)),
		Osc2:        snap.Osc2,
		Stage:       st.Stage.String(),
		Level:       st.Level,
		DetuneCents: snap.DetuneCents,
	}
}

func (d DisplayState) String() string {
	osc2 := "off"
	if d.Osc2 {
		osc2 = fmt.Sprintf("on %+.1fc", d.DetuneCents)
	}
	return fmt.Sprintf("note %-4s cutoff %5dHz  res %.2f  env %4dHz  osc2 %-9s %-6s %.2f",
		d.Note, d.CutoffHz, d.Resonance, d.EnvDepthHz, osc2, d.Stage, d.Level)
}

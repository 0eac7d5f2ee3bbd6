package control

import "strconv"

// Note is a MIDI note number. NoNote marks "nothing held/sounding".
type Note int32

const (
	NoNote  Note = -1
	MinNote Note = 0
	MaxNote Note = 127
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteFromMIDI validates a raw note number from the event boundary.
func NoteFromMIDI(n int) (Note, bool) {
	if n < int(MinNote) || n > int(MaxNote) {
		return NoNote, false
	}
	return Note(n), true
}

func (n Note) Valid() bool {
	return n >= MinNote && n <= MaxNote
}

// String returns the scientific pitch name (60 = "C4") or "none".
func (n Note) String() string {
	if !n.Valid() {
		return "none"
	}
	octave := int(n)/12 - 1
	return noteNames[int(n)%12] + strconv.Itoa(octave)
}

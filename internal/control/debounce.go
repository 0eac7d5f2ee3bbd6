package control

import "time"

// DefaultDebounce is how long a raw button level must hold before it counts.
const DefaultDebounce = 10 * time.Millisecond

// Debouncer turns noisy raw button samples into clean press edges.
type Debouncer struct {
	Stable time.Duration

	raw     bool
	state   bool
	changed time.Time
	primed  bool
}

// Update feeds one raw sample taken at now. It reports true exactly once per
// debounced press (released -> pressed).
func (d *Debouncer) Update(pressed bool, now time.Time) bool {
	stable := d.Stable
	if stable <= 0 {
		stable = DefaultDebounce
	}
	if !d.primed {
		d.primed = true
		d.raw = pressed
		d.state = pressed
		d.changed = now
		return false
	}
	if pressed != d.raw {
		d.raw = pressed
		d.changed = now
		return false
	}
	if d.raw == d.state || now.Sub(d.changed) < stable {
		return false
	}
	d.state = d.raw
	return d.state
}

// Pressed is the current debounced level.
func (d *Debouncer) Pressed() bool {
	return d.state
}

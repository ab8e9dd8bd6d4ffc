package input

import "time"

// DefaultChordWindow is the maximum delay between the right and the left
// press of a finish chord.
const DefaultChordWindow = 300 * time.Millisecond

// Chord detects a right press followed by a left press within a window.
type Chord struct {
	window   time.Duration
	rightAt  time.Time
	down     bool
	armed    bool
	consumed bool
}

func NewChord(window time.Duration) *Chord {
	return &Chord{window: window}
}

// RightDown arms the chord.
func (c *Chord) RightDown(at time.Time) {
	c.rightAt = at
	c.down = true
	c.armed = true
	c.consumed = false
}

// LeftDown reports whether this press completes the chord. Any left press
// made while the right button is held consumes the right press, even
// one that comes too late to count as a chord.
func (c *Chord) LeftDown(at time.Time) bool {
	if !c.armed {
		return false
	}
	c.armed = false
	c.consumed = true
	d := at.Sub(c.rightAt)
	return d >= 0 && d <= c.window
}

// RightUp ends the right press and reports whether it was a plain press
// seen by RightDown and not part of a chord.
func (c *Chord) RightUp() bool {
	plain := c.down && !c.consumed
	c.down = false
	c.armed = false
	c.consumed = false
	return plain
}

// Reset disarms the chord.
func (c *Chord) Reset() {
	c.down = false
	c.armed = false
	c.consumed = false
}

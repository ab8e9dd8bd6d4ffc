package input

import "time"

// DefaultThrottle limits pointer moves to roughly 100 per second.
const DefaultThrottle = 10 * time.Millisecond

// Throttle rate-limits pointer moves. A dropped move is kept so the caller
// can replay it before the pointer is released; a drag must never end on
// a stale position.
type Throttle struct {
	interval time.Duration
	last     time.Time
	pending  *PointerMove
}

// NewThrottle returns a throttle passing at most one move per interval.
// A non-positive interval passes everything.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Allow reports whether the move at time at should be processed now.
func (t *Throttle) Allow(ev PointerMove, at time.Time) bool {
	if t.interval <= 0 || t.last.IsZero() || at.Sub(t.last) >= t.interval || at.Before(t.last) {
		t.last = at
		t.pending = nil
		return true
	}
	t.pending = &ev
	return false
}

// Flush returns the last dropped move, if any, and forgets it.
func (t *Throttle) Flush() (PointerMove, bool) {
	if t.pending == nil {
		return PointerMove{}, false
	}
	ev := *t.pending
	t.pending = nil
	return ev, true
}

// Reset forgets the rate state.
func (t *Throttle) Reset() {
	t.last = time.Time{}
	t.pending = nil
}

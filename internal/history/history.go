// Package history keeps the linear undo/redo stacks of full store
// snapshots.
package history

import (
	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

// Entry is a full snapshot of the shape list plus the canvas pan offset.
// Panning is undoable, so it shares the history with shape edits.
type Entry struct {
	Shapes     []annotation.Annotation `json:"shapes"`
	ViewOffset geometry.Point          `json:"viewOffset"`
}

// Clone deep-copies the entry.
func (e Entry) Clone() Entry {
	return Entry{Shapes: annotation.CloneAll(e.Shapes), ViewOffset: e.ViewOffset}
}

// History is a pair of undo and redo stacks. A zero limit keeps every
// entry; otherwise the oldest undo entries are dropped past the limit.
type History struct {
	undo  []Entry
	redo  []Entry
	limit int
}

// New returns an empty history holding at most limit undo entries.
func New(limit int) *History {
	return &History{limit: limit}
}

// Record pushes the pre-mutation state and clears the redo stack.
func (h *History) Record(before Entry) {
	h.undo = append(h.undo, before.Clone())
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// Undo pops the latest snapshot and pushes current onto the redo stack.
func (h *History) Undo(current Entry) (Entry, bool) {
	if len(h.undo) == 0 {
		return Entry{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return prev, true
}

// Redo pops the latest redo snapshot and pushes current onto the undo
// stack.
func (h *History) Redo(current Entry) (Entry, bool) {
	if len(h.redo) == 0 {
		return Entry{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return next, true
}

// Reset drops both stacks.
func (h *History) Reset() {
	h.undo, h.redo = nil, nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

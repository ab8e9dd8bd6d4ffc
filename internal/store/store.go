// Package store owns the ordered annotation list of one editing session,
// together with its selection, undo/redo history and the canvas pan
// offset.
//
// Shapes are identified by their index. Indices are not stable across
// removals; the store keeps its own selection consistent, callers holding
// indices must re-read them after any structural edit.
package store

import (
	"log/slog"
	"slices"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
	"github.com/inamate/annotator/internal/history"
	"github.com/inamate/annotator/internal/selection"
)

// Options tunes a Store.
type Options struct {
	// MaxHistory caps the undo stack; zero keeps everything.
	MaxHistory int
}

// Store is not safe for concurrent use. It belongs to exactly one engine.
type Store struct {
	shapes     []annotation.Annotation
	selection  selection.Set
	history    *history.History
	viewOffset geometry.Point

	width, height float64
	sinks         []Sink
}

// New returns an empty store. Shapes cannot be added until SetBounds has
// supplied the image size.
func New(opts Options) *Store {
	return &Store{history: history.New(opts.MaxHistory)}
}

// Subscribe registers a sink notified after every committed mutation.
func (s *Store) Subscribe(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// SetBounds sets the image size. Shapes already present (for example
// loaded before the image finished decoding) are clipped to the new
// bounds; this does not create a history entry.
func (s *Store) SetBounds(w, h float64) {
	if w <= 0 || h <= 0 {
		slog.Debug("ignoring invalid image bounds", "width", w, "height", h)
		return
	}
	s.width, s.height = w, h
	if len(s.shapes) == 0 {
		return
	}

	var removed []int
	for i, a := range s.shapes {
		clipped, ok := annotation.ClipToBoundary(a, w, h)
		if !ok {
			removed = append(removed, i)
			continue
		}
		s.shapes[i] = clipped
	}
	s.removeAt(removed)
	s.notify()
}

// Bounds returns the image size. ok is false until SetBounds was called.
func (s *Store) Bounds() (w, h float64, ok bool) {
	return s.width, s.height, s.width > 0 && s.height > 0
}

// Len returns the number of shapes.
func (s *Store) Len() int { return len(s.shapes) }

// At returns a copy of the shape at index i.
func (s *Store) At(i int) (annotation.Annotation, bool) {
	if !s.valid(i) {
		return annotation.Annotation{}, false
	}
	return s.shapes[i].Clone(), true
}

// Shapes returns a deep copy of the shape list.
func (s *Store) Shapes() []annotation.Annotation {
	return annotation.CloneAll(s.shapes)
}

// Load replaces the shape list wholesale, for example with a saved
// snapshot. History and selection are reset.
func (s *Store) Load(shapes []annotation.Annotation) {
	s.shapes = nil
	for _, a := range shapes {
		if _, _, ok := s.Bounds(); ok {
			clipped, ok := annotation.ClipToBoundary(a, s.width, s.height)
			if !ok {
				continue
			}
			a = clipped
		} else if !a.Valid() {
			continue
		}
		s.shapes = append(s.shapes, a.Clone())
	}
	s.history.Reset()
	s.selection.Clear()
	s.notify()
}

// Add clips a and appends it. ok is false when the image bounds are not
// known yet or the shape clipped to nothing.
func (s *Store) Add(a annotation.Annotation) (int, bool) {
	clipped, ok := s.clip(a)
	if !ok {
		slog.Debug("add dropped", "kind", a.Kind)
		return -1, false
	}
	s.record()
	s.shapes = append(s.shapes, clipped)
	s.notify()
	return len(s.shapes) - 1, true
}

// Update merges p into the shape at index i and re-clips it. A shape that
// clips to nothing is removed from the list.
func (s *Store) Update(i int, p annotation.Patch) bool {
	return s.UpdateMany([]int{i}, []annotation.Patch{p})
}

// UpdateMany applies patches[k] to indices[k] as one history entry.
// Shapes that clip to nothing are removed after all patches are applied.
func (s *Store) UpdateMany(indices []int, patches []annotation.Patch) bool {
	n := min(len(indices), len(patches))
	if _, _, ok := s.Bounds(); !ok {
		return false
	}

	updated := false
	for k := 0; k < n; k++ {
		if s.valid(indices[k]) {
			updated = true
			break
		}
	}
	if !updated {
		slog.Debug("update ignored", "indices", indices)
		return false
	}

	s.record()
	var removed []int
	for k := 0; k < n; k++ {
		i := indices[k]
		if !s.valid(i) || slices.Contains(removed, i) {
			continue
		}
		clipped, ok := s.clip(s.shapes[i].Apply(patches[k]))
		if !ok {
			removed = append(removed, i)
			continue
		}
		s.shapes[i] = clipped
	}
	s.removeAt(removed)
	s.notify()
	return true
}

// Delete removes the shape at index i.
func (s *Store) Delete(i int) bool {
	return s.DeleteMany([]int{i})
}

// DeleteMany removes the shapes at indices as one history entry.
func (s *Store) DeleteMany(indices []int) bool {
	var removed []int
	for _, i := range indices {
		if s.valid(i) && !slices.Contains(removed, i) {
			removed = append(removed, i)
		}
	}
	if len(removed) == 0 {
		return false
	}
	s.record()
	s.removeAt(removed)
	s.notify()
	return true
}

// Copy deep-copies the shapes at indices, in the order given.
func (s *Store) Copy(indices []int) []annotation.Annotation {
	var out []annotation.Annotation
	for _, i := range indices {
		if s.valid(i) {
			out = append(out, s.shapes[i].Clone())
		}
	}
	return out
}

// Paste appends copies of clipboard moved by (dx, dy), selects them and
// returns their indices. Copies that clip to nothing are skipped.
func (s *Store) Paste(clipboard []annotation.Annotation, dx, dy float64) []int {
	var added []annotation.Annotation
	for _, a := range clipboard {
		if clipped, ok := s.clip(a.Translate(geometry.Pt(dx, dy))); ok {
			added = append(added, clipped)
		}
	}
	if len(added) == 0 {
		return nil
	}

	s.record()
	indices := make([]int, len(added))
	for k, a := range added {
		indices[k] = len(s.shapes)
		s.shapes = append(s.shapes, a)
	}
	s.selection.Commit(indices, selection.Replace)
	s.notify()
	return indices
}

// Undo restores the previous snapshot. The selection is cleared because
// indices may no longer name the same shapes.
func (s *Store) Undo() bool {
	prev, ok := s.history.Undo(s.entry())
	if !ok {
		return false
	}
	s.restore(prev)
	return true
}

// Redo re-applies the last undone snapshot.
func (s *Store) Redo() bool {
	next, ok := s.history.Redo(s.entry())
	if !ok {
		return false
	}
	s.restore(next)
	return true
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// ViewOffset returns the canvas pan offset recorded with the history.
func (s *Store) ViewOffset() geometry.Point { return s.viewOffset }

// SetViewOffset moves the pan offset without touching the history; used
// while a pan drag is in progress.
func (s *Store) SetViewOffset(p geometry.Point) {
	s.viewOffset = p
}

// CommitPan records a finished pan from `from` to `to` as one undoable
// action.
func (s *Store) CommitPan(from, to geometry.Point) bool {
	if from == to {
		s.viewOffset = to
		return false
	}
	before := s.entry()
	before.ViewOffset = from
	s.history.Record(before)
	s.viewOffset = to
	return true
}

// Selection returns the selected indices, primary first.
func (s *Store) Selection() []int { return s.selection.Indices() }

// Primary returns the primary selected index.
func (s *Store) Primary() (int, bool) { return s.selection.Primary() }

// IsSelected reports whether index i is selected.
func (s *Store) IsSelected(i int) bool { return s.selection.Contains(i) }

// Select makes i the only selected shape.
func (s *Store) Select(i int) {
	s.SelectMany([]int{i}, selection.Replace)
}

// SelectMany commits indices to the selection with the given mode.
// Out-of-range indices are ignored.
func (s *Store) SelectMany(indices []int, mode selection.Mode) {
	valid := slices.DeleteFunc(slices.Clone(indices), func(i int) bool { return !s.valid(i) })
	s.selection.Commit(valid, mode)
}

// ToggleSelect flips the selection state of i.
func (s *Store) ToggleSelect(i int) {
	if s.valid(i) {
		s.selection.Toggle(i)
	}
}

// SelectAll selects every shape in list order.
func (s *Store) SelectAll() {
	all := make([]int, len(s.shapes))
	for i := range all {
		all[i] = i
	}
	s.selection.Commit(all, selection.Replace)
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() { s.selection.Clear() }

func (s *Store) valid(i int) bool {
	return i >= 0 && i < len(s.shapes)
}

func (s *Store) clip(a annotation.Annotation) (annotation.Annotation, bool) {
	w, h, ok := s.Bounds()
	if !ok {
		return annotation.Annotation{}, false
	}
	return annotation.ClipToBoundary(a, w, h)
}

func (s *Store) entry() history.Entry {
	return history.Entry{Shapes: s.shapes, ViewOffset: s.viewOffset}
}

func (s *Store) record() {
	s.history.Record(s.entry())
}

func (s *Store) restore(e history.Entry) {
	s.shapes = e.Shapes
	s.viewOffset = e.ViewOffset
	s.selection.Clear()
	s.notify()
}

// removeAt deletes the shapes at removed and reindexes the selection.
// Every structural removal goes through here.
func (s *Store) removeAt(removed []int) {
	if len(removed) == 0 {
		return
	}
	desc := slices.Clone(removed)
	slices.Sort(desc)
	desc = slices.Compact(desc)
	slices.Reverse(desc)
	for _, i := range desc {
		s.shapes = slices.Delete(s.shapes, i, i+1)
	}
	s.selection.Remove(desc)
}

func (s *Store) notify() {
	for _, sink := range s.sinks {
		sink.AnnotationsChanged(annotation.CloneAll(s.shapes))
	}
}

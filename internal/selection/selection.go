// Package selection tracks which shapes are selected and finds shapes
// under a marquee rectangle.
//
// Shapes are identified by their position in the store's dense list, so
// every structural removal must be followed by Set.Remove to keep the
// selected indices pointing at the same shapes.
package selection

import "slices"

// Mode decides how a new selection combines with the current one.
type Mode int

const (
	// Replace discards the current selection.
	Replace Mode = iota
	// Append adds to the current selection, skipping duplicates.
	Append
)

// Set is an ordered, duplicate-free list of selected indices. The first
// element is the primary selection used by single-target operations.
type Set struct {
	indices []int
}

// Primary returns the first selected index.
func (s *Set) Primary() (int, bool) {
	if len(s.indices) == 0 {
		return -1, false
	}
	return s.indices[0], true
}

// Indices returns a copy of the selected indices in selection order.
func (s *Set) Indices() []int {
	return slices.Clone(s.indices)
}

// Sorted returns the selected indices in ascending order.
func (s *Set) Sorted() []int {
	out := slices.Clone(s.indices)
	slices.Sort(out)
	return out
}

func (s *Set) Len() int { return len(s.indices) }

func (s *Set) Contains(i int) bool {
	return slices.Contains(s.indices, i)
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.indices = nil
}

// Commit applies indices with the given mode.
func (s *Set) Commit(indices []int, mode Mode) {
	if mode == Replace {
		s.indices = nil
	}
	for _, i := range indices {
		if i >= 0 && !s.Contains(i) {
			s.indices = append(s.indices, i)
		}
	}
}

// Toggle adds i when absent and removes it otherwise.
func (s *Set) Toggle(i int) {
	if idx := slices.Index(s.indices, i); idx >= 0 {
		s.indices = slices.Delete(s.indices, idx, idx+1)
		return
	}
	if i >= 0 {
		s.indices = append(s.indices, i)
	}
}

// Remove updates the selection after the shapes at removed were deleted
// from the list: indices equal to a removed one are dropped and every
// other index is shifted down by the number of removed indices below it.
func (s *Set) Remove(removed []int) {
	if len(removed) == 0 || len(s.indices) == 0 {
		return
	}
	out := s.indices[:0]
	for _, i := range s.indices {
		if i, ok := Shift(i, removed); ok {
			out = append(out, i)
		}
	}
	s.indices = out
}

// Limit drops indices at or beyond n.
func (s *Set) Limit(n int) {
	s.indices = slices.DeleteFunc(s.indices, func(i int) bool { return i >= n })
}

// Shift maps index i through the removal of removed. ok is false when i
// itself was removed.
func Shift(i int, removed []int) (int, bool) {
	below := 0
	for _, r := range removed {
		switch {
		case r == i:
			return -1, false
		case r < i:
			below++
		}
	}
	return i - below, true
}

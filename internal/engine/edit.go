package engine

import (
	"log/slog"
	"slices"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

// InsertMidpoint inserts a vertex halfway along the edge from vertex v of
// shape i to the next vertex. Polygons wrap around; on the last vertex of
// a polyline the edge to the previous vertex is split instead.
func (e *Engine) InsertMidpoint(i, v int) bool {
	a, ok := e.store.At(i)
	if !ok || !a.Kind.IsPath() || v < 0 || v >= len(a.Points) {
		return false
	}
	n := len(a.Points)
	next := v + 1
	switch {
	case next < n:
	case a.Kind == annotation.KindPolygon:
		next = 0
	default:
		v, next = v-1, v
	}
	if v < 0 {
		return false
	}

	mid := geometry.Midpoint(a.Points[v], a.Points[next])
	points := slices.Insert(geometry.ClonePoints(a.Points), v+1, mid)
	return e.store.Update(i, annotation.Patch{Points: points})
}

// DeleteVertex removes vertex v of shape i, deleting the whole shape when
// it would fall below its minimum point count.
func (e *Engine) DeleteVertex(i, v int) bool {
	a, ok := e.store.At(i)
	if !ok || !a.Kind.IsPath() || v < 0 || v >= len(a.Points) {
		return false
	}
	if len(a.Points)-1 < annotation.MinPoints(a.Kind) {
		slog.Debug("vertex delete removes shape", "shape", i, "kind", a.Kind)
		return e.store.Delete(i)
	}
	points := slices.Delete(geometry.ClonePoints(a.Points), v, v+1)
	return e.store.Update(i, annotation.Patch{Points: points})
}

// DeleteSelection removes every selected shape.
func (e *Engine) DeleteSelection() bool {
	return e.store.DeleteMany(e.store.Selection())
}

// Copy puts the selected shapes on the clipboard.
func (e *Engine) Copy() int {
	e.clipboard = e.store.Copy(e.store.Selection())
	return len(e.clipboard)
}

// Paste adds the clipboard offset by PasteOffset and selects the copies.
// The clipboard follows the pasted shapes so that repeated pastes
// cascade.
func (e *Engine) Paste() bool {
	if len(e.clipboard) == 0 {
		return false
	}
	off := e.opts.PasteOffset
	added := e.store.Paste(e.clipboard, off, off)
	if len(added) == 0 {
		return false
	}
	e.clipboard = e.store.Copy(added)
	return true
}

// moveHandle returns a with handle h moved to p. Path handles are points;
// box handles are corners and resize the box against the opposite corner.
func moveHandle(a annotation.Annotation, h int, p geometry.Point) annotation.Annotation {
	out := a.Clone()
	switch a.Kind {
	case annotation.KindPolygon, annotation.KindPolyline:
		if h >= 0 && h < len(out.Points) {
			out.Points[h] = p
		}
	case annotation.KindBBox:
		corners := a.Handles()
		if h < 0 || h >= len(corners) {
			return out
		}
		r := geometry.RectFromPoints(corners[(h+2)%4], p).Normalize()
		out.X, out.Y, out.Width, out.Height = r.X1, r.Y1, r.Width(), r.Height()
	}
	return out
}

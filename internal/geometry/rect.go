package geometry

import "math"

// Rect is an axis-aligned rectangle given by two corners. Most functions
// expect a normalized rect (X1 <= X2, Y1 <= Y2); call Normalize when the
// corners come from a drag in an arbitrary direction.
type Rect struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// RectFromPoints returns the normalized rect spanned by a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}.Normalize()
}

// ImageRect returns the image boundary [0,w]×[0,h].
func ImageRect(w, h float64) Rect {
	return Rect{X1: 0, Y1: 0, X2: w, Y2: h}
}

// Normalize orders the corners so that X1 <= X2 and Y1 <= Y2.
func (r Rect) Normalize() Rect {
	return Rect{
		X1: math.Min(r.X1, r.X2),
		Y1: math.Min(r.Y1, r.Y2),
		X2: math.Max(r.X1, r.X2),
		Y2: math.Max(r.Y1, r.Y2),
	}
}

// Width returns X2 - X1.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height returns Y2 - Y1.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// IsEmpty reports whether the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether p lies inside the rect or on its edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X1 >= r.X1 && o.X2 <= r.X2 && o.Y1 >= r.Y1 && o.Y2 <= r.Y2
}

// Intersects reports whether r and o overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return !(r.X2 < o.X1 || r.X1 > o.X2 || r.Y2 < o.Y1 || r.Y1 > o.Y2)
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
		X2: math.Max(r.X2, o.X2),
		Y2: math.Max(r.Y2, o.Y2),
	}
}

// Clamp moves p to the closest point inside the rect.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.X1), r.X2),
		Y: math.Min(math.Max(p.Y, r.Y1), r.Y2),
	}
}

// Center returns the centre point of the rect.
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Corners returns the four corners clockwise from the top-left one.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X1, Y: r.Y1},
		{X: r.X2, Y: r.Y1},
		{X: r.X2, Y: r.Y2},
		{X: r.X1, Y: r.Y2},
	}
}

// Edges returns the four boundary segments, top, right, bottom, left.
func (r Rect) Edges() [4][2]Point {
	c := r.Corners()
	return [4][2]Point{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
}

// Bounds returns the bounding rect of points. ok is false for an empty
// slice.
func Bounds(points []Point) (r Rect, ok bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	r = Rect{X1: points[0].X, Y1: points[0].Y, X2: points[0].X, Y2: points[0].Y}
	for _, p := range points[1:] {
		r.X1 = math.Min(r.X1, p.X)
		r.Y1 = math.Min(r.Y1, p.Y)
		r.X2 = math.Max(r.X2, p.X)
		r.Y2 = math.Max(r.Y2, p.Y)
	}
	return r, true
}

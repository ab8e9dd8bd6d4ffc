// Package annotation defines the vector shapes drawn over an image and the
// shape-level geometry kernel: bounding boxes, boundary tests, clipping,
// hit testing and measurements.
package annotation

import (
	"encoding/json"
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

type Kind string

const (
	KindBBox     Kind = "bbox"
	KindEllipse  Kind = "ellipse"
	KindPolygon  Kind = "polygon"
	KindPolyline Kind = "polyline"
)

// DefaultOpacity is applied to shapes that do not carry an opacity.
const DefaultOpacity = 1.0

// Annotation is a tagged variant over the supported shapes. Which geometry
// fields are meaningful depends on Kind:
//
//	bbox      X, Y, Width, Height (top-left corner and size)
//	ellipse   X, Y, RadiusX, RadiusY, Rotation (centre, radii, degrees)
//	polygon   Points (closed ring, at least 3), Holes
//	polyline  Points (open path, at least 2)
type Annotation struct {
	Kind     Kind               `json:"type"`
	X        float64            `json:"x,omitempty"`
	Y        float64            `json:"y,omitempty"`
	Width    float64            `json:"width,omitempty"`
	Height   float64            `json:"height,omitempty"`
	RadiusX  float64            `json:"radiusX,omitempty"`
	RadiusY  float64            `json:"radiusY,omitempty"`
	Rotation float64            `json:"rotation,omitempty"`
	Points   []geometry.Point   `json:"points,omitempty"`
	Holes    [][]geometry.Point `json:"holes,omitempty"`
	Label    string             `json:"label"`
	Color    string             `json:"color"`
	Opacity  float64            `json:"opacity"`
}

// UnmarshalJSON fills in DefaultOpacity when the document omits it.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	type plain Annotation
	p := plain{Opacity: DefaultOpacity}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Annotation(p)
	return nil
}

// NewBBox returns a box with its top-left corner at (x, y).
func NewBBox(x, y, width, height float64) Annotation {
	return Annotation{Kind: KindBBox, X: x, Y: y, Width: width, Height: height, Opacity: DefaultOpacity}
}

// NewEllipse returns an axis-aligned ellipse centred on (cx, cy).
func NewEllipse(cx, cy, rx, ry float64) Annotation {
	return Annotation{Kind: KindEllipse, X: cx, Y: cy, RadiusX: rx, RadiusY: ry, Opacity: DefaultOpacity}
}

// NewPolygon returns a closed ring through points.
func NewPolygon(points ...geometry.Point) Annotation {
	return Annotation{Kind: KindPolygon, Points: geometry.ClonePoints(points), Opacity: DefaultOpacity}
}

// NewPolyline returns an open path through points.
func NewPolyline(points ...geometry.Point) Annotation {
	return Annotation{Kind: KindPolyline, Points: geometry.ClonePoints(points), Opacity: DefaultOpacity}
}

// MinPoints returns the minimum vertex count for point-based kinds and 0
// for the others.
func MinPoints(k Kind) int {
	switch k {
	case KindPolygon:
		return 3
	case KindPolyline:
		return 2
	default:
		return 0
	}
}

// IsPath reports whether the kind is defined by a point list.
func (k Kind) IsPath() bool {
	return k == KindPolygon || k == KindPolyline
}

// Clone returns a deep copy; points and holes are copied, not shared.
func (a Annotation) Clone() Annotation {
	out := a
	out.Points = geometry.ClonePoints(a.Points)
	if a.Holes != nil {
		out.Holes = make([][]geometry.Point, len(a.Holes))
		for i, h := range a.Holes {
			out.Holes[i] = geometry.ClonePoints(h)
		}
	}
	return out
}

// CloneAll deep-copies a shape list.
func CloneAll(shapes []Annotation) []Annotation {
	if shapes == nil {
		return nil
	}
	out := make([]Annotation, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// Translate returns a copy moved by d.
func (a Annotation) Translate(d geometry.Point) Annotation {
	out := a.Clone()
	switch a.Kind {
	case KindBBox, KindEllipse:
		out.X += d.X
		out.Y += d.Y
	case KindPolygon, KindPolyline:
		out.Points = geometry.Translate(a.Points, d)
		for i, h := range a.Holes {
			out.Holes[i] = geometry.Translate(h, d)
		}
	}
	return out
}

// Normalized returns a bbox with non-negative width and height. Other
// kinds are returned unchanged.
func (a Annotation) Normalized() Annotation {
	if a.Kind != KindBBox {
		return a
	}
	if a.Width < 0 {
		a.X += a.Width
		a.Width = -a.Width
	}
	if a.Height < 0 {
		a.Y += a.Height
		a.Height = -a.Height
	}
	return a
}

// Valid reports whether the shape is well formed: known kind, finite
// coordinates and enough points.
func (a Annotation) Valid() bool {
	finite := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	switch a.Kind {
	case KindBBox:
		return finite(a.X, a.Y, a.Width, a.Height)
	case KindEllipse:
		return finite(a.X, a.Y, a.RadiusX, a.RadiusY, a.Rotation)
	case KindPolygon, KindPolyline:
		if len(a.Points) < MinPoints(a.Kind) {
			return false
		}
		for _, p := range a.Points {
			if !p.IsFinite() {
				return false
			}
		}
		for _, h := range a.Holes {
			for _, p := range h {
				if !p.IsFinite() {
					return false
				}
			}
		}
		return true
	default:
		return false
	}
}

// Handles returns the editable vertices of a shape: the points of a path,
// or the four corners of a box clockwise from top-left. Ellipses have none.
func (a Annotation) Handles() []geometry.Point {
	switch a.Kind {
	case KindPolygon, KindPolyline:
		return geometry.ClonePoints(a.Points)
	case KindBBox:
		n := a.Normalized()
		c := geometry.Rect{X1: n.X, Y1: n.Y, X2: n.X + n.Width, Y2: n.Y + n.Height}.Corners()
		return c[:]
	default:
		return nil
	}
}

package annotation

import (
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

// BoundingBox returns the axis-aligned bounds of a shape. The ellipse box
// accounts for rotation. ok is false for unknown kinds and empty paths.
func BoundingBox(a Annotation) (geometry.Rect, bool) {
	switch a.Kind {
	case KindBBox:
		return geometry.Rect{X1: a.X, Y1: a.Y, X2: a.X + a.Width, Y2: a.Y + a.Height}.Normalize(), true
	case KindEllipse:
		hw, hh := ellipseHalfExtents(a)
		return geometry.Rect{X1: a.X - hw, Y1: a.Y - hh, X2: a.X + hw, Y2: a.Y + hh}, true
	case KindPolygon, KindPolyline:
		r, ok := geometry.Bounds(a.Points)
		if !ok {
			return geometry.Rect{}, false
		}
		for _, h := range a.Holes {
			if hr, ok := geometry.Bounds(h); ok {
				r = r.Union(hr)
			}
		}
		return r, true
	default:
		return geometry.Rect{}, false
	}
}

func ellipseHalfExtents(a Annotation) (hw, hh float64) {
	rx, ry := math.Abs(a.RadiusX), math.Abs(a.RadiusY)
	if math.Mod(a.Rotation, 360) == 0 {
		return rx, ry
	}
	rad := a.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw = math.Sqrt(rx*rx*cos*cos + ry*ry*sin*sin)
	hh = math.Sqrt(rx*rx*sin*sin + ry*ry*cos*cos)
	return hw, hh
}

// IsPartiallyOutside reports whether any part of the shape's bounding box
// extends beyond [0,w]×[0,h].
func IsPartiallyOutside(a Annotation, w, h float64) bool {
	b, ok := BoundingBox(a)
	if !ok {
		return false
	}
	return !geometry.ImageRect(w, h).ContainsRect(b)
}

// IsFullyOutside reports whether the shape's bounding box lies entirely
// beyond [0,w]×[0,h].
func IsFullyOutside(a Annotation, w, h float64) bool {
	b, ok := BoundingBox(a)
	if !ok {
		return true
	}
	return b.X2 < 0 || b.Y2 < 0 || b.X1 > w || b.Y1 > h
}

// UnionBounds returns the combined bounding box of shapes.
func UnionBounds(shapes []Annotation) (geometry.Rect, bool) {
	var out geometry.Rect
	found := false
	for _, s := range shapes {
		b, ok := BoundingBox(s)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
		} else {
			out = out.Union(b)
		}
	}
	return out, found
}

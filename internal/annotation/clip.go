package annotation

import (
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

// maxFitSteps bounds the rounding fix-up loops below.
const maxFitSteps = 64

// ClipToBoundary restricts a shape to the image rectangle [0,w]×[0,h].
// The result is either fully inside the rectangle (ok true) or the shape
// was discarded (ok false): boxes and ellipses that shrink to nothing,
// polygons left with fewer than 3 points and polylines left with fewer
// than 2. A shape that is already inside comes back as an unchanged deep
// copy (boxes are normalized), so clipping twice equals clipping once.
//
// Polygon holes are clipped like the outer ring; holes that collapse are
// dropped.
func ClipToBoundary(a Annotation, w, h float64) (Annotation, bool) {
	if w <= 0 || h <= 0 || !a.Valid() {
		return Annotation{}, false
	}
	a = a.Normalized()
	if !IsPartiallyOutside(a, w, h) {
		if a.Kind == KindBBox && (a.Width <= 0 || a.Height <= 0) {
			return Annotation{}, false
		}
		if a.Kind == KindEllipse && (a.RadiusX <= 0 || a.RadiusY <= 0) {
			return Annotation{}, false
		}
		return a.Clone(), true
	}

	switch a.Kind {
	case KindBBox:
		return clipBBox(a, w, h)
	case KindEllipse:
		return clipEllipse(a, w, h)
	case KindPolygon:
		return clipPolygon(a, w, h)
	case KindPolyline:
		return clipPolyline(a, w, h)
	}
	return Annotation{}, false
}

func clipBBox(a Annotation, w, h float64) (Annotation, bool) {
	x1, y1 := math.Max(a.X, 0), math.Max(a.Y, 0)
	x2, y2 := math.Min(a.X+a.Width, w), math.Min(a.Y+a.Height, h)
	if x2-x1 <= 0 || y2-y1 <= 0 {
		return Annotation{}, false
	}
	out := a.Clone()
	out.X, out.Y = x1, y1
	out.Width = fitSpan(x1, x2-x1, w)
	out.Height = fitSpan(y1, y2-y1, h)
	return out, out.Width > 0 && out.Height > 0
}

// fitSpan shrinks length by the smallest representable steps until
// start+length no longer exceeds limit.
func fitSpan(start, length, limit float64) float64 {
	for i := 0; i < maxFitSteps && start+length > limit; i++ {
		length = math.Nextafter(length, 0)
	}
	return length
}

func clipEllipse(a Annotation, w, h float64) (Annotation, bool) {
	b, _ := BoundingBox(a)
	x1, y1 := math.Max(b.X1, 0), math.Max(b.Y1, 0)
	x2, y2 := math.Min(b.X2, w), math.Min(b.Y2, h)
	if x2-x1 <= 0 || y2-y1 <= 0 {
		return Annotation{}, false
	}

	out := a.Clone()
	out.X, out.Y = (x1+x2)/2, (y1+y2)/2
	nhw, nhh := (x2-x1)/2, (y2-y1)/2

	switch math.Mod(math.Abs(a.Rotation), 180) {
	case 0:
		out.RadiusX, out.RadiusY = nhw, nhh
	case 90:
		out.RadiusX, out.RadiusY = nhh, nhw
	default:
		hw, hh := ellipseHalfExtents(a)
		s := math.Min(nhw/hw, nhh/hh)
		out.RadiusX, out.RadiusY = math.Abs(a.RadiusX)*s, math.Abs(a.RadiusY)*s
	}

	for i := 0; i < maxFitSteps && IsPartiallyOutside(out, w, h); i++ {
		out.RadiusX = math.Nextafter(out.RadiusX, 0)
		out.RadiusY = math.Nextafter(out.RadiusY, 0)
	}
	if out.RadiusX <= 0 || out.RadiusY <= 0 || IsPartiallyOutside(out, w, h) {
		return Annotation{}, false
	}
	return out, true
}

func clipPolygon(a Annotation, w, h float64) (Annotation, bool) {
	r := geometry.ImageRect(w, h)
	ring := geometry.ClipPolygon(a.Points, r)
	if len(ring) < MinPoints(KindPolygon) {
		return Annotation{}, false
	}
	out := a.Clone()
	out.Points = ring
	out.Holes = nil
	for _, hole := range a.Holes {
		if clipped := geometry.ClipPolygon(hole, r); len(clipped) >= 3 {
			out.Holes = append(out.Holes, clipped)
		}
	}
	return out, true
}

func clipPolyline(a Annotation, w, h float64) (Annotation, bool) {
	path := geometry.ClipPolyline(a.Points, geometry.ImageRect(w, h))
	if len(path) < MinPoints(KindPolyline) {
		return Annotation{}, false
	}
	out := a.Clone()
	out.Points = path
	return out, true
}

// MeetsMinimumSize reports whether a finished box or ellipse is large
// enough to keep. Boxes must be wider and taller than min; ellipse radii
// must each be at least min. Path kinds always pass.
func MeetsMinimumSize(a Annotation, min float64) bool {
	switch a.Kind {
	case KindBBox:
		n := a.Normalized()
		return n.Width > min && n.Height > min
	case KindEllipse:
		return math.Abs(a.RadiusX) >= min && math.Abs(a.RadiusY) >= min
	default:
		return true
	}
}

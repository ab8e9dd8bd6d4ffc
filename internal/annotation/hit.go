package annotation

import (
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

// Contains reports whether p hits the shape. Filled kinds test their
// interior; polylines test distance to the path against tol.
func Contains(a Annotation, p geometry.Point, tol float64) bool {
	switch a.Kind {
	case KindBBox:
		b, _ := BoundingBox(a)
		return b.Contains(p)
	case KindEllipse:
		rx, ry := math.Abs(a.RadiusX), math.Abs(a.RadiusY)
		if rx == 0 || ry == 0 {
			return false
		}
		// Rotate p into the ellipse's own frame.
		local := geometry.Rotation(-a.Rotation).Apply(p.Sub(geometry.Pt(a.X, a.Y)))
		dx, dy := local.X/rx, local.Y/ry
		return dx*dx+dy*dy <= 1
	case KindPolygon:
		if !geometry.PointInPolygon(p, a.Points) {
			return false
		}
		for _, h := range a.Holes {
			if geometry.PointInPolygon(p, h) {
				return false
			}
		}
		return true
	case KindPolyline:
		for i := 1; i < len(a.Points); i++ {
			if geometry.PointSegmentDistance(p, a.Points[i-1], a.Points[i]) <= tol {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// NearestHandle returns the index of the handle closest to p when it lies
// within radius, or -1.
func NearestHandle(a Annotation, p geometry.Point, radius float64) int {
	idx, dist := geometry.NearestPoint(p, a.Handles())
	if idx < 0 || dist > radius {
		return -1
	}
	return idx
}

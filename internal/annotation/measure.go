package annotation

import (
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

// Area returns the enclosed area of a shape. Polygon holes are subtracted;
// polylines have no area.
func Area(a Annotation) float64 {
	switch a.Kind {
	case KindBBox:
		return math.Abs(a.Width * a.Height)
	case KindEllipse:
		return math.Pi * math.Abs(a.RadiusX*a.RadiusY)
	case KindPolygon:
		area := geometry.Area(a.Points)
		for _, h := range a.Holes {
			area -= geometry.Area(h)
		}
		return math.Max(area, 0)
	default:
		return 0
	}
}

// Perimeter returns the outline length of a shape; for polylines this is
// the path length. Polygon holes are not included.
func Perimeter(a Annotation) float64 {
	switch a.Kind {
	case KindBBox:
		return 2 * (math.Abs(a.Width) + math.Abs(a.Height))
	case KindEllipse:
		return geometry.EllipsePerimeter(a.RadiusX, a.RadiusY)
	case KindPolygon:
		return geometry.Perimeter(a.Points)
	case KindPolyline:
		return geometry.PathLength(a.Points)
	default:
		return 0
	}
}

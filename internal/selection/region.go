package selection

import (
	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

// FindShapesInRegion returns the indices, in list order, of the shapes
// touched by rect. Boxes and ellipses are tested by bounding-box overlap
// (the ellipse box is an approximation). Paths are selected when a vertex
// lies inside rect or an edge crosses one of its sides; polygons also test
// their closing edge.
func FindShapesInRegion(shapes []annotation.Annotation, rect geometry.Rect) []int {
	rect = rect.Normalize()
	var out []int
	for i, s := range shapes {
		if intersects(s, rect) {
			out = append(out, i)
		}
	}
	return out
}

func intersects(s annotation.Annotation, rect geometry.Rect) bool {
	switch s.Kind {
	case annotation.KindBBox, annotation.KindEllipse:
		b, ok := annotation.BoundingBox(s)
		return ok && b.Intersects(rect)
	case annotation.KindPolygon, annotation.KindPolyline:
		pts := s.Points
		for _, p := range pts {
			if rect.Contains(p) {
				return true
			}
		}
		for i := 1; i < len(pts); i++ {
			if geometry.SegmentIntersectsRect(pts[i-1], pts[i], rect) {
				return true
			}
		}
		if s.Kind == annotation.KindPolygon && len(pts) > 2 {
			return geometry.SegmentIntersectsRect(pts[len(pts)-1], pts[0], rect)
		}
		return false
	default:
		return false
	}
}

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

func TestFindShapesInRegion(t *testing.T) {
	shapes := []annotation.Annotation{
		annotation.NewBBox(10, 10, 20, 20),
		annotation.NewBBox(200, 200, 20, 20),
		annotation.NewEllipse(70, 70, 30, 30),
		// Polyline with one vertex inside and the rest outside.
		annotation.NewPolyline(geometry.Pt(25, 25), geometry.Pt(300, 25), geometry.Pt(300, 300)),
		// Polygon whose edges cross the marquee but whose vertices are all outside.
		annotation.NewPolygon(geometry.Pt(-50, 20), geometry.Pt(100, 20), geometry.Pt(100, 30)),
		// Polygon reaching the marquee only through its closing edge.
		annotation.NewPolygon(geometry.Pt(100, 40), geometry.Pt(100, 200), geometry.Pt(-50, 40)),
		annotation.NewPolyline(geometry.Pt(80, 80), geometry.Pt(90, 90)),
	}
	rect := geometry.Rect{X1: 0, Y1: 0, X2: 50, Y2: 50}

	assert.Equal(t, []int{0, 2, 3, 4, 5}, FindShapesInRegion(shapes, rect))
}

func TestFindShapesInRegionSingleVertexInside(t *testing.T) {
	line := annotation.NewPolyline(geometry.Pt(25, 25), geometry.Pt(80, 90), geometry.Pt(120, 60))
	got := FindShapesInRegion([]annotation.Annotation{line}, geometry.Rect{X1: 0, Y1: 0, X2: 50, Y2: 50})
	assert.Equal(t, []int{0}, got)
}

func TestFindShapesInRegionReversedRect(t *testing.T) {
	shapes := []annotation.Annotation{annotation.NewBBox(10, 10, 5, 5)}
	got := FindShapesInRegion(shapes, geometry.Rect{X1: 50, Y1: 50, X2: 0, Y2: 0})
	assert.Equal(t, []int{0}, got)
}

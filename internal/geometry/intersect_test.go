package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Point
		want           bool
	}{
		{"cross", Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0), true},
		{"touching end", Pt(0, 0), Pt(5, 5), Pt(5, 5), Pt(10, 0), true},
		{"disjoint", Pt(0, 0), Pt(1, 1), Pt(5, 0), Pt(6, -1), false},
		{"parallel", Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1), false},
		{"collinear overlap", Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsIntersect(tt.p1, tt.p2, tt.p3, tt.p4))
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	assert.True(t, PointInPolygon(Pt(5, 5), square))
	assert.False(t, PointInPolygon(Pt(15, 5), square))

	// Concave "U": the notch is outside.
	u := []Point{Pt(0, 0), Pt(30, 0), Pt(30, 30), Pt(20, 30), Pt(20, 10), Pt(10, 10), Pt(10, 30), Pt(0, 30)}
	assert.False(t, PointInPolygon(Pt(15, 20), u))
	assert.True(t, PointInPolygon(Pt(5, 20), u))
}

func TestPointSegmentDistance(t *testing.T) {
	assert.InDelta(t, 5, PointSegmentDistance(Pt(5, 5), Pt(0, 0), Pt(10, 0)), 1e-12)
	assert.InDelta(t, 5, PointSegmentDistance(Pt(-3, 4), Pt(0, 0), Pt(10, 0)), 1e-12)
	assert.InDelta(t, 5, PointSegmentDistance(Pt(3, 4), Pt(0, 0), Pt(0, 0)), 1e-12)
}

func TestNearestPoint(t *testing.T) {
	idx, d := NearestPoint(Pt(9, 1), []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)})
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 1.4142, d, 1e-3)

	idx, _ = NearestPoint(Pt(0, 0), nil)
	assert.Equal(t, -1, idx)
}

func TestMeasures(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	assert.InDelta(t, 100, Area(square), 1e-12)
	assert.InDelta(t, 40, Perimeter(square), 1e-12)
	assert.InDelta(t, 30, PathLength(square), 1e-12)
	assert.InDelta(t, 2*3.14159265*5, EllipsePerimeter(5, 5), 1e-4)
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translation(40, -12).Multiply(Scaling(2.5, 2.5)).Multiply(Rotation(30))
	inv, ok := m.Invert()
	assert.True(t, ok)

	p := Pt(17, 3)
	back := inv.Apply(m.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.True(t, m.Multiply(inv).IsIdentity())

	_, ok = Scaling(0, 1).Invert()
	assert.False(t, ok)
}

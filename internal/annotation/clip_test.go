package annotation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/annotator/internal/geometry"
)

func randomShape(rng *rand.Rand) Annotation {
	coord := func() float64 { return rng.Float64()*400 - 100 }
	switch rng.Intn(4) {
	case 0:
		return NewBBox(coord(), coord(), rng.Float64()*300-150, rng.Float64()*300-150)
	case 1:
		e := NewEllipse(coord(), coord(), 1+rng.Float64()*120, 1+rng.Float64()*120)
		e.Rotation = float64(rng.Intn(8)) * 45 * rng.Float64()
		return e
	case 2:
		pts := make([]geometry.Point, 3+rng.Intn(6))
		for i := range pts {
			pts[i] = geometry.Pt(coord(), coord())
		}
		p := NewPolygon(pts...)
		if rng.Intn(2) == 0 {
			c := pts[0]
			p.Holes = [][]geometry.Point{{c, c.Add(geometry.Pt(10, 0)), c.Add(geometry.Pt(5, 8))}}
		}
		return p
	default:
		pts := make([]geometry.Point, 2+rng.Intn(6))
		for i := range pts {
			pts[i] = geometry.Pt(coord(), coord())
		}
		return NewPolyline(pts...)
	}
}

func TestClipToBoundaryProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		a := randomShape(rng)
		w, h := 50+rng.Float64()*250, 50+rng.Float64()*250

		clipped, ok := ClipToBoundary(a, w, h)
		if !ok {
			continue
		}
		require.False(t, IsPartiallyOutside(clipped, w, h), "shape %d (%s) still outside: %+v", i, a.Kind, clipped)

		again, ok := ClipToBoundary(clipped, w, h)
		require.True(t, ok, "shape %d lost on second clip", i)
		require.Equal(t, clipped, again, "shape %d not idempotent", i)
	}
}

func TestClipToBoundary(t *testing.T) {
	const w, h = 100, 100

	t.Run("bbox clamps edges", func(t *testing.T) {
		got, ok := ClipToBoundary(NewBBox(-10, 20, 50, 100), w, h)
		require.True(t, ok)
		assert.Equal(t, 0.0, got.X)
		assert.Equal(t, 20.0, got.Y)
		assert.Equal(t, 40.0, got.Width)
		assert.Equal(t, 80.0, got.Height)
	})

	t.Run("bbox normalizes reversed drag", func(t *testing.T) {
		got, ok := ClipToBoundary(NewBBox(5, 5, -8, -8), w, h)
		require.True(t, ok)
		assert.Equal(t, NewBBox(0, 0, 5, 5), got)
	})

	t.Run("bbox fully outside", func(t *testing.T) {
		_, ok := ClipToBoundary(NewBBox(120, 10, 30, 30), w, h)
		assert.False(t, ok)
	})

	t.Run("ellipse clamps radii", func(t *testing.T) {
		got, ok := ClipToBoundary(NewEllipse(90, 50, 20, 10), w, h)
		require.True(t, ok)
		assert.InDelta(t, 85, got.X, 1e-9)
		assert.InDelta(t, 15, got.RadiusX, 1e-9)
		assert.InDelta(t, 10, got.RadiusY, 1e-9)
	})

	t.Run("polygon becomes too small", func(t *testing.T) {
		_, ok := ClipToBoundary(NewPolygon(geometry.Pt(-10, -10), geometry.Pt(-5, -10), geometry.Pt(-5, -5)), w, h)
		assert.False(t, ok)
	})

	t.Run("polygon with too few points", func(t *testing.T) {
		_, ok := ClipToBoundary(NewPolygon(geometry.Pt(10, 10), geometry.Pt(20, 20)), w, h)
		assert.False(t, ok)
	})

	t.Run("polygon holes are clipped", func(t *testing.T) {
		p := NewPolygon(geometry.Pt(-20, 10), geometry.Pt(80, 10), geometry.Pt(80, 90), geometry.Pt(-20, 90))
		p.Holes = [][]geometry.Point{
			{geometry.Pt(-10, 20), geometry.Pt(10, 20), geometry.Pt(10, 40), geometry.Pt(-10, 40)},
			{geometry.Pt(-15, 50), geometry.Pt(-5, 50), geometry.Pt(-5, 60)},
		}
		got, ok := ClipToBoundary(p, w, h)
		require.True(t, ok)
		require.Len(t, got.Holes, 1)
		for _, pt := range got.Holes[0] {
			assert.GreaterOrEqual(t, pt.X, 0.0)
		}
	})

	t.Run("unknown bounds", func(t *testing.T) {
		_, ok := ClipToBoundary(NewBBox(10, 10, 20, 20), 0, 0)
		assert.False(t, ok)
	})

	t.Run("inside is a deep copy", func(t *testing.T) {
		line := NewPolyline(geometry.Pt(10, 10), geometry.Pt(20, 20))
		got, ok := ClipToBoundary(line, w, h)
		require.True(t, ok)
		got.Points[0].X = 99
		assert.Equal(t, 10.0, line.Points[0].X)
	})
}

func TestBoundaryTests(t *testing.T) {
	assert.False(t, IsPartiallyOutside(NewBBox(0, 0, 100, 100), 100, 100))
	assert.True(t, IsPartiallyOutside(NewBBox(-1, 0, 10, 10), 100, 100))
	assert.False(t, IsFullyOutside(NewBBox(-1, 0, 10, 10), 100, 100))
	assert.True(t, IsFullyOutside(NewBBox(101, 0, 10, 10), 100, 100))

	rotated := NewEllipse(50, 50, 40, 10)
	rotated.Rotation = 90
	b, ok := BoundingBox(rotated)
	require.True(t, ok)
	assert.InDelta(t, 10, b.Width()/2, 1e-9)
	assert.InDelta(t, 40, b.Height()/2, 1e-9)
}

func TestMeetsMinimumSize(t *testing.T) {
	assert.False(t, MeetsMinimumSize(NewBBox(0, 0, 5, 5), 5))
	assert.True(t, MeetsMinimumSize(NewBBox(0, 0, 6, -6), 5))
	assert.True(t, MeetsMinimumSize(NewEllipse(0, 0, 5, 5), 5))
	assert.False(t, MeetsMinimumSize(NewEllipse(0, 0, 5, 4.9), 5))
	assert.True(t, MeetsMinimumSize(NewPolyline(geometry.Pt(0, 0), geometry.Pt(1, 1)), 5))
}

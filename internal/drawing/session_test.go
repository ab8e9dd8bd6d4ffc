package drawing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.SimplifyEpsilon = 0
	return opts
}

func TestBBoxReversedDragNormalizes(t *testing.T) {
	s := NewSession(testOptions())
	require.True(t, s.Start(ToolBBox, geometry.Pt(5, 5), Style{Label: "car", Color: "#ff0000"}))
	s.Continue(geometry.Pt(-3, -3))

	preview, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, 8.0, preview.Width)

	got, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, -3.0, got.X)
	assert.Equal(t, -3.0, got.Y)
	assert.Equal(t, 8.0, got.Width)
	assert.Equal(t, 8.0, got.Height)
	assert.Equal(t, "car", got.Label)
	assert.Equal(t, annotation.DefaultOpacity, got.Opacity)
	assert.Equal(t, Idle, s.State())
}

func TestSmallShapesDropped(t *testing.T) {
	tests := []struct {
		name string
		tool Tool
		to   geometry.Point
		want bool
	}{
		{"narrow box", ToolBBox, geometry.Pt(14, 40), false},
		{"exact minimum box", ToolBBox, geometry.Pt(15, 15), false},
		{"box", ToolBBox, geometry.Pt(16, 16), true},
		{"flat ellipse", ToolEllipse, geometry.Pt(40, 12), false},
		{"minimum ellipse", ToolEllipse, geometry.Pt(15, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testOptions())
			require.True(t, s.Start(tt.tool, geometry.Pt(10, 10), Style{}))
			s.Continue(tt.to)
			assert.Equal(t, tt.want, s.CanFinish())
			_, ok := s.Finish()
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, Idle, s.State(), "boxes and ellipses always end")
		})
	}
}

func TestEllipseRadiiAreUnsigned(t *testing.T) {
	s := NewSession(testOptions())
	s.Start(ToolEllipse, geometry.Pt(50, 50), Style{})
	s.Continue(geometry.Pt(30, 80))
	got, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, 50.0, got.X)
	assert.Equal(t, 20.0, got.RadiusX)
	assert.Equal(t, 30.0, got.RadiusY)
}

func TestPolygonCloseByClick(t *testing.T) {
	s := NewSession(testOptions())
	require.True(t, s.Start(ToolPolygon, geometry.Pt(10, 10), Style{}))
	for _, p := range []geometry.Point{{X: 90, Y: 10}, {X: 90, Y: 90}, {X: 10, Y: 90}} {
		_, done := s.AddPoint(p)
		require.False(t, done)
	}

	got, done := s.AddPoint(geometry.Pt(11, 11))
	require.True(t, done)
	assert.Equal(t, annotation.KindPolygon, got.Kind)
	assert.Equal(t, []geometry.Point{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 90}, {X: 10, Y: 90}}, got.Points)
	assert.Equal(t, Idle, s.State())
}

func TestSnapRadiusFollowsScale(t *testing.T) {
	s := NewSession(testOptions())
	s.SetScale(3)
	s.Start(ToolPolyline, geometry.Pt(10, 10), Style{})
	s.AddPoint(geometry.Pt(50, 50))

	_, done := s.AddPoint(geometry.Pt(18, 10))
	assert.False(t, done, "15px at 3x is 5 image units")
	_, done = s.AddPoint(geometry.Pt(14, 10))
	assert.True(t, done)
}

func TestPolygonFinishRefusedStaysOpen(t *testing.T) {
	s := NewSession(testOptions())
	s.Start(ToolPolygon, geometry.Pt(10, 10), Style{})
	s.AddPoint(geometry.Pt(50, 10))
	assert.False(t, s.CanFinish())

	_, ok := s.Finish()
	assert.False(t, ok)
	assert.Equal(t, Drawing, s.State())

	s.AddPoint(geometry.Pt(50, 50))
	got, ok := s.Finish()
	require.True(t, ok)
	assert.Len(t, got.Points, 3)
}

func TestPolylineNeedsTwoPoints(t *testing.T) {
	s := NewSession(testOptions())
	s.Start(ToolPolyline, geometry.Pt(10, 10), Style{})
	_, ok := s.Finish()
	assert.False(t, ok)

	s.AddPoint(geometry.Pt(30, 30))
	got, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, annotation.KindPolyline, got.Kind)
}

func TestContinuousDrawAppendsBySpacing(t *testing.T) {
	s := NewSession(testOptions())
	s.Start(ToolPolygon, geometry.Pt(10, 10), Style{})
	s.SetContinuous(true)

	s.Continue(geometry.Pt(13, 10))
	s.Continue(geometry.Pt(16, 10))
	s.Continue(geometry.Pt(30, 10))
	assert.Len(t, s.Points(), 3)

	s.Continue(geometry.Pt(30, 12))
	assert.Len(t, s.Points(), 3, "within spacing of the last point")
	ghost, ok := s.Ghost()
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(30, 12), ghost)
}

func TestContinuousReleaseFinishes(t *testing.T) {
	s := NewSession(testOptions())
	s.Start(ToolPolygon, geometry.Pt(10, 10), Style{})
	s.SetContinuous(true)
	s.Continue(geometry.Pt(50, 10))

	_, done := s.SetContinuous(false)
	assert.False(t, done, "two points keep the polygon open")
	assert.Equal(t, Drawing, s.State())

	s.SetContinuous(true)
	s.Continue(geometry.Pt(50, 50))
	s.Continue(geometry.Pt(12, 12))

	got, done := s.SetContinuous(false)
	require.True(t, done)
	assert.Equal(t, []geometry.Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}}, got.Points,
		"near-closing point is folded into the first")
}

func TestFinishRefusesRingClosedOnTooFewVertices(t *testing.T) {
	s := NewSession(testOptions())
	s.Start(ToolPolygon, geometry.Pt(10, 10), Style{})
	s.SetContinuous(true)
	s.Continue(geometry.Pt(50, 10))
	s.Continue(geometry.Pt(12, 10))
	require.Len(t, s.Points(), 3)
	assert.False(t, s.CanFinish())

	_, ok := s.Finish()
	assert.False(t, ok)
	assert.Equal(t, Drawing, s.State(), "the polygon stays open for more points")

	s.SetContinuous(false)
	s.AddPoint(geometry.Pt(50, 50))
	got, ok := s.Finish()
	require.True(t, ok)
	assert.Len(t, got.Points, 4)
}

func TestFreehandSimplified(t *testing.T) {
	opts := testOptions()
	opts.SimplifyEpsilon = 20
	s := NewSession(opts)
	s.Start(ToolPolyline, geometry.Pt(0, 0), Style{})
	s.SetContinuous(true)
	for x := 6.0; x <= 60; x += 6 {
		s.Continue(geometry.Pt(x, 0))
	}
	require.Len(t, s.Points(), 11)

	got, done := s.SetContinuous(false)
	require.True(t, done)
	assert.Equal(t, []geometry.Point{{X: 0}, {X: 24}, {X: 48}, {X: 60}}, got.Points)
}

func TestMaxPointsAutoFinishes(t *testing.T) {
	opts := testOptions()
	opts.MaxPoints = 3
	s := NewSession(opts)
	s.Start(ToolPolygon, geometry.Pt(10, 10), Style{})
	_, done := s.AddPoint(geometry.Pt(60, 10))
	require.False(t, done)
	got, done := s.AddPoint(geometry.Pt(60, 60))
	require.True(t, done)
	assert.Len(t, got.Points, 3)
	assert.Equal(t, Idle, s.State())
}

func TestRemoveLastPoint(t *testing.T) {
	s := NewSession(testOptions())
	assert.False(t, s.RemoveLastPoint())

	s.Start(ToolPolyline, geometry.Pt(10, 10), Style{})
	s.AddPoint(geometry.Pt(20, 20))
	require.True(t, s.RemoveLastPoint())
	assert.Equal(t, []geometry.Point{{X: 10, Y: 10}}, s.Points())
	require.True(t, s.RemoveLastPoint())
	assert.False(t, s.RemoveLastPoint())
	assert.Equal(t, Drawing, s.State())
}

func TestInvalidTransitionsAreNoops(t *testing.T) {
	s := NewSession(testOptions())

	s.Cancel()
	assert.Equal(t, Idle, s.State())
	_, ok := s.Finish()
	assert.False(t, ok)
	_, ok = s.AddPoint(geometry.Pt(1, 1))
	assert.False(t, ok)
	assert.False(t, s.Start(ToolMove, geometry.Pt(1, 1), Style{}))

	require.True(t, s.Start(ToolBBox, geometry.Pt(1, 1), Style{}))
	assert.False(t, s.Start(ToolEllipse, geometry.Pt(2, 2), Style{}))
	assert.Equal(t, ToolBBox, s.Tool())

	s.Cancel()
	assert.Equal(t, Idle, s.State())
	_, ok = s.Preview()
	assert.False(t, ok)
}

func TestParseTool(t *testing.T) {
	tool, ok := ParseTool("polyline")
	require.True(t, ok)
	assert.True(t, tool.IsPath())
	assert.True(t, tool.Draws())

	_, ok = ParseTool("lasso")
	assert.False(t, ok)
	assert.False(t, ToolPan.Draws())
}

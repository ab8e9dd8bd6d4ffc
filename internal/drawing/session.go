// Package drawing implements the per-tool shape creation state machine.
//
// A Session is either idle or drawing one shape. Boxes and ellipses are
// dragged out from an anchor; polygons and polylines accumulate clicked
// points, or points appended automatically while the continuous-draw
// modifier is held. Finishing hands back an annotation for the store to
// clip and keep; the session itself never touches the store.
package drawing

import (
	"log/slog"
	"math"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Options holds the thresholds of a session, all in image units except
// SnapThreshold which is in device pixels.
type Options struct {
	MinShapeSize      float64
	ContinuousSpacing float64
	SnapThreshold     float64
	// MaxPoints auto-finishes a path once reached; zero means unlimited.
	MaxPoints int
	// SimplifyEpsilon is applied to paths built by continuous drawing;
	// zero disables simplification.
	SimplifyEpsilon float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinShapeSize:      5,
		ContinuousSpacing: 5,
		SnapThreshold:     15,
		SimplifyEpsilon:   1,
	}
}

// Style is copied onto every finished shape. A zero Opacity means the
// default opacity.
type Style struct {
	Label   string
	Color   string
	Opacity float64
}

// Session is the state of one tool use. The zero value is not usable; call
// NewSession.
type Session struct {
	opts  Options
	scale float64

	state  State
	tool   Tool
	style  Style
	anchor geometry.Point

	// shape is the box or ellipse being dragged.
	shape annotation.Annotation
	// points is the path being built.
	points []geometry.Point

	ghost      geometry.Point
	hasGhost   bool
	continuous bool
	freehand   bool
}

// NewSession returns an idle session.
func NewSession(opts Options) *Session {
	return &Session{opts: opts, scale: 1}
}

// SetScale sets the viewport scale (device pixels per image unit) used to
// convert the snap threshold into image units.
func (s *Session) SetScale(scale float64) {
	if scale > 0 && !math.IsInf(scale, 0) {
		s.scale = scale
	}
}

func (s *Session) State() State                  { return s.state }
func (s *Session) Tool() Tool                    { return s.tool }
func (s *Session) Continuous() bool              { return s.continuous }
func (s *Session) Points() []geometry.Point      { return geometry.ClonePoints(s.points) }
func (s *Session) Ghost() (geometry.Point, bool) { return s.ghost, s.hasGhost }

// snapRadius is the close-by-click distance in image units.
func (s *Session) snapRadius() float64 {
	return s.opts.SnapThreshold / s.scale
}

// Start begins a shape at pos. It fails while another shape is in
// progress or when the tool does not draw.
func (s *Session) Start(tool Tool, pos geometry.Point, style Style) bool {
	if s.state == Drawing {
		slog.Debug("start ignored, already drawing", "tool", s.tool)
		return false
	}
	if !tool.Draws() || !pos.IsFinite() {
		slog.Debug("start ignored", "tool", tool)
		return false
	}

	s.state = Drawing
	s.tool = tool
	s.style = style
	s.anchor = pos
	s.hasGhost = false
	s.freehand = false
	switch tool {
	case ToolBBox:
		s.shape = annotation.NewBBox(pos.X, pos.Y, 0, 0)
	case ToolEllipse:
		s.shape = annotation.NewEllipse(pos.X, pos.Y, 0, 0)
	default:
		s.points = []geometry.Point{pos}
	}
	return true
}

// Continue tracks the pointer. Boxes and ellipses resize; paths move the
// ghost point and, in continuous mode, append pos once it is far enough
// from the last point. A path that reaches MaxPoints finishes, in which
// case the finished shape is returned.
func (s *Session) Continue(pos geometry.Point) (annotation.Annotation, bool) {
	if s.state != Drawing || !pos.IsFinite() {
		return annotation.Annotation{}, false
	}
	switch s.tool {
	case ToolBBox:
		// Negative sizes are allowed until Finish normalizes them.
		s.shape.Width = pos.X - s.anchor.X
		s.shape.Height = pos.Y - s.anchor.Y
	case ToolEllipse:
		s.shape.RadiusX = math.Abs(pos.X - s.anchor.X)
		s.shape.RadiusY = math.Abs(pos.Y - s.anchor.Y)
	default:
		s.ghost, s.hasGhost = pos, true
		if !s.continuous {
			break
		}
		if n := len(s.points); n > 0 && pos.Dist(s.points[n-1]) <= s.opts.ContinuousSpacing {
			break
		}
		s.points = append(s.points, pos)
		s.freehand = true
		if s.atLimit() {
			return s.Finish()
		}
	}
	return annotation.Annotation{}, false
}

// AddPoint appends an explicitly clicked point to a path. Clicking within
// the snap radius of the first point once the path has enough points
// finishes the shape instead, returning it.
func (s *Session) AddPoint(pos geometry.Point) (annotation.Annotation, bool) {
	if s.state != Drawing || !s.tool.IsPath() {
		slog.Debug("add point ignored", "state", s.state, "tool", s.tool)
		return annotation.Annotation{}, false
	}
	if !pos.IsFinite() {
		return annotation.Annotation{}, false
	}
	if s.enoughPoints() && pos.Dist(s.points[0]) <= s.snapRadius() {
		return s.Finish()
	}
	s.points = append(s.points, pos)
	if s.atLimit() {
		return s.Finish()
	}
	return annotation.Annotation{}, false
}

// RemoveLastPoint pops the newest path point.
func (s *Session) RemoveLastPoint() bool {
	if s.state != Drawing || len(s.points) == 0 {
		return false
	}
	s.points = s.points[:len(s.points)-1]
	return true
}

// SetContinuous switches continuous drawing on or off. Turning it off
// while a path is in progress finishes the path when it has enough
// points; otherwise the path stays open.
func (s *Session) SetContinuous(on bool) (annotation.Annotation, bool) {
	was := s.continuous
	s.continuous = on
	if on || !was || s.state != Drawing || !s.tool.IsPath() {
		return annotation.Annotation{}, false
	}
	if !s.enoughPoints() {
		return annotation.Annotation{}, false
	}
	return s.Finish()
}

// CanFinish reports whether Finish would produce a shape.
func (s *Session) CanFinish() bool {
	if s.state != Drawing {
		return false
	}
	if s.tool == ToolPolygon && s.closesRing(s.points) && s.ringTooSmall(s.points) {
		return false
	}
	if s.tool.IsPath() {
		return s.enoughPoints()
	}
	return annotation.MeetsMinimumSize(s.shape, s.opts.MinShapeSize)
}

// Finish ends the session and returns the finished shape. Boxes and
// ellipses always return to idle, dropping shapes below the minimum size.
// Paths without enough points stay open.
func (s *Session) Finish() (annotation.Annotation, bool) {
	if s.state != Drawing {
		slog.Debug("finish ignored while idle")
		return annotation.Annotation{}, false
	}

	if !s.tool.IsPath() {
		out := s.styled(s.shape.Normalized())
		s.reset()
		if !annotation.MeetsMinimumSize(out, s.opts.MinShapeSize) {
			slog.Debug("shape below minimum size dropped", "kind", out.Kind)
			return annotation.Annotation{}, false
		}
		return out, true
	}

	if !s.enoughPoints() {
		slog.Debug("finish refused, too few points", "tool", s.tool, "points", len(s.points))
		return annotation.Annotation{}, false
	}

	points := geometry.ClonePoints(s.points)
	if s.freehand && s.opts.SimplifyEpsilon > 0 {
		kind, _ := s.tool.Kind()
		if reduced := geometry.ReducePoints(points, s.opts.SimplifyEpsilon); len(reduced) >= annotation.MinPoints(kind) {
			points = reduced
		}
	}

	var out annotation.Annotation
	if s.tool == ToolPolygon {
		// A last point on top of the first closes the ring; drop it so
		// the polygon keeps only distinct vertices.
		if s.closesRing(points) {
			if s.ringTooSmall(points) {
				slog.Debug("finish refused, closing point leaves too few vertices", "points", len(points))
				return annotation.Annotation{}, false
			}
			points = points[:len(points)-1]
		}
		out = annotation.NewPolygon(points...)
	} else {
		out = annotation.NewPolyline(points...)
	}
	out = s.styled(out)
	s.reset()
	return out, true
}

// Cancel discards the shape in progress. It is safe in any state.
func (s *Session) Cancel() {
	s.reset()
}

// Preview returns the shape in progress for rendering. Paths are returned
// with however many points they have, even below the minimum.
func (s *Session) Preview() (annotation.Annotation, bool) {
	if s.state != Drawing {
		return annotation.Annotation{}, false
	}
	if !s.tool.IsPath() {
		return s.styled(s.shape.Normalized()), true
	}
	kind, _ := s.tool.Kind()
	a := annotation.Annotation{Kind: kind, Points: geometry.ClonePoints(s.points)}
	return s.styled(a), true
}

func (s *Session) enoughPoints() bool {
	kind, ok := s.tool.Kind()
	return ok && len(s.points) >= annotation.MinPoints(kind)
}

// closesRing reports whether the last polygon point lies on the first.
func (s *Session) closesRing(points []geometry.Point) bool {
	n := len(points)
	return n > 1 && points[n-1].Dist(points[0]) <= s.snapRadius()
}

func (s *Session) ringTooSmall(points []geometry.Point) bool {
	return len(points)-1 < annotation.MinPoints(annotation.KindPolygon)
}

func (s *Session) atLimit() bool {
	return s.opts.MaxPoints > 0 && len(s.points) >= s.opts.MaxPoints
}

func (s *Session) styled(a annotation.Annotation) annotation.Annotation {
	a.Label = s.style.Label
	a.Color = s.style.Color
	a.Opacity = s.style.Opacity
	if a.Opacity <= 0 {
		a.Opacity = annotation.DefaultOpacity
	}
	return a
}

func (s *Session) reset() {
	s.state = Idle
	s.shape = annotation.Annotation{}
	s.points = nil
	s.hasGhost = false
	s.continuous = false
	s.freehand = false
}

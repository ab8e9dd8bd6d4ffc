package engine

import (
	"encoding/json"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

// DrawCommand is a single drawing operation for the host to execute on a
// Canvas2D-like context. Geometry is in image space; Transform maps it to
// device pixels.
type DrawCommand struct {
	Op          string           `json:"op"`             // "image", "path" or "handles"
	Role        string           `json:"role,omitempty"` // "shape", "preview", "ghost", "marquee"
	Index       int              `json:"index"`          // shape index, -1 for overlays
	Kind        annotation.Kind  `json:"kind,omitempty"`
	Label       string           `json:"label,omitempty"`
	Selected    bool             `json:"selected,omitempty"`
	Transform   []float64        `json:"transform"` // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand    `json:"path,omitempty"`
	Points      []geometry.Point `json:"points,omitempty"` // handle centres for "handles"
	Fill        string           `json:"fill,omitempty"`
	FillAlpha   float64          `json:"fillAlpha,omitempty"`
	FillRule    string           `json:"fillRule,omitempty"`
	Stroke      string           `json:"stroke,omitempty"`
	StrokeWidth float64          `json:"strokeWidth,omitempty"` // in image units
	Dash        []float64        `json:"dash,omitempty"`
	Opacity     float64          `json:"opacity,omitempty"`
	ImageWidth  float64          `json:"imageWidth,omitempty"`
	ImageHeight float64          `json:"imageHeight,omitempty"`
}

// PathCommand is one path segment in Canvas2D form:
// ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y] or ["Z"].
type PathCommand []any

const (
	strokePx     = 2
	fillAlpha    = 0.2
	overlayColor = "#00a2ff"
	marqueeDash  = 4
)

// DrawCommands returns the scene in painter's order: the image, every
// shape, handles of the selected shapes, then the drawing preview, ghost
// segment and marquee. Shapes being dragged are drawn at their working
// position.
func (e *Engine) DrawCommands() []DrawCommand {
	view := e.Viewport().Matrix()
	stroke := e.imageRadius(strokePx)
	cmds := []DrawCommand{}

	if w, h, ok := e.store.Bounds(); ok {
		cmds = append(cmds, DrawCommand{
			Op:          "image",
			Index:       -1,
			Transform:   view.ToSlice(),
			ImageWidth:  w,
			ImageHeight: h,
		})
	}

	shapes := e.store.Shapes()
	if g := e.gesture; g != nil && g.moved {
		for k, i := range g.indices {
			if i < len(shapes) {
				shapes[i] = g.working[k]
			}
		}
	}
	for i, a := range shapes {
		cmd := shapeCommand(a, view, stroke)
		cmd.Index = i
		cmd.Selected = e.store.IsSelected(i)
		cmds = append(cmds, cmd)
	}
	for _, i := range e.store.Selection() {
		if handles := shapes[i].Handles(); len(handles) > 0 {
			cmds = append(cmds, DrawCommand{
				Op:        "handles",
				Index:     i,
				Transform: view.ToSlice(),
				Points:    handles,
				Stroke:    overlayColor,
			})
		}
	}

	if preview, ok := e.session.Preview(); ok {
		cmd := shapeCommand(preview, view, stroke)
		cmd.Role, cmd.Index = "preview", -1
		cmd.Dash = []float64{marqueeDash * stroke, marqueeDash * stroke}
		cmds = append(cmds, cmd)

		points := e.session.Points()
		if ghost, ok := e.session.Ghost(); ok && len(points) > 0 && e.session.Tool().IsPath() {
			last := points[len(points)-1]
			cmds = append(cmds, DrawCommand{
				Op:          "path",
				Role:        "ghost",
				Index:       -1,
				Transform:   view.ToSlice(),
				Path:        []PathCommand{{"M", last.X, last.Y}, {"L", ghost.X, ghost.Y}},
				Stroke:      preview.Color,
				StrokeWidth: stroke,
				Dash:        cmd.Dash,
				Opacity:     preview.Opacity,
			})
		}
	}

	if g := e.gesture; g != nil && g.kind == gestureMarquee && g.moved {
		cmds = append(cmds, DrawCommand{
			Op:          "path",
			Role:        "marquee",
			Index:       -1,
			Transform:   view.ToSlice(),
			Path:        rectPath(g.marquee),
			Fill:        overlayColor,
			FillAlpha:   fillAlpha / 2,
			Stroke:      overlayColor,
			StrokeWidth: stroke / 2,
			Dash:        []float64{marqueeDash * stroke, marqueeDash * stroke},
			Opacity:     1,
		})
	}
	return cmds
}

func shapeCommand(a annotation.Annotation, view geometry.Matrix2D, stroke float64) DrawCommand {
	cmd := DrawCommand{
		Op:          "path",
		Role:        "shape",
		Kind:        a.Kind,
		Label:       a.Label,
		Transform:   view.ToSlice(),
		Stroke:      a.Color,
		StrokeWidth: stroke,
		Opacity:     a.Opacity,
	}
	if a.Kind != annotation.KindPolyline {
		cmd.Fill, cmd.FillAlpha = a.Color, fillAlpha
	}

	switch a.Kind {
	case annotation.KindBBox:
		n := a.Normalized()
		cmd.Path = rectPath(geometry.Rect{X1: n.X, Y1: n.Y, X2: n.X + n.Width, Y2: n.Y + n.Height})
	case annotation.KindEllipse:
		local := geometry.Translation(a.X, a.Y).Multiply(geometry.Rotation(a.Rotation))
		cmd.Transform = view.Multiply(local).ToSlice()
		cmd.Path = ellipsePath(a.RadiusX, a.RadiusY)
	case annotation.KindPolygon:
		cmd.Path = pointsPath(a.Points, true)
		for _, h := range a.Holes {
			cmd.Path = append(cmd.Path, pointsPath(h, true)...)
		}
		if len(a.Holes) > 0 {
			cmd.FillRule = "evenodd"
		}
	case annotation.KindPolyline:
		cmd.Path = pointsPath(a.Points, false)
	}
	return cmd
}

func rectPath(r geometry.Rect) []PathCommand {
	return []PathCommand{
		{"M", r.X1, r.Y1},
		{"L", r.X2, r.Y1},
		{"L", r.X2, r.Y2},
		{"L", r.X1, r.Y2},
		{"Z"},
	}
}

// ellipsePath approximates an ellipse centred on the origin with four
// cubic bezier curves.
func ellipsePath(rx, ry float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	return []PathCommand{
		{"M", rx, 0.0},
		{"C", rx, ky, kx, ry, 0.0, ry},
		{"C", -kx, ry, -rx, ky, -rx, 0.0},
		{"C", -rx, -ky, -kx, -ry, 0.0, -ry},
		{"C", kx, -ry, rx, -ky, rx, 0.0},
		{"Z"},
	}
}

func pointsPath(points []geometry.Point, closed bool) []PathCommand {
	if len(points) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(points)+1)
	path = append(path, PathCommand{"M", points[0].X, points[0].Y})
	for _, p := range points[1:] {
		path = append(path, PathCommand{"L", p.X, p.Y})
	}
	if closed && len(points) > 2 {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// Render returns DrawCommands as JSON.
func (e *Engine) Render() string {
	out, _ := DrawCommandsToJSON(e.DrawCommands())
	return out
}

// SelectionBounds returns the combined bounding box of the selection.
func (e *Engine) SelectionBounds() (geometry.Rect, bool) {
	var sel []annotation.Annotation
	for _, i := range e.store.Selection() {
		if a, ok := e.store.At(i); ok {
			sel = append(sel, a)
		}
	}
	return annotation.UnionBounds(sel)
}

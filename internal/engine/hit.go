package engine

import (
	"encoding/json"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

// TargetKind classifies what lies under the pointer.
type TargetKind string

const (
	TargetBackground TargetKind = "background"
	TargetShape      TargetKind = "shape"
	TargetVertex     TargetKind = "vertex"
)

// Target is the result of a hit test. Vertex is the handle index for
// TargetVertex; both indices are -1 on the background.
type Target struct {
	Kind   TargetKind `json:"kind"`
	Shape  int        `json:"shape"`
	Vertex int        `json:"vertex"`
}

var background = Target{Kind: TargetBackground, Shape: -1, Vertex: -1}

// hitTest finds the topmost target at image position p. Vertex handles
// win over shape bodies; later shapes are on top.
func hitTest(shapes []annotation.Annotation, p geometry.Point, radius float64) Target {
	for i := len(shapes) - 1; i >= 0; i-- {
		if v := annotation.NearestHandle(shapes[i], p, radius); v >= 0 {
			return Target{Kind: TargetVertex, Shape: i, Vertex: v}
		}
	}
	for i := len(shapes) - 1; i >= 0; i-- {
		if annotation.Contains(shapes[i], p, radius) {
			return Target{Kind: TargetShape, Shape: i, Vertex: -1}
		}
	}
	return background
}

// nearestPathVertex returns the path vertex closest to p within radius,
// across all polygons and polylines.
func nearestPathVertex(shapes []annotation.Annotation, p geometry.Point, radius float64) (Target, bool) {
	best, bestDist := background, radius
	found := false
	for i := len(shapes) - 1; i >= 0; i-- {
		if !shapes[i].Kind.IsPath() {
			continue
		}
		v, d := geometry.NearestPoint(p, shapes[i].Points)
		if v >= 0 && (d < bestDist || !found && d <= bestDist) {
			best, bestDist, found = Target{Kind: TargetVertex, Shape: i, Vertex: v}, d, true
		}
	}
	return best, found
}

// HitTest reports what lies under the device position (x, y).
func (e *Engine) HitTest(x, y float64) Target {
	p := e.toImage(geometry.Pt(x, y))
	return hitTest(e.store.Shapes(), p, e.imageRadius(e.opts.VertexRadius))
}

// HitTestJSON is HitTest encoded as JSON.
func (e *Engine) HitTestJSON(x, y float64) string {
	data, _ := json.Marshal(e.HitTest(x, y))
	return string(data)
}

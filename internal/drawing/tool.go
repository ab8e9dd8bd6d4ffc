package drawing

import "github.com/inamate/annotator/internal/annotation"

// Tool is the active editing tool.
type Tool string

const (
	ToolMove     Tool = "move"
	ToolBBox     Tool = "bbox"
	ToolEllipse  Tool = "ellipse"
	ToolPolygon  Tool = "polygon"
	ToolPolyline Tool = "polyline"
	ToolPan      Tool = "pan"
)

var tools = map[string]Tool{
	"move":     ToolMove,
	"bbox":     ToolBBox,
	"ellipse":  ToolEllipse,
	"polygon":  ToolPolygon,
	"polyline": ToolPolyline,
	"pan":      ToolPan,
}

// ParseTool maps a tool name to a Tool.
func ParseTool(name string) (Tool, bool) {
	t, ok := tools[name]
	return t, ok
}

// Draws reports whether the tool creates shapes.
func (t Tool) Draws() bool {
	_, ok := t.Kind()
	return ok
}

// Kind returns the shape kind a drawing tool produces.
func (t Tool) Kind() (annotation.Kind, bool) {
	switch t {
	case ToolBBox:
		return annotation.KindBBox, true
	case ToolEllipse:
		return annotation.KindEllipse, true
	case ToolPolygon:
		return annotation.KindPolygon, true
	case ToolPolyline:
		return annotation.KindPolyline, true
	default:
		return "", false
	}
}

// IsPath reports whether the tool builds a point list.
func (t Tool) IsPath() bool {
	return t == ToolPolygon || t == ToolPolyline
}

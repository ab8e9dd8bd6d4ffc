package annotation

import (
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

// Patch is a partial update merged into an Annotation. Nil fields are left
// untouched. Points replaces the whole point list when non-nil; Holes
// replaces the holes when non-nil (point it at an empty slice to clear
// them).
type Patch struct {
	Label    *string             `json:"label,omitempty"`
	Color    *string             `json:"color,omitempty"`
	Opacity  *float64            `json:"opacity,omitempty"`
	X        *float64            `json:"x,omitempty"`
	Y        *float64            `json:"y,omitempty"`
	Width    *float64            `json:"width,omitempty"`
	Height   *float64            `json:"height,omitempty"`
	RadiusX  *float64            `json:"radiusX,omitempty"`
	RadiusY  *float64            `json:"radiusY,omitempty"`
	Rotation *float64            `json:"rotation,omitempty"`
	Points   []geometry.Point    `json:"points,omitempty"`
	Holes    *[][]geometry.Point `json:"holes,omitempty"`
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Apply returns a copy of a with p merged in. Opacity is clamped to [0,1].
func (a Annotation) Apply(p Patch) Annotation {
	out := a.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Opacity != nil {
		out.Opacity = math.Max(0, math.Min(1, *p.Opacity))
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&out.X, p.X)
	setF(&out.Y, p.Y)
	setF(&out.Width, p.Width)
	setF(&out.Height, p.Height)
	setF(&out.RadiusX, p.RadiusX)
	setF(&out.RadiusY, p.RadiusY)
	setF(&out.Rotation, p.Rotation)
	if p.Points != nil {
		out.Points = geometry.ClonePoints(p.Points)
	}
	if p.Holes != nil {
		out.Holes = nil
		for _, h := range *p.Holes {
			out.Holes = append(out.Holes, geometry.ClonePoints(h))
		}
	}
	return out
}

// GeometryPatch returns a patch that carries every geometry field of a,
// leaving label, colour and opacity alone.
func GeometryPatch(a Annotation) Patch {
	p := Patch{}
	switch a.Kind {
	case KindBBox:
		p.X, p.Y, p.Width, p.Height = Float(a.X), Float(a.Y), Float(a.Width), Float(a.Height)
	case KindEllipse:
		p.X, p.Y = Float(a.X), Float(a.Y)
		p.RadiusX, p.RadiusY, p.Rotation = Float(a.RadiusX), Float(a.RadiusY), Float(a.Rotation)
	case KindPolygon, KindPolyline:
		p.Points = geometry.ClonePoints(a.Points)
		if a.Holes != nil {
			holes := a.Clone().Holes
			p.Holes = &holes
		}
	}
	return p
}

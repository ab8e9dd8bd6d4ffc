package annotation

import "github.com/inamate/annotator/internal/geometry"

// Sample image size the sample set is laid out for.
const (
	SampleWidth  = 1280
	SampleHeight = 720
)

// NewSampleSet returns a small set with one shape of every kind, used by
// the playground build.
func NewSampleSet() []Annotation {
	box := NewBBox(120, 80, 260, 180)
	box.Label, box.Color = "vehicle", "#e6194b"

	ellipse := NewEllipse(640, 360, 90, 60)
	ellipse.Rotation = 15
	ellipse.Label, ellipse.Color = "sign", "#3cb44b"

	region := NewPolygon(
		geometry.Pt(820, 120), geometry.Pt(1160, 140), geometry.Pt(1120, 420), geometry.Pt(860, 380),
	)
	region.Holes = [][]geometry.Point{{
		geometry.Pt(920, 220), geometry.Pt(1020, 220), geometry.Pt(1000, 300),
	}}
	region.Label, region.Color, region.Opacity = "building", "#4363d8", 0.6

	lane := NewPolyline(
		geometry.Pt(40, 680), geometry.Pt(400, 560), geometry.Pt(760, 540), geometry.Pt(1240, 600),
	)
	lane.Label, lane.Color = "lane", "#f58231"

	return []Annotation{box, ellipse, region, lane}
}

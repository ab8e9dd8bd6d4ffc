package input

import (
	"math"

	"github.com/inamate/annotator/internal/geometry"
)

// Zoom limits for Viewport.ZoomAt.
const (
	MinScale = 0.05
	MaxScale = 64
)

// Viewport maps image coordinates to device pixels:
// device = image*Scale + Pan.
type Viewport struct {
	Scale float64        `json:"scale"`
	Pan   geometry.Point `json:"pan"`
}

// Identity is the 1:1 viewport.
func Identity() Viewport {
	return Viewport{Scale: 1}
}

func (v Viewport) scale() float64 {
	if v.Scale <= 0 || math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) {
		return 1
	}
	return v.Scale
}

// Matrix returns the image-to-device transform.
func (v Viewport) Matrix() geometry.Matrix2D {
	s := v.scale()
	return geometry.Translation(v.Pan.X, v.Pan.Y).Multiply(geometry.Scaling(s, s))
}

// ToImage converts a device position to image space.
func (v Viewport) ToImage(p geometry.Point) geometry.Point {
	inv, _ := v.Matrix().Invert()
	return inv.Apply(p)
}

// ToDevice converts an image position to device pixels.
func (v Viewport) ToDevice(p geometry.Point) geometry.Point {
	return v.Matrix().Apply(p)
}

// ImageDistance converts a device-pixel distance to image units.
func (v Viewport) ImageDistance(px float64) float64 {
	return px / v.scale()
}

// ZoomAt multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the image point under the device position at fixed.
func (v Viewport) ZoomAt(at geometry.Point, factor float64) Viewport {
	anchor := v.ToImage(at)
	next := math.Min(MaxScale, math.Max(MinScale, v.scale()*factor))
	return Viewport{
		Scale: next,
		Pan:   at.Sub(anchor.Mul(next)),
	}
}

// WheelFactor converts a wheel delta into a zoom factor.
func WheelFactor(deltaY float64) float64 {
	return math.Exp(-deltaY * 0.001)
}

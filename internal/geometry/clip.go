package geometry

// stitchTolerance merges consecutive clipped segment endpoints that touch.
const stitchTolerance = 1e-8

// Cohen–Sutherland region codes.
const (
	codeInside = 0
	codeLeft   = 1 << iota
	codeRight
	codeTop
	codeBottom
)

func outcode(p Point, r Rect) int {
	code := codeInside
	if p.X < r.X1 {
		code |= codeLeft
	} else if p.X > r.X2 {
		code |= codeRight
	}
	if p.Y < r.Y1 {
		code |= codeTop
	} else if p.Y > r.Y2 {
		code |= codeBottom
	}
	return code
}

// ClipSegment clips the segment a→b to r using Cohen–Sutherland. ok is
// false when no part of the segment lies inside r. r must be normalized.
func ClipSegment(a, b Point, r Rect) (Point, Point, bool) {
	codeA, codeB := outcode(a, r), outcode(b, r)
	for {
		switch {
		case codeA|codeB == codeInside:
			return a, b, true
		case codeA&codeB != 0:
			return Point{}, Point{}, false
		}

		out := codeA
		if out == codeInside {
			out = codeB
		}

		var p Point
		switch {
		case out&codeBottom != 0:
			p = Point{X: a.X + (b.X-a.X)*(r.Y2-a.Y)/(b.Y-a.Y), Y: r.Y2}
		case out&codeTop != 0:
			p = Point{X: a.X + (b.X-a.X)*(r.Y1-a.Y)/(b.Y-a.Y), Y: r.Y1}
		case out&codeRight != 0:
			p = Point{X: r.X2, Y: a.Y + (b.Y-a.Y)*(r.X2-a.X)/(b.X-a.X)}
		default:
			p = Point{X: r.X1, Y: a.Y + (b.Y-a.Y)*(r.X1-a.X)/(b.X-a.X)}
		}

		if out == codeA {
			a = p
			codeA = outcode(a, r)
		} else {
			b = p
			codeB = outcode(b, r)
		}
	}
}

// ClipPolyline clips an open polyline to r segment by segment. Segment
// endpoints that touch are stitched together so the result carries no
// duplicate points. The result may be shorter than two points, in which
// case nothing of the polyline survived.
func ClipPolyline(points []Point, r Rect) []Point {
	if len(points) < 2 {
		return nil
	}
	out := make([]Point, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		a, b, ok := ClipSegment(points[i], points[i+1], r)
		if !ok {
			continue
		}
		if len(out) == 0 || !out[len(out)-1].Near(a, stitchTolerance) {
			out = append(out, a)
		}
		if !out[len(out)-1].Near(b, stitchTolerance) {
			out = append(out, b)
		}
	}
	return clampAll(out, r)
}

// halfPlane is one side of the clip rectangle.
type halfPlane struct {
	inside    func(Point) bool
	intersect func(a, b Point) Point
}

// clipPlanes returns the four half-planes in the fixed order left, right,
// top, bottom.
func clipPlanes(r Rect) [4]halfPlane {
	return [4]halfPlane{
		{
			inside: func(p Point) bool { return p.X >= r.X1 },
			intersect: func(a, b Point) Point {
				return Point{X: r.X1, Y: a.Y + (b.Y-a.Y)*(r.X1-a.X)/(b.X-a.X)}
			},
		},
		{
			inside: func(p Point) bool { return p.X <= r.X2 },
			intersect: func(a, b Point) Point {
				return Point{X: r.X2, Y: a.Y + (b.Y-a.Y)*(r.X2-a.X)/(b.X-a.X)}
			},
		},
		{
			inside: func(p Point) bool { return p.Y >= r.Y1 },
			intersect: func(a, b Point) Point {
				return Point{X: a.X + (b.X-a.X)*(r.Y1-a.Y)/(b.Y-a.Y), Y: r.Y1}
			},
		},
		{
			inside: func(p Point) bool { return p.Y <= r.Y2 },
			intersect: func(a, b Point) Point {
				return Point{X: a.X + (b.X-a.X)*(r.Y2-a.Y)/(b.Y-a.Y), Y: r.Y2}
			},
		},
	}
}

// ClipPolygon clips a closed ring to r with Sutherland–Hodgman. The ring
// is implicitly closed (last point joins the first). Consecutive duplicate
// points produced by the clip are removed.
func ClipPolygon(ring []Point, r Rect) []Point {
	out := ClonePoints(ring)
	for _, plane := range clipPlanes(r) {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]Point, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			curIn, prevIn := plane.inside(cur), plane.inside(prev)
			switch {
			case curIn && prevIn:
				out = append(out, cur)
			case curIn && !prevIn:
				out = append(out, plane.intersect(prev, cur), cur)
			case !curIn && prevIn:
				out = append(out, plane.intersect(prev, cur))
			}
			prev = cur
		}
	}
	return clampAll(dedupeRing(out), r)
}

// dedupeRing drops consecutive points closer than stitchTolerance,
// including a trailing point equal to the first.
func dedupeRing(ring []Point) []Point {
	if len(ring) == 0 {
		return ring
	}
	out := ring[:1]
	for _, p := range ring[1:] {
		if !out[len(out)-1].Near(p, stitchTolerance) {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[len(out)-1].Near(out[0], stitchTolerance) {
		out = out[:len(out)-1]
	}
	return out
}

// clampAll pulls points that rounding left a hair outside r back onto it.
func clampAll(points []Point, r Rect) []Point {
	for i, p := range points {
		points[i] = r.Clamp(p)
	}
	return points
}

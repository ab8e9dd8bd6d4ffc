package geometry

import "math"

// SegmentsIntersect reports whether segment p1→p2 intersects segment
// p3→p4. Parallel (including collinear) segments never intersect.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	r := p2.Sub(p1)
	s := p4.Sub(p3)
	det := r.Cross(s)
	if det == 0 {
		return false
	}
	qp := p3.Sub(p1)
	t := qp.Cross(s) / det
	u := qp.Cross(r) / det
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// SegmentIntersectsRect reports whether segment a→b crosses any of the
// four edges of r.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	for _, e := range r.Edges() {
		if SegmentsIntersect(a, b, e[0], e[1]) {
			return true
		}
	}
	return false
}

// PointInPolygon reports whether pt lies inside ring using ray casting
// with the even-odd rule.
func PointInPolygon(pt Point, ring []Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// ClosestPointOnSegment returns the point of segment a→b nearest to p.
func ClosestPointOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/lenSq))
	return a.Add(ab.Mul(t))
}

// PointSegmentDistance returns the distance from p to segment a→b.
func PointSegmentDistance(p, a, b Point) float64 {
	return p.Dist(ClosestPointOnSegment(p, a, b))
}

// NearestPoint returns the index of the point closest to p and its
// distance. index is -1 for an empty slice.
func NearestPoint(p Point, points []Point) (index int, dist float64) {
	index, best := -1, math.Inf(1)
	for i, q := range points {
		if d := p.DistSq(q); d < best {
			index, best = i, d
		}
	}
	return index, math.Sqrt(best)
}

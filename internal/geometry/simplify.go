package geometry

import "math"

// douglasPeuckerMin is the input size from which ReducePoints switches
// from greedy filtering to Douglas–Peucker.
const douglasPeuckerMin = 50

// ReducePoints simplifies a point list. Lists of three points or fewer are
// returned as is. Shorter lists are filtered greedily: a point is kept only
// when it lies at least epsilon from the last kept point. Longer lists use
// Douglas–Peucker with perpendicular distance to the chord. The first and
// last input points are always kept, and raising epsilon never increases
// the number of points returned. Negative epsilon is treated as zero.
func ReducePoints(points []Point, epsilon float64) []Point {
	n := len(points)
	if n <= 3 {
		return ClonePoints(points)
	}
	epsilon = math.Max(epsilon, 0)
	if n < douglasPeuckerMin {
		return reduceGreedy(points, epsilon)
	}
	return reduceDouglasPeucker(points, epsilon)
}

// reduceGreedy returns the shortest greedy filtering over every tolerance
// up to epsilon. A single greedy pass is not monotone in epsilon: a larger
// tolerance can skip a point that would have made later points redundant.
// The pass only changes where epsilon crosses a pairwise distance, so the
// pairwise distances below epsilon are the only tolerances worth trying.
func reduceGreedy(points []Point, epsilon float64) []Point {
	epsSq := epsilon * epsilon
	best := greedyPass(points, epsSq)
	for i := 0; i < len(points) && len(best) > 3; i++ {
		for j := i + 1; j < len(points) && len(best) > 3; j++ {
			d := points[i].DistSq(points[j])
			if d >= epsSq {
				continue
			}
			if out := greedyPass(points, d); len(out) < len(best) {
				best = out
			}
		}
	}
	return best
}

func greedyPass(points []Point, epsSq float64) []Point {
	n := len(points)
	out := []Point{points[0]}
	last := points[0]
	keptLast := false
	for i := 1; i < n; i++ {
		if points[i].DistSq(last) >= epsSq {
			out = append(out, points[i])
			last = points[i]
			keptLast = i == n-1
		}
	}
	if !keptLast {
		out = append(out, points[n-1])
	}

	if len(out) < 3 {
		step := int(math.Ceil(float64(n) / 3))
		out = []Point{points[0], points[step], points[n-1]}
	}
	return out
}

func reduceDouglasPeucker(points []Point, epsilon float64) []Point {
	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	markDouglasPeucker(points, 0, len(points)-1, epsilon, keep)

	out := make([]Point, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

func markDouglasPeucker(points []Point, first, last int, epsilon float64, keep []bool) {
	if last-first < 2 {
		return
	}
	maxDist, index := -1.0, first
	for i := first + 1; i < last; i++ {
		if d := perpendicularDistance(points[i], points[first], points[last]); d > maxDist {
			maxDist, index = d, i
		}
	}
	if maxDist > epsilon {
		keep[index] = true
		markDouglasPeucker(points, first, index, epsilon, keep)
		markDouglasPeucker(points, index, last, epsilon, keep)
	}
}

// perpendicularDistance is the distance from p to the line through a and
// b, or to a itself when the chord is degenerate.
func perpendicularDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	length := math.Hypot(ab.X, ab.Y)
	if length == 0 {
		return p.Dist(a)
	}
	return math.Abs(ab.Cross(p.Sub(a))) / length
}

package geometry

import "math"

// Area returns the unsigned area of a closed ring (shoelace formula).
func Area(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	prev := ring[len(ring)-1]
	for _, p := range ring {
		sum += prev.Cross(p)
		prev = p
	}
	return math.Abs(sum) / 2
}

// PathLength returns the length of an open polyline.
func PathLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Dist(points[i])
	}
	return total
}

// Perimeter returns the length of a closed ring including the closing edge.
func Perimeter(ring []Point) float64 {
	if len(ring) < 2 {
		return 0
	}
	return PathLength(ring) + ring[len(ring)-1].Dist(ring[0])
}

// EllipsePerimeter approximates the perimeter of an ellipse with
// Ramanujan's second formula.
func EllipsePerimeter(rx, ry float64) float64 {
	a, b := math.Abs(rx), math.Abs(ry)
	if a+b == 0 {
		return 0
	}
	h := (a - b) * (a - b) / ((a + b) * (a + b))
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

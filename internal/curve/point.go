package curve

// Point is one normalized curve sample: time T in [0,1] mapped to value V
// in [0,1]. Within an ordered sequence T is non-decreasing. Points are
// value types; generators return fresh slices and nothing mutates them
// after construction.
type Point struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// Clamp01 clamps v to the normalized range [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// clampPoints clamps every value of pts to [0,1] in place and returns pts.
// Generators call this as the final step so resolver output is normalized
// by construction.
func clampPoints(pts []Point) []Point {
	for i := range pts {
		pts[i].V = Clamp01(pts[i].V)
	}
	return pts
}

// Reverse returns a new sequence with point order reversed and t remapped
// to 1-t, preserving the non-decreasing invariant. Applying it twice
// restores the original sequence.
func Reverse(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = Point{T: 1 - p.T, V: p.V}
	}
	return out
}

// Mirror returns a new sequence with every value flipped to 1-v, leaving
// t untouched. Applying it twice restores the original values.
func Mirror(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{T: p.T, V: 1 - p.V}
	}
	return out
}

package curve

import (
	"fmt"
	"math"
)

// SampleUniformGrid returns the n-point open uniform grid
// [0, 1/n, 2/n, ..., (n-1)/n]. The final point stops short of 1 so that
// repeated cycles tile without a duplicated boundary sample.
//
// Returns an error if n < 2.
func SampleUniformGrid(n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSamples, n)
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = float64(i) / float64(n)
	}
	return grid, nil
}

// InterpolateLinear evaluates a point sequence at time t by linear
// interpolation between the bracketing points.
//
// Queries outside the sequence's time range clamp to the nearest endpoint
// value. When the bracketing points share the same t (a step
// discontinuity), the lower point's value wins.
//
// Returns an error if pts is empty.
func InterpolateLinear(pts []Point, t float64) (float64, error) {
	if len(pts) == 0 {
		return 0, ErrEmptyCurve
	}
	if t <= pts[0].T {
		return pts[0].V, nil
	}
	if t >= pts[len(pts)-1].T {
		return pts[len(pts)-1].V, nil
	}

	// Binary search for the first point with T >= t.
	lo, hi := 0, len(pts)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if pts[mid].T < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	upper := pts[lo]
	lower := pts[lo-1]

	if upper.T == lower.T {
		return lower.V, nil
	}
	frac := (t - lower.T) / (upper.T - lower.T)
	return lower.V + frac*(upper.V-lower.V), nil
}

// ApplyPhaseShift resamples pts into n output points where output point i
// at time t reads the input at t+offset. When wrap is true the read time
// wraps mod 1 (for periodic curves); when false it clamps to [0,1].
//
// Shifting by x then by -x with wrap=true reproduces the original curve
// within floating tolerance.
func ApplyPhaseShift(pts []Point, offset float64, wrap bool, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSamples, n)
	}
	if len(pts) == 0 {
		return nil, ErrEmptyCurve
	}

	out := make([]Point, n)
	for i := range out {
		t := float64(i) / float64(n)
		src := t + offset
		if wrap {
			src = src - math.Floor(src)
		} else {
			src = Clamp01(src)
		}
		v, err := InterpolateLinear(pts, src)
		if err != nil {
			return nil, err
		}
		out[i] = Point{T: t, V: v}
	}
	return out, nil
}

// MultiplyCurves resamples both operands to a shared n-point grid and
// multiplies them pointwise, clamping the product to [0,1]. The shared
// grid is the open i/n grid so the result composes with periodic curves.
func MultiplyCurves(a, b []Point, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSamples, n)
	}
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyCurve
	}

	out := make([]Point, n)
	for i := range out {
		t := float64(i) / float64(n)
		va, err := InterpolateLinear(a, t)
		if err != nil {
			return nil, err
		}
		vb, err := InterpolateLinear(b, t)
		if err != nil {
			return nil, err
		}
		out[i] = Point{T: t, V: Clamp01(va * vb)}
	}
	return out, nil
}

// ApplyEnvelope shapes a carrier curve by an envelope: the carrier is
// multiplied pointwise by the envelope on a shared grid. It is
// MultiplyCurves with intent-revealing argument order.
func ApplyEnvelope(carrier, envelope []Point, n int) ([]Point, error) {
	return MultiplyCurves(carrier, envelope, n)
}

// Resample evaluates pts at n uniform grid positions spanning the full
// closed range [0,1] (i/(n-1) spacing). Used when a curve must be
// stretched or compressed onto a new time axis, such as the
// resample-time remainder policy.
func Resample(pts []Point, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSamples, n)
	}
	if len(pts) == 0 {
		return nil, ErrEmptyCurve
	}

	out := make([]Point, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		v, err := InterpolateLinear(pts, t)
		if err != nil {
			return nil, err
		}
		out[i] = Point{T: t, V: v}
	}
	return out, nil
}

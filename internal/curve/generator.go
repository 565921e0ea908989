package curve

import "fmt"

// Params carries the numeric parameters of a generator call. All curve
// parameters are scalar; closed-vocabulary choices (easing mode, noise
// flavour) are distinct curve ids rather than parameters.
type Params map[string]float64

// get returns the parameter named key, or fallback when absent. Generators
// use this so they behave sensibly when called directly, outside the
// registry's default-merging path.
func (p Params) get(key string, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

// Generator produces n points from parameters. Implementations must be
// pure: no ambient randomness, no shared state, identical inputs always
// producing identical output.
type Generator func(n int, p Params) ([]Point, error)

// Kind classifies a registered curve by family. The registry records it
// for catalog listings; nothing dispatches on it.
type Kind string

const (
	KindPeriodic   Kind = "periodic"
	KindEasing     Kind = "easing"
	KindMotion     Kind = "motion"
	KindMusical    Kind = "musical"
	KindParametric Kind = "parametric"
)

// checkSamples validates the shared n >= 2 contract.
func checkSamples(n int) error {
	if n < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidSamples, n)
	}
	return nil
}

// openGrid builds n points on the open i/n grid with values produced by
// eval. Periodic and musical generators use this so cycles tile.
func openGrid(n int, eval func(t float64) float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		t := float64(i) / float64(n)
		pts[i] = Point{T: t, V: eval(t)}
	}
	return clampPoints(pts)
}

// closedGrid builds n points on the closed i/(n-1) grid. Easing, motion,
// and parametric generators use this so the terminal value is reached
// exactly.
func closedGrid(n int, eval func(t float64) float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		pts[i] = Point{T: t, V: eval(t)}
	}
	return clampPoints(pts)
}

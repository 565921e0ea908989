package curve

import "math"

// Motion generators: physical-feel shapes used by movement resolvers.
// Closed i/(n-1) grid. Values are clamped to [0,1] after evaluation, so
// shapes that would overshoot the range are clipped at the rails.

// Bounce produces the standard four-segment bounce landing at 1.
// No parameters.
func Bounce(n int, _ Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	return closedGrid(n, bounceOut), nil
}

// bounceOut is the conventional piecewise-parabola bounce.
func bounceOut(t float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// Elastic produces a damped oscillation settling at 1.
// Params: oscillations (default 3), damping (default 6).
func Elastic(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	osc := p.get("oscillations", 3)
	damp := p.get("damping", 6)
	return closedGrid(n, func(t float64) float64 {
		if t == 0 {
			return 0
		}
		if t == 1 {
			return 1
		}
		return 1 - math.Exp(-damp*t)*math.Cos(2*math.Pi*osc*t)
	}), nil
}

// Anticipate pulls back before committing: a back-ease-in whose
// characteristic dip below the start is clipped at 0.
// Params: tension (default 1.70158).
func Anticipate(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	tension := p.get("tension", backOvershoot)
	return closedGrid(n, func(t float64) float64 {
		return t * t * ((tension+1)*t - tension)
	}), nil
}

// Overshoot runs past the target and settles back: a back-ease-out whose
// excursion above 1 is clipped.
// Params: tension (default 1.70158).
func Overshoot(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	tension := p.get("tension", backOvershoot)
	return closedGrid(n, func(t float64) float64 {
		u := 1 - t
		return 1 - u*u*((tension+1)*u-tension)
	}), nil
}

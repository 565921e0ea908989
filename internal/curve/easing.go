package curve

import "math"

// Easing generators. Fixed-algorithm in/out/in-out variants for quad,
// cubic, expo, sine, and back. Each variant is its own curve id; none
// take intensity parameters. All sample on the closed i/(n-1) grid so
// the terminal value is reached exactly.

// easeMode selects the in/out/in-out transform applied to a base
// ease-in function.
type easeMode int

const (
	easeIn easeMode = iota
	easeOut
	easeInOut
)

// applyMode lifts an ease-in function f into the requested mode using the
// standard reflections.
func applyMode(f func(float64) float64, mode easeMode, t float64) float64 {
	switch mode {
	case easeOut:
		return 1 - f(1-t)
	case easeInOut:
		if t < 0.5 {
			return f(2*t) / 2
		}
		return 1 - f(2*(1-t))/2
	default:
		return f(t)
	}
}

// backOvershoot is the conventional back-easing overshoot constant.
const backOvershoot = 1.70158

func easeQuad(t float64) float64 { return t * t }

func easeCubic(t float64) float64 { return t * t * t }

func easeExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

func easeSine(t float64) float64 {
	return 1 - math.Cos(t*math.Pi/2)
}

func easeBack(t float64) float64 {
	return t * t * ((backOvershoot+1)*t - backOvershoot)
}

// easing builds a Generator for one base function in one mode.
func easing(f func(float64) float64, mode easeMode) Generator {
	return func(n int, _ Params) ([]Point, error) {
		if err := checkSamples(n); err != nil {
			return nil, err
		}
		return closedGrid(n, func(t float64) float64 {
			return applyMode(f, mode, t)
		}), nil
	}
}

package curve

import (
	"math"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
	kurbo "honnef.co/go/curve"
)

// Parametric generators: shapes with free parameters rather than a fixed
// algorithm. Closed i/(n-1) grid.

// Bezier evaluates a cubic Bezier anchored at (0,0) and (1,1) with
// control points fixed at x=0.25 and x=0.75 and free y-values. Only the
// y-values are free, so the horizontal component stays monotone and the
// vertical component is read directly as the value at t.
// Params: c1 (default 0.25), c2 (default 0.75).
func Bezier(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	c1 := p.get("c1", 0.25)
	c2 := p.get("c2", 0.75)
	bez := kurbo.CubicBez{
		P0: kurbo.Point{X: 0, Y: 0},
		P1: kurbo.Point{X: 0.25, Y: c1},
		P2: kurbo.Point{X: 0.75, Y: c2},
		P3: kurbo.Point{X: 1, Y: 1},
	}
	return closedGrid(n, func(t float64) float64 {
		return bez.Eval(t).Y
	}), nil
}

// Lissajous projects one axis of a lissajous figure onto [0,1].
// Params: ratio (frequency ratio, default 2), phase (default 0, in
// cycles), amplitude (default 1), freq (base frequency multiplier,
// default 1).
func Lissajous(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	ratio := p.get("ratio", 2)
	phase := p.get("phase", 0)
	amp := Clamp01(p.get("amplitude", 1))
	freq := p.get("freq", 1)
	return closedGrid(n, func(t float64) float64 {
		return 0.5 + 0.5*amp*math.Sin(2*math.Pi*(freq*ratio*t+phase))
	}), nil
}

// PerlinNoise samples one octave line of Perlin noise. Deterministic for
// a given seed; there is no ambient randomness.
// Params: seed (default 1), freq (default 2), alpha (default 2),
// beta (default 2).
func PerlinNoise(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	seed := int64(p.get("seed", 1))
	freq := p.get("freq", 2)
	alpha := p.get("alpha", 2)
	beta := p.get("beta", 2)
	gen := perlin.NewPerlin(alpha, beta, 3, seed)
	return closedGrid(n, func(t float64) float64 {
		// Noise1D is roughly [-1,1]; recentre onto [0,1].
		return 0.5 + 0.5*gen.Noise1D(t*freq)
	}), nil
}

// SimplexNoise samples a line through normalized OpenSimplex noise.
// Params: seed (default 1), freq (default 2).
func SimplexNoise(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	seed := int64(p.get("seed", 1))
	freq := p.get("freq", 2)
	gen := opensimplex.NewNormalized(seed)
	return closedGrid(n, func(t float64) float64 {
		return gen.Eval2(t*freq, 0)
	}), nil
}

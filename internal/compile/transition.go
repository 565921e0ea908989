package compile

import (
	"fmt"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/resolve"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// transitionSamples is the grid a static signal is materialized onto
// when a transition needs to bend it over time.
const transitionSamples = 32

// applyEntry reshapes the head of a dimmer signal. Crossfade blends
// from the boundary value (whatever the previous segment ended on);
// fade-through-black starts dark and eases up.
func applyEntry(sig resolve.Signal, spec *template.TransitionSpec, stepDurMS float64, g timing.Grid, boundary float64, reg *curve.Registry) (resolve.Signal, error) {
	return applyTransition(sig, spec, stepDurMS, g, boundary, true, reg)
}

// applyExit reshapes the tail. Crossfade settles onto the signal's own
// end value; fade-through-black eases out to dark.
func applyExit(sig resolve.Signal, spec *template.TransitionSpec, stepDurMS float64, g timing.Grid, reg *curve.Registry) (resolve.Signal, error) {
	return applyTransition(sig, spec, stepDurMS, g, 0, false, reg)
}

func applyTransition(sig resolve.Signal, spec *template.TransitionSpec, stepDurMS float64, g timing.Grid, boundary float64, atEntry bool, reg *curve.Registry) (resolve.Signal, error) {
	if spec == nil || spec.Mode == template.TransitionSnap || sig.IsNoOp() {
		return sig, nil
	}
	if stepDurMS <= 0 {
		return sig, nil
	}

	frac := g.BarsToMS(spec.Bars) / stepDurMS
	if frac <= 0 {
		return sig, nil
	}
	if frac > 1 {
		frac = 1
	}

	weight, err := shapeWeight(spec.ShapeCurveID, reg)
	if err != nil {
		return resolve.Signal{}, err
	}

	pts := materialize(sig)
	out := make([]curve.Point, len(pts))
	for i, p := range pts {
		v := p.V
		switch spec.Mode {
		case template.TransitionCrossfade:
			if atEntry && p.T < frac {
				w := weight(p.T / frac)
				v = boundary + w*(v-boundary)
			} else if !atEntry && p.T > 1-frac {
				// Settle onto the end value so the cut lands flat.
				w := weight((1 - p.T) / frac)
				end := pts[len(pts)-1].V
				v = end + w*(v-end)
			}
		case template.TransitionFadeBlack:
			if atEntry && p.T < frac {
				v *= weight(p.T / frac)
			} else if !atEntry && p.T > 1-frac {
				v *= weight((1 - p.T) / frac)
			}
		default:
			return resolve.Signal{}, fmt.Errorf("%w: %q", ErrUnknownTransition, spec.Mode)
		}
		out[i] = curve.Point{T: p.T, V: curve.Clamp01(v)}
	}
	return resolve.Sampled(out), nil
}

// shapeWeight resolves the blend shape: linear when unnamed, otherwise
// a registry curve evaluated as weight over the transition's local time.
func shapeWeight(curveID string, reg *curve.Registry) (func(float64) float64, error) {
	if curveID == "" {
		return func(u float64) float64 { return u }, nil
	}
	pts, err := reg.Resolve(curve.Definition{CurveID: curveID}, 0)
	if err != nil {
		return nil, err
	}
	return func(u float64) float64 {
		v, err := curve.InterpolateLinear(pts, u)
		if err != nil {
			return u
		}
		return v
	}, nil
}

// materialize returns the signal as points, sampling a static value
// onto a closed grid so a transition has something to bend.
func materialize(sig resolve.Signal) []curve.Point {
	if sig.Kind == resolve.SignalCurve {
		return sig.Points
	}
	pts := make([]curve.Point, transitionSamples)
	for i := range pts {
		t := float64(i) / float64(transitionSamples-1)
		pts[i] = curve.Point{T: t, V: sig.Value}
	}
	return pts
}

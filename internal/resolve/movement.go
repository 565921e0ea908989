package resolve

import (
	"fmt"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/template"
)

// MovementSignals holds the per-axis output of the movement resolver.
// Either axis may be NoOp; a HOLD movement is NoOp on both.
type MovementSignals struct {
	Pan  Signal
	Tilt Signal
}

// GenerateMovement maps a movement spec to pan/tilt signals. Curves are
// centred on 0.5 and scaled by the intensity depth; the compiler later
// recentres them on the resolved pose. HOLD yields NoOp on both axes,
// leaving the channels untouched for whatever wrote them last.
func GenerateMovement(spec template.MovementSpec, reg *curve.Registry, samples int) (MovementSignals, error) {
	if spec.Kind == template.MovementHold || spec.Kind == "" {
		return MovementSignals{Pan: NoOp(), Tilt: NoOp()}, nil
	}

	depth, err := IntensityDepth(spec.Intensity)
	if err != nil {
		return MovementSignals{}, err
	}
	lo, hi, err := boundsOrDefault(spec.Min, spec.Max)
	if err != nil {
		return MovementSignals{}, err
	}

	cycles := spec.Cycles
	if cycles <= 0 {
		cycles = 1
	}

	var panDef, tiltDef *curve.Definition
	switch spec.Kind {
	case template.MovementSweep:
		panDef = oscillator("sine", cycles, 0)
	case template.MovementScan:
		panDef = oscillator("triangle", cycles, 0)
	case template.MovementNod:
		tiltDef = oscillator("triangle", cycles, 0)
	case template.MovementWave:
		tiltDef = oscillator("sine", cycles, 0)
	case template.MovementCircle:
		// Quadrature pair traces a circle in pan/tilt space.
		panDef = oscillator("sine", cycles, 0)
		tiltDef = oscillator("cosine", cycles, 0)
	case template.MovementFigure8:
		// 1:2 frequency ratio crosses the centre twice per lap.
		panDef = oscillator("sine", cycles, 0)
		tiltDef = oscillator("sine", 2*cycles, 0)
	default:
		return MovementSignals{}, fmt.Errorf("%w: %q", ErrUnknownMovement, spec.Kind)
	}

	out := MovementSignals{Pan: NoOp(), Tilt: NoOp()}
	if panDef != nil {
		sig, err := movementSignal(reg, *panDef, samples, depth, lo, hi)
		if err != nil {
			return MovementSignals{}, err
		}
		out.Pan = sig
	}
	if tiltDef != nil {
		sig, err := movementSignal(reg, *tiltDef, samples, depth, lo, hi)
		if err != nil {
			return MovementSignals{}, err
		}
		out.Tilt = sig
	}
	return out, nil
}

func oscillator(id string, cycles, phase float64) *curve.Definition {
	return &curve.Definition{
		CurveID: id,
		Params:  curve.Params{"cycles": cycles, "phase": phase},
	}
}

// movementSignal resolves a curve and shapes it: depth compresses the
// excursion around the 0.5 centre, then the optional min/max bounds
// remap the travel range.
func movementSignal(reg *curve.Registry, def curve.Definition, samples int, depth, lo, hi float64) (Signal, error) {
	pts, err := reg.Resolve(def, samples)
	if err != nil {
		return Signal{}, err
	}
	sig := Sampled(pts)
	return sig.Map(func(v float64) float64 {
		v = 0.5 + depth*(v-0.5)
		return lo + v*(hi-lo)
	}), nil
}

// boundsOrDefault validates optional min/max bounds, defaulting to the
// full [0,1] range.
func boundsOrDefault(min, max *float64) (float64, float64, error) {
	lo, hi := 0.0, 1.0
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	if lo < 0 || hi > 1 || lo >= hi {
		return 0, 0, fmt.Errorf("%w: min %.3f max %.3f", ErrInvalidBounds, lo, hi)
	}
	return lo, hi, nil
}

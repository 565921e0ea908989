package resolve

import (
	"fmt"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/template"
)

// GenerateDimmer maps a dimmer spec to a brightness signal. Unlike a
// movement HOLD, a dimmer HOLD is an explicit static level: brightness
// is always asserted so an earlier plan cannot bleed through.
func GenerateDimmer(spec template.DimmerSpec, reg *curve.Registry, samples int) (Signal, error) {
	switch spec.Kind {
	case template.DimmerBlackout:
		return Static(0), nil
	case template.DimmerHold, template.DimmerStatic, "":
		return Static(levelOrDefault(spec.Level)), nil
	}

	depth, err := IntensityDepth(spec.Intensity)
	if err != nil {
		return Signal{}, err
	}
	lo, hi, err := boundsOrDefault(spec.Min, spec.Max)
	if err != nil {
		return Signal{}, err
	}

	cycles := spec.Cycles
	if cycles <= 0 {
		cycles = 1
	}

	var def curve.Definition
	switch spec.Kind {
	case template.DimmerPulse:
		def = curve.Definition{CurveID: "beat-pulse", Params: curve.Params{"cycles": cycles}}
	case template.DimmerSwell:
		def = curve.Definition{CurveID: "beat-swell", Params: curve.Params{"cycles": cycles}}
	case template.DimmerAccent:
		def = curve.Definition{CurveID: "beat-accent", Params: curve.Params{"cycles": cycles}}
	case template.DimmerBreathe:
		def = curve.Definition{CurveID: "sine", Params: curve.Params{"cycles": cycles}}
	case template.DimmerStrobe:
		def = curve.Definition{CurveID: "square", Params: curve.Params{"cycles": cycles, "duty": 0.5}}
	case template.DimmerRampUp:
		def = linearRamp()
	case template.DimmerRampDown:
		def = linearRamp()
		def.Modifiers = []string{curve.ModifierMirror}
	default:
		return Signal{}, fmt.Errorf("%w: %q", ErrUnknownDimmer, spec.Kind)
	}

	pts, err := reg.Resolve(def, samples)
	if err != nil {
		return Signal{}, err
	}
	sig := Sampled(pts)
	return sig.Map(func(v float64) float64 {
		// Depth raises the floor rather than scaling the peak: a smooth
		// pulse dips to half brightness, an intense one all the way out.
		v = (1 - depth) + depth*v
		return lo + v*(hi-lo)
	}), nil
}

// linearRamp is the straight-line bezier: control y-values on the
// diagonal at the x=0.25 / x=0.75 anchors.
func linearRamp() curve.Definition {
	return curve.Definition{
		CurveID: "bezier",
		Params:  curve.Params{"c1": 0.25, "c2": 0.75},
	}
}

func levelOrDefault(level *float64) float64 {
	if level != nil {
		return *level
	}
	return 1
}

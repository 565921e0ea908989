package resolve

import "github.com/nerrad567/lumen-core/internal/curve"

// SignalKind tags the Signal sum type.
type SignalKind int

const (
	// SignalNoOp leaves the channel untouched. Distinct from a static
	// value: downstream stages skip the channel entirely.
	SignalNoOp SignalKind = iota
	// SignalStatic writes one explicit value for the whole duration.
	SignalStatic
	// SignalCurve writes a sampled waveform.
	SignalCurve
)

// Signal is the resolver output for one channel: exactly one of nothing,
// a static value, or a curve. Construct through NoOp, Static, or
// Sampled; switch on Kind exhaustively when consuming.
type Signal struct {
	Kind   SignalKind    `json:"kind"`
	Value  float64       `json:"value,omitempty"`
	Points []curve.Point `json:"points,omitempty"`
}

// NoOp returns the leave-untouched signal.
func NoOp() Signal {
	return Signal{Kind: SignalNoOp}
}

// Static returns a single-value signal clamped to [0,1].
func Static(v float64) Signal {
	return Signal{Kind: SignalStatic, Value: curve.Clamp01(v)}
}

// Sampled returns a curve signal.
func Sampled(pts []curve.Point) Signal {
	return Signal{Kind: SignalCurve, Points: pts}
}

// IsNoOp reports whether the signal leaves its channel untouched.
func (s Signal) IsNoOp() bool {
	return s.Kind == SignalNoOp
}

// At evaluates the signal at normalized time t. NoOp evaluates to 0;
// callers are expected to have branched on Kind before asking for
// values.
func (s Signal) At(t float64) float64 {
	switch s.Kind {
	case SignalStatic:
		return s.Value
	case SignalCurve:
		v, err := curve.InterpolateLinear(s.Points, t)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

// Map returns a new signal with fn applied to the value(s). NoOp passes
// through unchanged; results are clamped to [0,1].
func (s Signal) Map(fn func(float64) float64) Signal {
	switch s.Kind {
	case SignalStatic:
		return Static(fn(s.Value))
	case SignalCurve:
		out := make([]curve.Point, len(s.Points))
		for i, p := range s.Points {
			out[i] = curve.Point{T: p.T, V: curve.Clamp01(fn(p.V))}
		}
		return Sampled(out)
	default:
		return s
	}
}

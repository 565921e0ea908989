package timing

import (
	"fmt"
	"math"
)

// Grid is a musical beat grid: tempo, meter, and the absolute time of
// bar zero. It is immutable data supplied by the upstream analysis
// stage; every conversion on it is pure.
type Grid struct {
	BPM         float64 `json:"bpm" yaml:"bpm"`
	BeatsPerBar int     `json:"beats_per_bar" yaml:"beats_per_bar"`
	OriginMS    float64 `json:"origin_ms" yaml:"origin_ms"`
}

// Validate checks the grid is usable.
func (g Grid) Validate() error {
	if g.BPM <= 0 {
		return fmt.Errorf("%w: bpm %v", ErrInvalidGrid, g.BPM)
	}
	if g.BeatsPerBar <= 0 {
		return fmt.Errorf("%w: beats per bar %d", ErrInvalidGrid, g.BeatsPerBar)
	}
	return nil
}

// BeatMS returns the duration of one beat in milliseconds.
func (g Grid) BeatMS() float64 {
	return 60000 / g.BPM
}

// BarMS returns the duration of one bar in milliseconds.
func (g Grid) BarMS() float64 {
	return g.BeatMS() * float64(g.BeatsPerBar)
}

// BarsToMS converts a duration in bars to milliseconds.
func (g Grid) BarsToMS(bars float64) float64 {
	return bars * g.BarMS()
}

// BeatsToMS converts a duration in beats to milliseconds.
func (g Grid) BeatsToMS(beats float64) float64 {
	return beats * g.BeatMS()
}

// MSToBars converts an absolute duration to bars.
func (g Grid) MSToBars(ms float64) float64 {
	return ms / g.BarMS()
}

// BarStartMS returns the absolute time of the given bar index.
func (g Grid) BarStartMS(bar int) float64 {
	return g.OriginMS + float64(bar)*g.BarMS()
}

// Quantize is a timing quantization policy. The vocabulary is closed;
// consumers switch exhaustively and treat anything else as a
// configuration error.
type Quantize string

const (
	// QuantizeNone leaves the time untouched.
	QuantizeNone Quantize = "none"
	// QuantizeBeat rounds to the nearest beat line.
	QuantizeBeat Quantize = "beat"
	// QuantizeBar rounds to the nearest bar line.
	QuantizeBar Quantize = "bar"
	// QuantizeDownbeat snaps forward to the next bar start unless the
	// time already sits on one. A cue can be late to the downbeat but
	// never early.
	QuantizeDownbeat Quantize = "downbeat"
)

// quantizeEpsilon absorbs float error when testing whether a time
// already sits on a grid line.
const quantizeEpsilon = 1e-6

// QuantizeMS snaps an absolute time to the grid under the given policy.
func (g Grid) QuantizeMS(ms float64, policy Quantize) (float64, error) {
	switch policy {
	case QuantizeNone, "":
		return ms, nil
	case QuantizeBeat:
		return g.snapNearest(ms, g.BeatMS()), nil
	case QuantizeBar:
		return g.snapNearest(ms, g.BarMS()), nil
	case QuantizeDownbeat:
		return g.snapForward(ms, g.BarMS()), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuantize, policy)
	}
}

func (g Grid) snapNearest(ms, unit float64) float64 {
	rel := ms - g.OriginMS
	return g.OriginMS + math.Round(rel/unit)*unit
}

func (g Grid) snapForward(ms, unit float64) float64 {
	rel := ms - g.OriginMS
	lines := rel / unit
	if math.Abs(lines-math.Round(lines)) < quantizeEpsilon {
		return g.OriginMS + math.Round(lines)*unit
	}
	return g.OriginMS + math.Ceil(lines)*unit
}

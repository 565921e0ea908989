package compile

import (
	"sort"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/resolve"
	"github.com/nerrad567/lumen-core/internal/rig"
)

// ChannelSegment is one compiled span of output: a signal on one
// channel of one fixture over an absolute time range. Segments are
// immutable once emitted; the list carries no back-references to the
// template that produced it.
type ChannelSegment struct {
	FixtureID string         `json:"fixture_id"`
	Channel   rig.Channel    `json:"channel"`
	StartMS   float64        `json:"start_ms"`
	EndMS     float64        `json:"end_ms"`
	Signal    resolve.Signal `json:"signal"`
	// Clamp is the fully narrowed floor/ceiling this segment scales
	// through on export.
	Clamp rig.Clamp `json:"clamp"`
}

// DurationMS returns the segment's length.
func (s ChannelSegment) DurationMS() float64 {
	return s.EndMS - s.StartMS
}

// ValueAt evaluates the segment's signal at an absolute time, clamped
// to the segment's range. NoOp segments evaluate to 0.
func (s ChannelSegment) ValueAt(ms float64) float64 {
	d := s.DurationMS()
	if d <= 0 {
		return s.Signal.At(0)
	}
	t := (ms - s.StartMS) / d
	return s.Signal.At(t)
}

// endValue is the signal's value at the segment's end, used to freeze a
// pose or seed a crossfade.
func (s ChannelSegment) endValue() float64 {
	return s.Signal.At(1)
}

// sortSegments orders output deterministically: by start time, then
// fixture, then channel.
func sortSegments(segs []ChannelSegment) {
	sort.SliceStable(segs, func(a, b int) bool {
		if segs[a].StartMS != segs[b].StartMS {
			return segs[a].StartMS < segs[b].StartMS
		}
		if segs[a].FixtureID != segs[b].FixtureID {
			return segs[a].FixtureID < segs[b].FixtureID
		}
		return segs[a].Channel < segs[b].Channel
	})
}

// reverseSignal flips a sampled signal's time axis. Static and NoOp
// signals are their own reversal, which is what lets ping-pong expansion
// leave them untouched.
func reverseSignal(s resolve.Signal) resolve.Signal {
	if s.Kind != resolve.SignalCurve {
		return s
	}
	return resolve.Sampled(curve.Reverse(s.Points))
}

// truncateSignal keeps the leading frac of a sampled signal,
// renormalizing time so the kept portion spans [0,1] again.
func truncateSignal(s resolve.Signal, frac float64) resolve.Signal {
	if s.Kind != resolve.SignalCurve || frac >= 1 {
		return s
	}
	n := len(s.Points)
	out := make([]curve.Point, n)
	for i := range out {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		v, err := curve.InterpolateLinear(s.Points, t*frac)
		if err != nil {
			return s
		}
		out[i] = curve.Point{T: t, V: v}
	}
	return resolve.Sampled(out)
}

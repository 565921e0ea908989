package compile

import "github.com/nerrad567/lumen-core/internal/rig"

// deviceRange is the raw DMX value span a clamp is expressed in.
const deviceRange = 255

// ScaleValue maps a normalized signal value into the clamped device
// window, returned as a fraction of the full range:
// (floor + v*(ceiling-floor)) / 255. A clamp of {0,255} is the identity.
func ScaleValue(v float64, c rig.Clamp) float64 {
	return (c.Floor + v*(c.Ceiling-c.Floor)) / deviceRange
}

// ScaleSegment applies the segment's narrowed clamp to its signal,
// producing a device-ready segment. Every sample keeps its time
// coordinate; NoOp signals pass through untouched.
func ScaleSegment(seg ChannelSegment) ChannelSegment {
	out := seg
	out.Signal = seg.Signal.Map(func(v float64) float64 {
		return ScaleValue(v, seg.Clamp)
	})
	out.Clamp = rig.FullRange
	return out
}

// ScaleSegments scales a whole compile result.
func ScaleSegments(segs []ChannelSegment) []ChannelSegment {
	out := make([]ChannelSegment, len(segs))
	for i, s := range segs {
		out[i] = ScaleSegment(s)
	}
	return out
}

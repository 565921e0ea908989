package resolve

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
)

// centrePosition is the fallback aim for roles a pose table does not
// name: dead centre rather than a failure, so a template written for a
// larger rig degrades gracefully.
const centrePosition = 0.5

// GeometryContext carries everything geometry resolution needs about
// one fixture: the fixture itself and its position within the role
// group (declaration order, left to right).
type GeometryContext struct {
	Fixture   rig.Fixture
	Role      string
	Index     int
	GroupSize int
}

// ResolveGeometry computes the normalized aim pose for one fixture
// under a step's geometry spec. The result is calibrated, polarity-
// corrected, clamped into the fixture's movement limits, and guaranteed
// inside [0,1] by construction.
func ResolveGeometry(spec template.GeometrySpec, gc GeometryContext) (template.Pose, error) {
	var pose template.Pose

	switch spec.Kind {
	case template.GeometryPoseTable:
		pose = lookupPose(spec.Poses, gc.Role)
	case template.GeometryFan:
		pose = fanPose(spec.Params, gc)
	case template.GeometryChevron:
		pose = chevronPose(spec.Params, gc)
	case template.GeometryTunnel:
		pose = tunnelPose(spec.Params, gc)
	case template.GeometryMirrorLR:
		pose = mirrorPose(spec.Params, gc)
	case template.GeometryLine:
		pose = template.Pose{
			Pan:  param(spec.Params, "pan", centrePosition),
			Tilt: param(spec.Params, "tilt", centrePosition),
		}
	case template.GeometryScattered:
		pose = scatteredPose(spec.Params, spec.Seed, gc)
	default:
		return template.Pose{}, fmt.Errorf("%w: %q", ErrUnknownGeometry, spec.Kind)
	}

	return finishPose(pose, gc.Fixture), nil
}

// lookupPose reads the role-keyed pose table; unknown roles fall back
// to centre rather than failing.
func lookupPose(poses map[string]template.Pose, role string) template.Pose {
	if p, ok := poses[role]; ok {
		return p
	}
	return template.Pose{Pan: centrePosition, Tilt: centrePosition}
}

// fanPose spreads pans evenly around a centre, all tilts equal.
// Params: spread (default 0.5), centre (default 0.5), tilt (default 0.5).
func fanPose(params map[string]float64, gc GeometryContext) template.Pose {
	spread := param(params, "spread", 0.5)
	centre := param(params, "centre", centrePosition)
	tilt := param(params, "tilt", centrePosition)
	return template.Pose{
		Pan:  centre + spread*(groupFraction(gc)-0.5),
		Tilt: tilt,
	}
}

// chevronPose forms a V: pans spread like a fan while tilt rises with
// distance from the centre fixture.
// Params: spread (default 0.5), tilt (default 0.3), depth (default 0.4).
func chevronPose(params map[string]float64, gc GeometryContext) template.Pose {
	spread := param(params, "spread", 0.5)
	baseTilt := param(params, "tilt", 0.3)
	depth := param(params, "depth", 0.4)
	frac := groupFraction(gc)
	dist := 2 * abs(frac-0.5) // 0 at centre, 1 at edges
	return template.Pose{
		Pan:  centrePosition + spread*(frac-0.5),
		Tilt: baseTilt + depth*dist,
	}
}

// tunnelPose converges all beams toward a shared vanishing point,
// forming a cone.
// Params: converge (default 0.2), tilt (default 0.7).
func tunnelPose(params map[string]float64, gc GeometryContext) template.Pose {
	converge := param(params, "converge", 0.2)
	tilt := param(params, "tilt", 0.7)
	frac := groupFraction(gc)
	// Outer fixtures aim furthest inward: invert the fan direction.
	return template.Pose{
		Pan:  centrePosition - converge*(frac-0.5),
		Tilt: tilt,
	}
}

// mirrorPose aims the left half at a pose and the right half at its
// left-right mirror.
// Params: pan (default 0.35), tilt (default 0.5).
func mirrorPose(params map[string]float64, gc GeometryContext) template.Pose {
	pan := param(params, "pan", 0.35)
	tilt := param(params, "tilt", centrePosition)
	if groupFraction(gc) >= 0.5 {
		pan = 1 - pan
	}
	return template.Pose{Pan: pan, Tilt: tilt}
}

// scatteredPose derives a stable pseudo-random pose per fixture from a
// hash of fixture id and seed. Identical rig and seed always scatter
// identically, including under parallel compilation.
// Params: pan_min/pan_max (default 0.2/0.8), tilt_min/tilt_max
// (default 0.3/0.9).
func scatteredPose(params map[string]float64, seed uint64, gc GeometryContext) template.Pose {
	panMin := param(params, "pan_min", 0.2)
	panMax := param(params, "pan_max", 0.8)
	tiltMin := param(params, "tilt_min", 0.3)
	tiltMax := param(params, "tilt_max", 0.9)

	panFrac := hashFraction(gc.Fixture.ID, seed, "pan")
	tiltFrac := hashFraction(gc.Fixture.ID, seed, "tilt")
	return template.Pose{
		Pan:  panMin + panFrac*(panMax-panMin),
		Tilt: tiltMin + tiltFrac*(tiltMax-tiltMin),
	}
}

// hashFraction maps (fixture id, seed, axis) to a stable value in [0,1).
func hashFraction(fixtureID string, seed uint64, axis string) float64 {
	d := xxhash.New()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(seed >> (8 * i))
	}
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(fixtureID)
	_, _ = d.WriteString(axis)
	const scale = float64(1) / (1 << 53)
	return float64(d.Sum64()>>11) * scale
}

// finishPose applies calibration trim, polarity inversion, movement
// limits, and the final [0,1] clamp.
func finishPose(p template.Pose, f rig.Fixture) template.Pose {
	pan := p.Pan + f.Calibration.PanOffset
	tilt := p.Tilt + f.Calibration.TiltOffset
	if f.InvertPan {
		pan = 1 - pan
	}
	if f.InvertTilt {
		tilt = 1 - tilt
	}
	return template.Pose{
		Pan:  f.Limits.ClampPan(clamp01(pan)),
		Tilt: f.Limits.ClampTilt(clamp01(tilt)),
	}
}

// groupFraction places a fixture within its group on [0,1]; a lone
// fixture sits at the centre.
func groupFraction(gc GeometryContext) float64 {
	if gc.GroupSize <= 1 {
		return 0.5
	}
	return float64(gc.Index) / float64(gc.GroupSize-1)
}

func param(params map[string]float64, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

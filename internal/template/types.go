package template

import (
	"time"

	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// Pose is a normalized pan/tilt aim point.
type Pose struct {
	Pan  float64 `json:"pan" yaml:"pan"`
	Tilt float64 `json:"tilt" yaml:"tilt"`
}

// GeometryKind selects the geometry algorithm for a step. Closed
// vocabulary: the resolver switches exhaustively and an unknown kind is
// a hard compile failure.
type GeometryKind string

const (
	// GeometryPoseTable looks the fixture's role up in the step's pose
	// table; unknown roles fall back to centre.
	GeometryPoseTable GeometryKind = "pose-table"
	GeometryFan       GeometryKind = "fan"
	GeometryChevron   GeometryKind = "chevron"
	GeometryTunnel    GeometryKind = "tunnel-cone"
	GeometryMirrorLR  GeometryKind = "mirror-lr"
	GeometryLine      GeometryKind = "line"
	GeometryScattered GeometryKind = "scattered"
)

// GeometrySpec describes where a step aims each fixture.
type GeometrySpec struct {
	Kind GeometryKind `json:"kind" yaml:"kind"`
	// Poses is the role-keyed pose table, used by pose-table geometry.
	Poses map[string]Pose `json:"poses,omitempty" yaml:"poses,omitempty"`
	// Params parameterize the named algorithms (spread, centre, depth...).
	Params map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	// Seed drives deterministic scattering.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Intensity is the closed smooth/dramatic/intense vocabulary. It maps
// to a numeric depth through a fixed table in the resolvers.
type Intensity string

const (
	IntensitySmooth   Intensity = "smooth"
	IntensityDramatic Intensity = "dramatic"
	IntensityIntense  Intensity = "intense"
)

// MovementKind selects the movement pattern for a step.
type MovementKind string

const (
	// MovementHold leaves the position channels untouched (NoOp).
	MovementHold    MovementKind = "hold"
	MovementSweep   MovementKind = "sweep"
	MovementCircle  MovementKind = "circle"
	MovementFigure8 MovementKind = "figure-eight"
	MovementNod     MovementKind = "nod"
	MovementWave    MovementKind = "tilt-wave"
	MovementScan    MovementKind = "pan-scan"
)

// MovementSpec describes how a step moves the beams around the resolved
// geometry.
type MovementSpec struct {
	Kind      MovementKind `json:"kind" yaml:"kind"`
	Intensity Intensity    `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Cycles    float64      `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Min       *float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64     `json:"max,omitempty" yaml:"max,omitempty"`
}

// DimmerKind selects the brightness pattern for a step.
type DimmerKind string

const (
	// DimmerHold emits the current static level — an explicit value, not
	// a NoOp; see the resolve package for the distinction.
	DimmerHold     DimmerKind = "hold"
	DimmerStatic   DimmerKind = "static"
	DimmerPulse    DimmerKind = "pulse"
	DimmerSwell    DimmerKind = "swell"
	DimmerBreathe  DimmerKind = "breathe"
	DimmerStrobe   DimmerKind = "strobe"
	DimmerAccent   DimmerKind = "accent"
	DimmerRampUp   DimmerKind = "ramp-up"
	DimmerRampDown DimmerKind = "ramp-down"
	DimmerBlackout DimmerKind = "blackout"
)

// DimmerSpec describes a step's brightness behaviour.
type DimmerSpec struct {
	Kind      DimmerKind `json:"kind" yaml:"kind"`
	Intensity Intensity  `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Cycles    float64    `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	// Level is the static brightness for static/hold kinds.
	Level *float64 `json:"level,omitempty" yaml:"level,omitempty"`
	Min   *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// StepTiming places a step on the musical grid.
type StepTiming struct {
	// Bars is the step's musical duration.
	Bars float64 `json:"bars" yaml:"bars"`
	// OffsetBars shifts the step's start relative to the window start.
	OffsetBars float64 `json:"offset_bars,omitempty" yaml:"offset_bars,omitempty"`
	// Quantize snaps the computed start to the grid.
	Quantize timing.Quantize `json:"quantize,omitempty" yaml:"quantize,omitempty"`
	// Phase spreads the start across the fixture group.
	Phase *timing.PhaseSpec `json:"phase,omitempty" yaml:"phase,omitempty"`
}

// TransitionMode is the closed transition vocabulary.
type TransitionMode string

const (
	TransitionSnap      TransitionMode = "snap"
	TransitionCrossfade TransitionMode = "crossfade"
	TransitionFadeBlack TransitionMode = "fade-through-black"
)

// TransitionSpec describes how a step blends at its entry or exit.
type TransitionSpec struct {
	Mode TransitionMode `json:"mode" yaml:"mode"`
	Bars float64        `json:"bars,omitempty" yaml:"bars,omitempty"`
	// ShapeCurveID names the blend shape; empty means linear.
	ShapeCurveID string `json:"shape_curve_id,omitempty" yaml:"shape_curve_id,omitempty"`
}

// RepeatMode is the closed repeat vocabulary.
type RepeatMode string

const (
	// RepeatClosed runs each cycle forward.
	RepeatClosed RepeatMode = "closed"
	// RepeatPingPong time-reverses odd-indexed cycles.
	RepeatPingPong RepeatMode = "ping-pong"
	// RepeatOpen treats the loop as one continuous curve resampled to
	// the window's actual duration.
	RepeatOpen RepeatMode = "open"
)

// RemainderPolicy is the closed trailing-partial-cycle vocabulary.
type RemainderPolicy string

const (
	RemainderHoldLastPose RemainderPolicy = "hold-last-pose"
	RemainderTruncateLast RemainderPolicy = "truncate-last"
	RemainderResampleTime RemainderPolicy = "resample-time"
	RemainderAppendExit   RemainderPolicy = "append-exit-step"
)

// RepeatContract governs how a template's looping steps expand over the
// playback window.
type RepeatContract struct {
	Repeatable  bool            `json:"repeatable" yaml:"repeatable"`
	Mode        RepeatMode      `json:"mode,omitempty" yaml:"mode,omitempty"`
	CycleBars   float64         `json:"cycle_bars,omitempty" yaml:"cycle_bars,omitempty"`
	LoopStepIDs []string        `json:"loop_step_ids,omitempty" yaml:"loop_step_ids,omitempty"`
	Boundary    *TransitionSpec `json:"boundary,omitempty" yaml:"boundary,omitempty"`
	Remainder   RemainderPolicy `json:"remainder,omitempty" yaml:"remainder,omitempty"`
}

// IterationRule interpolates a step's parameters across repeat cycles.
// Scalar fields approach Target linearly; the categorical field switches
// at the halfway mark. Field names form a closed vocabulary resolved by
// the compiler.
type IterationRule struct {
	ScalarField  string  `json:"scalar_field,omitempty" yaml:"scalar_field,omitempty"`
	ScalarTarget float64 `json:"scalar_target,omitempty" yaml:"scalar_target,omitempty"`

	CategoricalField  string `json:"categorical_field,omitempty" yaml:"categorical_field,omitempty"`
	CategoricalTarget string `json:"categorical_target,omitempty" yaml:"categorical_target,omitempty"`
}

// Step is one unit of choreography: geometry, movement, and dimmer
// intent over a musical duration, with transitions at both edges.
type Step struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Role addresses the fixture group this step drives.
	Role string `json:"role" yaml:"role"`

	Geometry GeometrySpec `json:"geometry" yaml:"geometry"`
	Movement MovementSpec `json:"movement" yaml:"movement"`
	Dimmer   DimmerSpec   `json:"dimmer" yaml:"dimmer"`
	Timing   StepTiming   `json:"timing" yaml:"timing"`

	Entry *TransitionSpec `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit  *TransitionSpec `json:"exit,omitempty" yaml:"exit,omitempty"`

	// Clamp is the step-level dimmer clamp, the most specific level of
	// clamp precedence.
	Clamp *rig.Clamp `json:"clamp,omitempty" yaml:"clamp,omitempty"`

	Iterate *IterationRule `json:"iterate,omitempty" yaml:"iterate,omitempty"`
}

// Defaults carries template-wide settings a step can narrow but not
// escape.
type Defaults struct {
	// Clamp is the template-level clamp per channel.
	Clamp map[rig.Channel]rig.Clamp `json:"clamp,omitempty" yaml:"clamp,omitempty"`
	// Samples is the per-step curve sample count; 0 uses each curve's
	// registered default.
	Samples int `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Template owns ordered steps, a repeat contract, and defaults.
type Template struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`

	Steps    []Step         `json:"steps" yaml:"steps"`
	Repeat   RepeatContract `json:"repeat" yaml:"repeat"`
	Defaults Defaults       `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	SortOrder int       `json:"sort_order,omitempty" yaml:"sort_order,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Step returns the step with the given id.
func (t *Template) Step(id string) (Step, bool) {
	for _, s := range t.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// LoopSteps returns the steps named by the repeat contract, in contract
// order. Validation guarantees every id resolves.
func (t *Template) LoopSteps() []Step {
	out := make([]Step, 0, len(t.Repeat.LoopStepIDs))
	for _, id := range t.Repeat.LoopStepIDs {
		if s, ok := t.Step(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// DeepCopy returns an independent copy of the template. The registry
// hands copies out so callers can never mutate the cache.
func (t *Template) DeepCopy() *Template {
	out := *t
	out.Steps = make([]Step, len(t.Steps))
	for i, s := range t.Steps {
		out.Steps[i] = s.deepCopy()
	}
	out.Repeat.LoopStepIDs = append([]string(nil), t.Repeat.LoopStepIDs...)
	if t.Repeat.Boundary != nil {
		b := *t.Repeat.Boundary
		out.Repeat.Boundary = &b
	}
	if t.Defaults.Clamp != nil {
		out.Defaults.Clamp = make(map[rig.Channel]rig.Clamp, len(t.Defaults.Clamp))
		for k, v := range t.Defaults.Clamp {
			out.Defaults.Clamp[k] = v
		}
	}
	return &out
}

func (s Step) deepCopy() Step {
	out := s
	if s.Geometry.Poses != nil {
		out.Geometry.Poses = make(map[string]Pose, len(s.Geometry.Poses))
		for k, v := range s.Geometry.Poses {
			out.Geometry.Poses[k] = v
		}
	}
	if s.Geometry.Params != nil {
		out.Geometry.Params = make(map[string]float64, len(s.Geometry.Params))
		for k, v := range s.Geometry.Params {
			out.Geometry.Params[k] = v
		}
	}
	out.Movement.Min = copyFloat(s.Movement.Min)
	out.Movement.Max = copyFloat(s.Movement.Max)
	out.Dimmer.Level = copyFloat(s.Dimmer.Level)
	out.Dimmer.Min = copyFloat(s.Dimmer.Min)
	out.Dimmer.Max = copyFloat(s.Dimmer.Max)
	if s.Timing.Phase != nil {
		p := *s.Timing.Phase
		out.Timing.Phase = &p
	}
	if s.Entry != nil {
		e := *s.Entry
		out.Entry = &e
	}
	if s.Exit != nil {
		e := *s.Exit
		out.Exit = &e
	}
	if s.Clamp != nil {
		c := *s.Clamp
		out.Clamp = &c
	}
	if s.Iterate != nil {
		it := *s.Iterate
		out.Iterate = &it
	}
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

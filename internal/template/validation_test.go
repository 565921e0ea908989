package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/lumen-core/internal/rig"
)

// validTemplate builds a well-formed two-step template for mutation in
// table tests.
func validTemplate() *Template {
	return &Template{
		ID:   "wave-sweep",
		Name: "Wave Sweep",
		Slug: "wave-sweep",
		Steps: []Step{
			{
				ID:   "sweep-out",
				Role: "front-wash",
				Geometry: GeometrySpec{
					Kind:   GeometryFan,
					Params: map[string]float64{"spread": 0.6},
				},
				Movement: MovementSpec{Kind: MovementSweep, Intensity: IntensityDramatic, Cycles: 2},
				Dimmer:   DimmerSpec{Kind: DimmerSwell, Intensity: IntensitySmooth, Cycles: 4},
				Timing:   StepTiming{Bars: 4},
			},
			{
				ID:   "sweep-back",
				Role: "front-wash",
				Geometry: GeometrySpec{
					Kind: GeometryPoseTable,
					Poses: map[string]Pose{
						"front-wash": {Pan: 0.5, Tilt: 0.6},
					},
				},
				Movement: MovementSpec{Kind: MovementHold},
				Dimmer:   DimmerSpec{Kind: DimmerStatic, Level: floatPtr(0.7)},
				Timing:   StepTiming{Bars: 4},
			},
		},
		Repeat: RepeatContract{
			Repeatable:  true,
			Mode:        RepeatClosed,
			CycleBars:   8,
			LoopStepIDs: []string{"sweep-out", "sweep-back"},
			Remainder:   RemainderHoldLastPose,
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Template)
		wantErr error
	}{
		{name: "valid", mutate: func(*Template) {}},
		{
			name:    "empty name",
			mutate:  func(tpl *Template) { tpl.Name = "  " },
			wantErr: ErrInvalidTemplate,
		},
		{
			name:    "name too long",
			mutate:  func(tpl *Template) { tpl.Name = strings.Repeat("a", 101) },
			wantErr: ErrInvalidTemplate,
		},
		{
			name:    "no steps",
			mutate:  func(tpl *Template) { tpl.Steps = nil },
			wantErr: ErrNoSteps,
		},
		{
			name:    "duplicate step id",
			mutate:  func(tpl *Template) { tpl.Steps[1].ID = "sweep-out" },
			wantErr: ErrDuplicateStep,
		},
		{
			name:    "zero duration step",
			mutate:  func(tpl *Template) { tpl.Steps[0].Timing.Bars = 0 },
			wantErr: ErrInvalidTiming,
		},
		{
			name:    "unknown intensity",
			mutate:  func(tpl *Template) { tpl.Steps[0].Movement.Intensity = "extreme" },
			wantErr: ErrUnknownIntensity,
		},
		{
			name: "unknown transition mode",
			mutate: func(tpl *Template) {
				tpl.Steps[0].Entry = &TransitionSpec{Mode: "dissolve", Bars: 1}
			},
			wantErr: ErrUnknownTransition,
		},
		{
			name: "crossfade without duration",
			mutate: func(tpl *Template) {
				tpl.Steps[0].Exit = &TransitionSpec{Mode: TransitionCrossfade}
			},
			wantErr: ErrInvalidTiming,
		},
		{
			name: "snap needs no duration",
			mutate: func(tpl *Template) {
				tpl.Steps[0].Exit = &TransitionSpec{Mode: TransitionSnap}
			},
		},
		{
			name: "step clamp inverted",
			mutate: func(tpl *Template) {
				tpl.Steps[0].Clamp = &rig.Clamp{Floor: 200, Ceiling: 100}
			},
			wantErr: rig.ErrInvalidClamp,
		},
		{
			name:    "repeatable with empty loop list",
			mutate:  func(tpl *Template) { tpl.Repeat.LoopStepIDs = nil },
			wantErr: ErrEmptyLoop,
		},
		{
			name: "loop references unknown step",
			mutate: func(tpl *Template) {
				tpl.Repeat.LoopStepIDs = []string{"sweep-out", "ghost"}
			},
			wantErr: ErrUnknownLoopStep,
		},
		{
			name:    "unknown repeat mode",
			mutate:  func(tpl *Template) { tpl.Repeat.Mode = "bounce" },
			wantErr: ErrUnknownRepeatMode,
		},
		{
			name:    "zero cycle length",
			mutate:  func(tpl *Template) { tpl.Repeat.CycleBars = 0 },
			wantErr: ErrInvalidTiming,
		},
		{
			name:    "unknown remainder policy",
			mutate:  func(tpl *Template) { tpl.Repeat.Remainder = "loop-forever" },
			wantErr: ErrUnknownRemainder,
		},
		{
			name: "template clamp inverted",
			mutate: func(tpl *Template) {
				tpl.Defaults.Clamp = map[rig.Channel]rig.Clamp{
					rig.ChannelDimmer: {Floor: 250, Ceiling: 10},
				}
			},
			wantErr: rig.ErrInvalidClamp,
		},
		{
			name: "non-repeatable skips loop checks",
			mutate: func(tpl *Template) {
				tpl.Repeat = RepeatContract{Repeatable: false}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(tpl)
			err := Validate(tpl)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("got %v, want ErrInvalidTemplate", err)
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	orig := validTemplate()
	cp := orig.DeepCopy()

	cp.Steps[0].Geometry.Params["spread"] = 0.1
	cp.Steps[1].Geometry.Poses["front-wash"] = Pose{Pan: 0, Tilt: 0}
	*cp.Steps[1].Dimmer.Level = 0.1
	cp.Repeat.LoopStepIDs[0] = "mutated"

	if orig.Steps[0].Geometry.Params["spread"] != 0.6 {
		t.Error("geometry params shared between copies")
	}
	if orig.Steps[1].Geometry.Poses["front-wash"].Tilt != 0.6 {
		t.Error("pose table shared between copies")
	}
	if *orig.Steps[1].Dimmer.Level != 0.7 {
		t.Error("dimmer level shared between copies")
	}
	if orig.Repeat.LoopStepIDs[0] != "sweep-out" {
		t.Error("loop step ids shared between copies")
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
id: pulse-chase
name: Pulse Chase
steps:
  - id: chase
    role: front-wash
    geometry:
      kind: fan
      params: {spread: 0.5}
    movement:
      kind: pan-scan
      intensity: intense
      cycles: 4
    dimmer:
      kind: pulse
      cycles: 8
    timing:
      bars: 4
      quantize: bar
      phase:
        unit: bars
        ordering: left-to-right
        spread: 1
        wrap: true
repeat:
  repeatable: true
  mode: ping-pong
  cycle_bars: 4
  loop_step_ids: [chase]
  remainder: truncate-last
`)
	tpl, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Repeat.Mode != RepeatPingPong {
		t.Errorf("mode = %q", tpl.Repeat.Mode)
	}
	if tpl.Steps[0].Timing.Phase == nil || !tpl.Steps[0].Timing.Phase.Wrap {
		t.Error("phase spec not parsed")
	}
}

func TestParseYAMLRejectsInvalid(t *testing.T) {
	doc := []byte(`
id: broken
name: Broken
steps:
  - id: only
    role: wash
    geometry: {kind: fan}
    movement: {kind: hold}
    dimmer: {kind: blackout}
    timing: {bars: 2}
repeat:
  repeatable: true
  mode: closed
  cycle_bars: 2
  loop_step_ids: []
`)
	if _, err := Parse(doc); !errors.Is(err, ErrEmptyLoop) {
		t.Fatalf("got %v, want ErrEmptyLoop", err)
	}
}

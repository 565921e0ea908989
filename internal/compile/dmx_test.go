package compile

import (
	"math"
	"testing"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/resolve"
	"github.com/nerrad567/lumen-core/internal/rig"
)

func TestScaleValue(t *testing.T) {
	clamp := rig.Clamp{Floor: 50, Ceiling: 200}

	tests := []struct {
		v    float64
		want float64
	}{
		{0, 50.0 / 255},
		{1, 200.0 / 255},
		{0.5, 125.0 / 255},
	}
	for _, tt := range tests {
		if got := ScaleValue(tt.v, clamp); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ScaleValue(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}

	if got := ScaleValue(0.5, rig.FullRange); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("full-range clamp is not the identity: %v", got)
	}
}

func TestScaleSegmentPreservesTimeAxis(t *testing.T) {
	seg := ChannelSegment{
		FixtureID: "mh-1",
		Channel:   rig.ChannelDimmer,
		StartMS:   0,
		EndMS:     4000,
		Signal: resolve.Sampled([]curve.Point{
			{T: 0, V: 0}, {T: 0.25, V: 1}, {T: 1, V: 0.5},
		}),
		Clamp: rig.Clamp{Floor: 50, Ceiling: 200},
	}

	out := ScaleSegment(seg)
	if len(out.Signal.Points) != 3 {
		t.Fatalf("point count changed: %d", len(out.Signal.Points))
	}
	wantT := []float64{0, 0.25, 1}
	wantV := []float64{50.0 / 255, 200.0 / 255, 125.0 / 255}
	for i, p := range out.Signal.Points {
		if p.T != wantT[i] {
			t.Errorf("point %d t = %v, want %v", i, p.T, wantT[i])
		}
		if math.Abs(p.V-wantV[i]) > 1e-12 {
			t.Errorf("point %d v = %v, want %v", i, p.V, wantV[i])
		}
	}
	if out.Clamp != rig.FullRange {
		t.Errorf("scaled segment clamp = %+v, want full range", out.Clamp)
	}

	// The original is untouched.
	if seg.Signal.Points[1].V != 1 {
		t.Error("ScaleSegment mutated its input")
	}
}

func TestScaleSegmentNoOpPassthrough(t *testing.T) {
	seg := ChannelSegment{
		FixtureID: "mh-1",
		Channel:   rig.ChannelPan,
		Signal:    resolve.NoOp(),
		Clamp:     rig.Clamp{Floor: 50, Ceiling: 200},
	}
	if out := ScaleSegment(seg); !out.Signal.IsNoOp() {
		t.Errorf("NoOp scaled into %+v", out.Signal)
	}
}

func TestScaleSegments(t *testing.T) {
	segs := []ChannelSegment{
		{Signal: resolve.Static(0), Clamp: rig.Clamp{Floor: 80, Ceiling: 200}},
		{Signal: resolve.Static(1), Clamp: rig.Clamp{Floor: 80, Ceiling: 200}},
	}
	out := ScaleSegments(segs)
	if math.Abs(out[0].Signal.Value-80.0/255) > 1e-12 {
		t.Errorf("floor scaled to %v, want 80/255", out[0].Signal.Value)
	}
	if math.Abs(out[1].Signal.Value-200.0/255) > 1e-12 {
		t.Errorf("ceiling scaled to %v, want 200/255", out[1].Signal.Value)
	}
}

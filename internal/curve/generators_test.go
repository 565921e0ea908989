package curve

import (
	"errors"
	"testing"
)

func TestAllGeneratorsSatisfyCurveContract(t *testing.T) {
	reg := Builtin()
	for _, info := range reg.List() {
		for _, n := range []int{2, 3, 16, 64, 257} {
			pts, err := reg.Resolve(Definition{CurveID: info.ID}, n)
			if err != nil {
				t.Fatalf("%s with n=%d: %v", info.ID, n, err)
			}
			checkCurveInvariants(t, pts, n)
		}
	}
}

func TestAllGeneratorsRejectTooFewSamples(t *testing.T) {
	reg := Builtin()
	for _, info := range reg.List() {
		for _, n := range []int{1, 0, -4} {
			_, err := reg.Resolve(Definition{CurveID: info.ID}, n)
			if n <= 0 {
				// n <= 0 falls back to the registered default.
				if err != nil {
					t.Errorf("%s with n=%d: %v", info.ID, n, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidSamples) {
				t.Errorf("%s with n=%d: got %v, want ErrInvalidSamples", info.ID, n, err)
			}
		}
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	reg := Builtin()
	for _, info := range reg.List() {
		a, err := reg.Resolve(Definition{CurveID: info.ID}, 32)
		if err != nil {
			t.Fatalf("%s: %v", info.ID, err)
		}
		b, err := reg.Resolve(Definition{CurveID: info.ID}, 32)
		if err != nil {
			t.Fatalf("%s: %v", info.ID, err)
		}
		pointsAlmostEqual(t, b, a)
	}
}

func TestSineStartsAtCentre(t *testing.T) {
	pts, err := Sine(64, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pts[0].V, 0.5) {
		t.Errorf("sine starts at %v, want 0.5", pts[0].V)
	}
}

func TestCosineStartsAtPeak(t *testing.T) {
	pts, err := Cosine(64, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pts[0].V, 1) {
		t.Errorf("cosine starts at %v, want 1", pts[0].V)
	}
}

func TestSquareDutyCycle(t *testing.T) {
	pts, err := Square(100, Params{"cycles": 1, "duty": 0.25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high := 0
	for _, p := range pts {
		if p.V == 1 {
			high++
		}
	}
	if high != 25 {
		t.Errorf("high samples = %d, want 25", high)
	}
}

func TestTrianglePeaksAtMidpoint(t *testing.T) {
	pts, err := Triangle(4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pointsAlmostEqual(t, pts, []Point{
		{T: 0, V: 0},
		{T: 0.25, V: 0.5},
		{T: 0.5, V: 1},
		{T: 0.75, V: 0.5},
	})
}

func TestEasingEndpoints(t *testing.T) {
	reg := Builtin()
	ids := []string{
		"ease-in-quad", "ease-out-quad", "ease-in-out-quad",
		"ease-in-cubic", "ease-out-cubic", "ease-in-out-cubic",
		"ease-in-expo", "ease-out-expo", "ease-in-out-expo",
		"ease-in-sine", "ease-out-sine", "ease-in-out-sine",
		"ease-in-back", "ease-out-back", "ease-in-out-back",
	}
	for _, id := range ids {
		pts, err := reg.Resolve(Definition{CurveID: id}, 33)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if !almostEqual(pts[0].V, 0) {
			t.Errorf("%s starts at %v, want 0", id, pts[0].V)
		}
		if !almostEqual(pts[len(pts)-1].V, 1) {
			t.Errorf("%s ends at %v, want 1", id, pts[len(pts)-1].V)
		}
	}
}

func TestEaseInOutSymmetry(t *testing.T) {
	pts, err := easing(easeQuad, easeInOut)(33, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pts[16].V, 0.5) {
		t.Errorf("in-out midpoint = %v, want 0.5", pts[16].V)
	}
}

func TestMotionCurvesSettle(t *testing.T) {
	reg := Builtin()
	for _, id := range []string{"bounce", "elastic", "overshoot"} {
		pts, err := reg.Resolve(Definition{CurveID: id}, 49)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if !almostEqual(pts[len(pts)-1].V, 1) {
			t.Errorf("%s ends at %v, want 1", id, pts[len(pts)-1].V)
		}
	}
}

func TestBeatSwellPeaksPerBeat(t *testing.T) {
	pts, err := BeatSwell(64, Params{"cycles": 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Each beat spans 16 samples; the half-sine is zero at each beat
	// boundary and peaks mid-beat.
	for beat := 0; beat < 4; beat++ {
		if !almostEqual(pts[beat*16].V, 0) {
			t.Errorf("beat %d boundary = %v, want 0", beat, pts[beat*16].V)
		}
		if !almostEqual(pts[beat*16+8].V, 1) {
			t.Errorf("beat %d peak = %v, want 1", beat, pts[beat*16+8].V)
		}
	}
}

func TestBeatAccentFirstBeatStrongest(t *testing.T) {
	pts, err := BeatAccent(64, Params{"cycles": 4, "decay": 3, "accent": 0.4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pts[0].V, 1) {
		t.Errorf("accented beat attack = %v, want 1", pts[0].V)
	}
	if !almostEqual(pts[16].V, 0.4) {
		t.Errorf("unaccented beat attack = %v, want 0.4", pts[16].V)
	}
}

func TestBezierAnchors(t *testing.T) {
	pts, err := Bezier(33, Params{"c1": 0.1, "c2": 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pts[0].V, 0) {
		t.Errorf("bezier starts at %v, want 0", pts[0].V)
	}
	if !almostEqual(pts[len(pts)-1].V, 1) {
		t.Errorf("bezier ends at %v, want 1", pts[len(pts)-1].V)
	}
}

func TestNoiseSeedsAreIndependent(t *testing.T) {
	for _, id := range []string{"perlin", "simplex"} {
		reg := Builtin()
		a, err := reg.Resolve(Definition{CurveID: id, Params: Params{"seed": 1}}, 64)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		b, err := reg.Resolve(Definition{CurveID: id, Params: Params{"seed": 2}}, 64)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		same := true
		for i := range a {
			if !almostEqual(a[i].V, b[i].V) {
				same = false
				break
			}
		}
		if same {
			t.Errorf("%s: seeds 1 and 2 produced identical curves", id)
		}
	}
}

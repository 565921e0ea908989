package curve

import (
	"errors"
	"testing"
)

func TestSampleUniformGrid(t *testing.T) {
	got, err := SampleUniformGrid(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0.0, 0.25, 0.5, 0.75}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSampleUniformGridTooFew(t *testing.T) {
	if _, err := SampleUniformGrid(1); !errors.Is(err, ErrInvalidSamples) {
		t.Fatalf("got %v, want ErrInvalidSamples", err)
	}
}

func TestInterpolateLinear(t *testing.T) {
	ramp := []Point{{T: 0, V: 0}, {T: 1, V: 1}}
	step := []Point{{T: 0, V: 0}, {T: 0.5, V: 0.2}, {T: 0.5, V: 0.9}, {T: 1, V: 1}}

	tests := []struct {
		name string
		pts  []Point
		t    float64
		want float64
	}{
		{name: "midpoint of unit ramp", pts: ramp, t: 0.5, want: 0.5},
		{name: "quarter of unit ramp", pts: ramp, t: 0.25, want: 0.25},
		{name: "below range clamps to first", pts: ramp, t: -2, want: 0},
		{name: "above range clamps to last", pts: ramp, t: 3, want: 1},
		{name: "exact first point", pts: ramp, t: 0, want: 0},
		{name: "exact last point", pts: ramp, t: 1, want: 1},
		{name: "degenerate bracket takes lower value", pts: step, t: 0.5, want: 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InterpolateLinear(tt.pts, tt.t)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpolateLinearEmpty(t *testing.T) {
	if _, err := InterpolateLinear(nil, 0.5); !errors.Is(err, ErrEmptyCurve) {
		t.Fatalf("got %v, want ErrEmptyCurve", err)
	}
}

func TestApplyPhaseShiftRoundTrip(t *testing.T) {
	orig, err := Sine(64, Params{"cycles": 2})
	if err != nil {
		t.Fatalf("generating sine: %v", err)
	}

	// A grid-aligned offset (0.25 on a 64-point grid) round-trips exactly:
	// every read lands on a sample and interpolation is the identity.
	shifted, err := ApplyPhaseShift(orig, 0.25, true, 64)
	if err != nil {
		t.Fatalf("forward shift: %v", err)
	}
	back, err := ApplyPhaseShift(shifted, -0.25, true, 64)
	if err != nil {
		t.Fatalf("reverse shift: %v", err)
	}
	pointsAlmostEqual(t, back, orig)

	// A non-aligned offset interpolates between samples both ways, which
	// shaves the extremes slightly; the round trip stays within a coarse
	// tolerance.
	shifted, err = ApplyPhaseShift(orig, 0.3, true, 64)
	if err != nil {
		t.Fatalf("forward shift: %v", err)
	}
	back, err = ApplyPhaseShift(shifted, -0.3, true, 64)
	if err != nil {
		t.Fatalf("reverse shift: %v", err)
	}
	for i := range orig {
		if diff := back[i].V - orig[i].V; diff > 0.02 || diff < -0.02 {
			t.Errorf("point %d: round trip %v, original %v", i, back[i].V, orig[i].V)
		}
	}
}

func TestApplyPhaseShiftClamped(t *testing.T) {
	ramp := []Point{{T: 0, V: 0}, {T: 1, V: 1}}
	out, err := ApplyPhaseShift(ramp, 0.5, false, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Reads at t+0.5 clamp to 1 beyond the end of the ramp.
	pointsAlmostEqual(t, out, []Point{
		{T: 0, V: 0.5},
		{T: 0.25, V: 0.75},
		{T: 0.5, V: 1},
		{T: 0.75, V: 1},
	})
}

func TestMultiplyCurves(t *testing.T) {
	full := []Point{{T: 0, V: 1}, {T: 1, V: 1}}
	half := []Point{{T: 0, V: 0.5}, {T: 1, V: 0.5}}

	out, err := MultiplyCurves(full, half, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range out {
		if !almostEqual(p.V, 0.5) {
			t.Errorf("point %d = %v, want 0.5", i, p.V)
		}
	}
}

func TestApplyEnvelopeShapesCarrier(t *testing.T) {
	carrier := []Point{{T: 0, V: 1}, {T: 1, V: 1}}
	envelope := []Point{{T: 0, V: 0}, {T: 1, V: 1}}

	out, err := ApplyEnvelope(carrier, envelope, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Constant carrier under a rising envelope reproduces the envelope.
	for _, p := range out {
		if !almostEqual(p.V, p.T) {
			t.Errorf("at t=%v got %v, want %v", p.T, p.V, p.T)
		}
	}
}

func TestResampleStretchesTimeAxis(t *testing.T) {
	ramp := []Point{{T: 0, V: 0}, {T: 1, V: 1}}
	out, err := Resample(ramp, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pointsAlmostEqual(t, out, []Point{
		{T: 0, V: 0},
		{T: 0.25, V: 0.25},
		{T: 0.5, V: 0.5},
		{T: 0.75, V: 0.75},
		{T: 1, V: 1},
	})
}

package curve

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func pointsAlmostEqual(t *testing.T, got, want []Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("point count = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !almostEqual(got[i].T, want[i].T) || !almostEqual(got[i].V, want[i].V) {
			t.Fatalf("point %d = {%v %v}, want {%v %v}", i, got[i].T, got[i].V, want[i].T, want[i].V)
		}
	}
}

// checkCurveInvariants asserts the contract every generator shares:
// exactly n points, non-decreasing t, values within [0,1].
func checkCurveInvariants(t *testing.T, pts []Point, n int) {
	t.Helper()
	if len(pts) != n {
		t.Fatalf("got %d points, want %d", len(pts), n)
	}
	for i, p := range pts {
		if p.V < 0 || p.V > 1 {
			t.Errorf("point %d value %v outside [0,1]", i, p.V)
		}
		if i > 0 && p.T < pts[i-1].T {
			t.Errorf("point %d time %v decreases from %v", i, p.T, pts[i-1].T)
		}
	}
}

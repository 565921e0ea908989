package timing

import (
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// PhaseUnit says what a phase spread is measured in.
type PhaseUnit string

const (
	PhaseUnitBars  PhaseUnit = "bars"
	PhaseUnitBeats PhaseUnit = "beats"
	PhaseUnitMS    PhaseUnit = "ms"
)

// Ordering determines which fixture in a role group takes which share of
// the spread. Fixtures arrive in rig declaration order, which by
// convention runs left to right across the rig.
type Ordering string

const (
	OrderLeftToRight Ordering = "left-to-right"
	OrderRightToLeft Ordering = "right-to-left"
	OrderInsideOut   Ordering = "inside-out"
	OrderOutsideIn   Ordering = "outside-in"
	// OrderScattered assigns ranks by a deterministic hash of fixture id
	// and seed, so the same rig and seed always scatter identically.
	OrderScattered Ordering = "scattered"
)

// PhaseSpec describes how a step's start time spreads across a fixture
// group.
type PhaseSpec struct {
	Unit     PhaseUnit `json:"unit" yaml:"unit"`
	Ordering Ordering  `json:"ordering" yaml:"ordering"`
	Spread   float64   `json:"spread" yaml:"spread"`
	Wrap     bool      `json:"wrap" yaml:"wrap"`
	Seed     uint64    `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// SpreadOffsets computes one offset in milliseconds per fixture id, in
// the order given. With Wrap true the spread tiles a closed cycle
// (offset i/n of the spread), so the last fixture does not collide with
// the first on the following cycle; with Wrap false the offsets span the
// full spread end to end (i/(n-1)).
func SpreadOffsets(spec PhaseSpec, fixtureIDs []string, g Grid) ([]float64, error) {
	n := len(fixtureIDs)
	if n == 0 {
		return nil, nil
	}

	var spreadMS float64
	switch spec.Unit {
	case PhaseUnitBars, "":
		spreadMS = g.BarsToMS(spec.Spread)
	case PhaseUnitBeats:
		spreadMS = g.BeatsToMS(spec.Spread)
	case PhaseUnitMS:
		spreadMS = spec.Spread
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhaseUnit, spec.Unit)
	}

	ranks, err := groupRanks(spec, fixtureIDs)
	if err != nil {
		return nil, err
	}

	offsets := make([]float64, n)
	for i, rank := range ranks {
		var frac float64
		if spec.Wrap {
			frac = float64(rank) / float64(n)
		} else if n > 1 {
			frac = float64(rank) / float64(n-1)
		}
		offsets[i] = spreadMS * frac
	}
	return offsets, nil
}

// groupRanks maps each fixture index to its rank within the spread.
func groupRanks(spec PhaseSpec, fixtureIDs []string) ([]int, error) {
	n := len(fixtureIDs)
	ranks := make([]int, n)

	switch spec.Ordering {
	case OrderLeftToRight, "":
		for i := range ranks {
			ranks[i] = i
		}
	case OrderRightToLeft:
		for i := range ranks {
			ranks[i] = n - 1 - i
		}
	case OrderInsideOut:
		// Centre fixture(s) first, edges last.
		for i := range ranks {
			ranks[i] = distanceFromCentre(i, n)
		}
	case OrderOutsideIn:
		// Edge fixtures first, centre last.
		maxDist := distanceFromCentre(0, n)
		for i := range ranks {
			ranks[i] = maxDist - distanceFromCentre(i, n)
		}
	case OrderScattered:
		// Deterministic shuffle: order fixtures by hash of id and seed.
		type hashed struct {
			index int
			sum   uint64
		}
		hs := make([]hashed, n)
		for i, id := range fixtureIDs {
			hs[i] = hashed{index: i, sum: scatterHash(id, spec.Seed)}
		}
		sort.Slice(hs, func(a, b int) bool {
			if hs[a].sum != hs[b].sum {
				return hs[a].sum < hs[b].sum
			}
			return fixtureIDs[hs[a].index] < fixtureIDs[hs[b].index]
		})
		for rank, h := range hs {
			ranks[h.index] = rank
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrdering, spec.Ordering)
	}
	return ranks, nil
}

// distanceFromCentre returns how many positions i sits from the centre
// of an n-element row, 0 for the centre itself.
func distanceFromCentre(i, n int) int {
	centre := float64(n-1) / 2
	return int(math.Round(math.Abs(float64(i) - centre)))
}

// scatterHash derives a stable pseudo-random key from a fixture id and a
// caller-supplied seed. Never ambient random state: reproducibility
// under parallel compilation depends on it.
func scatterHash(fixtureID string, seed uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(seed >> (8 * i))
	}
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(fixtureID)
	return d.Sum64()
}

package curve

import "math"

// Musical generators: shapes phrased against a beat count. The "cycles"
// parameter is the number of beats (or bars) the curve spans across
// [0,1). Open i/n grid so repeat expansion tiles them seamlessly.

// BeatPulse produces a sharp attack on each beat decaying toward a floor.
// Params: cycles (default 4), decay (default 3, higher = tighter pulse),
// floor (default 0).
func BeatPulse(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 4)
	decay := p.get("decay", 3)
	floor := Clamp01(p.get("floor", 0))
	return openGrid(n, func(t float64) float64 {
		frac := cycles * t
		frac -= math.Floor(frac)
		rel := math.Pow(1-frac, decay)
		return floor + (1-floor)*rel
	}), nil
}

// BeatAccent is BeatPulse with the first beat of the cycle group held at
// full strength and the remaining beats scaled down.
// Params: cycles (default 4), decay (default 3), accent (default 0.4,
// level of the unaccented beats).
func BeatAccent(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 4)
	decay := p.get("decay", 3)
	accent := Clamp01(p.get("accent", 0.4))
	return openGrid(n, func(t float64) float64 {
		beat := math.Floor(cycles * t)
		frac := cycles*t - beat
		rel := math.Pow(1-frac, decay)
		if beat == 0 {
			return rel
		}
		return accent * rel
	}), nil
}

// BeatSwell rises and falls once per beat as a half-sine.
// Params: cycles (default 4), floor (default 0).
func BeatSwell(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 4)
	floor := Clamp01(p.get("floor", 0))
	return openGrid(n, func(t float64) float64 {
		frac := cycles * t
		frac -= math.Floor(frac)
		return floor + (1-floor)*math.Sin(math.Pi*frac)
	}), nil
}

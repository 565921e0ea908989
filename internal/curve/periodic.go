package curve

import "math"

// Periodic generators. All sample on the open i/n grid and honour a
// "cycles" parameter (full waveform repetitions across [0,1)) plus a
// "phase" parameter in cycles.

// Sine produces a sine wave centred on 0.5 with unit amplitude.
// Params: cycles (default 1), phase (default 0).
func Sine(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 1)
	phase := p.get("phase", 0)
	return openGrid(n, func(t float64) float64 {
		return 0.5 + 0.5*math.Sin(2*math.Pi*(cycles*t+phase))
	}), nil
}

// Cosine is Sine shifted a quarter cycle; it starts at its peak, which
// geometry sweeps use to depart from the resolved pose.
// Params: cycles (default 1), phase (default 0).
func Cosine(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 1)
	phase := p.get("phase", 0)
	return openGrid(n, func(t float64) float64 {
		return 0.5 + 0.5*math.Cos(2*math.Pi*(cycles*t+phase))
	}), nil
}

// Square produces a square wave.
// Params: cycles (default 1), duty (default 0.5, clamped to (0,1)).
func Square(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 1)
	duty := p.get("duty", 0.5)
	if duty <= 0 {
		duty = 0.5
	} else if duty >= 1 {
		duty = 0.5
	}
	return openGrid(n, func(t float64) float64 {
		frac := cycles * t
		frac -= math.Floor(frac)
		if frac < duty {
			return 1
		}
		return 0
	}), nil
}

// Triangle produces a symmetric triangle wave rising 0 to 1 and back.
// Params: cycles (default 1).
func Triangle(n int, p Params) ([]Point, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	cycles := p.get("cycles", 1)
	return openGrid(n, func(t float64) float64 {
		frac := cycles * t
		frac -= math.Floor(frac)
		if frac < 0.5 {
			return 2 * frac
		}
		return 2 * (1 - frac)
	}), nil
}

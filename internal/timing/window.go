package timing

import "fmt"

// Window is an absolute playback window in milliseconds. Steps compile
// into it; repeat expansion enumerates cycles across it.
type Window struct {
	StartMS float64 `json:"start_ms" yaml:"start_ms"`
	EndMS   float64 `json:"end_ms" yaml:"end_ms"`
}

// Validate checks the window has positive duration.
func (w Window) Validate() error {
	if w.EndMS <= w.StartMS {
		return fmt.Errorf("%w: start %v, end %v", ErrInvalidWindow, w.StartMS, w.EndMS)
	}
	return nil
}

// DurationMS returns the window length.
func (w Window) DurationMS() float64 {
	return w.EndMS - w.StartMS
}

// Bars returns the window length in bars on the given grid.
func (w Window) Bars(g Grid) float64 {
	return g.MSToBars(w.DurationMS())
}

// Clip restricts the window to the bounds of other, returning a window
// that may be empty (validate before use).
func (w Window) Clip(other Window) Window {
	out := w
	if out.StartMS < other.StartMS {
		out.StartMS = other.StartMS
	}
	if out.EndMS > other.EndMS {
		out.EndMS = other.EndMS
	}
	return out
}

package timing

import "errors"

// Domain errors for the timing package.
var (
	// ErrInvalidGrid is returned when a beat grid has a non-positive
	// tempo or beat count.
	ErrInvalidGrid = errors.New("timing: invalid beat grid")

	// ErrInvalidWindow is returned when a playback window ends at or
	// before its start.
	ErrInvalidWindow = errors.New("timing: invalid playback window")

	// ErrUnknownQuantize is returned for a quantization policy outside
	// the closed vocabulary.
	ErrUnknownQuantize = errors.New("timing: unknown quantization policy")

	// ErrUnknownOrdering is returned for a phase-offset group ordering
	// outside the closed vocabulary.
	ErrUnknownOrdering = errors.New("timing: unknown group ordering")

	// ErrUnknownPhaseUnit is returned for a phase-offset unit outside
	// the closed vocabulary.
	ErrUnknownPhaseUnit = errors.New("timing: unknown phase unit")
)

package curve

import "errors"

// Domain errors for the curve package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, curve.ErrUnknownCurve) {
//	    // handle unknown curve id
//	}
var (
	// ErrUnknownCurve is returned when a curve id is not registered.
	ErrUnknownCurve = errors.New("curve: unknown curve")

	// ErrDuplicateCurve is returned when registering an id that already exists.
	ErrDuplicateCurve = errors.New("curve: duplicate curve id")

	// ErrInvalidSamples is returned when a sample count is below 2.
	ErrInvalidSamples = errors.New("curve: sample count must be at least 2")

	// ErrInvalidParam is returned when a generator parameter is out of range.
	ErrInvalidParam = errors.New("curve: invalid parameter")

	// ErrUnknownModifier is returned for a modifier name outside the
	// closed reverse/mirror vocabulary.
	ErrUnknownModifier = errors.New("curve: unknown modifier")

	// ErrUnknownNativeShape is returned when a native shape name is not in
	// the device vocabulary.
	ErrUnknownNativeShape = errors.New("curve: unknown native shape")

	// ErrEmptyCurve is returned when an operation requires at least one point.
	ErrEmptyCurve = errors.New("curve: empty curve")
)

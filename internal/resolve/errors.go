package resolve

import "errors"

// Domain errors for the resolve package.
var (
	// ErrUnknownGeometry is returned for a geometry kind outside the
	// closed vocabulary.
	ErrUnknownGeometry = errors.New("resolve: unknown geometry kind")

	// ErrUnknownMovement is returned for a movement kind outside the
	// closed vocabulary.
	ErrUnknownMovement = errors.New("resolve: unknown movement kind")

	// ErrUnknownDimmer is returned for a dimmer kind outside the closed
	// vocabulary.
	ErrUnknownDimmer = errors.New("resolve: unknown dimmer kind")

	// ErrUnknownIntensity is returned for an intensity level outside the
	// closed vocabulary.
	ErrUnknownIntensity = errors.New("resolve: unknown intensity level")

	// ErrInvalidBounds is returned when a spec's min/max bounds invert
	// or leave [0,1].
	ErrInvalidBounds = errors.New("resolve: invalid min/max bounds")
)

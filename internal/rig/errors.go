package rig

import "errors"

// Domain errors for the rig package.
var (
	// ErrInvalidClamp is returned when a clamp floor meets or exceeds
	// its ceiling.
	ErrInvalidClamp = errors.New("rig: invalid clamp range")

	// ErrInvalidLimits is returned when movement limits leave the
	// normalized range or invert.
	ErrInvalidLimits = errors.New("rig: invalid movement limits")

	// ErrUnknownFixture is returned when a role references a fixture id
	// that is not in the roster.
	ErrUnknownFixture = errors.New("rig: unknown fixture")

	// ErrDuplicateFixture is returned when two fixtures share an id.
	ErrDuplicateFixture = errors.New("rig: duplicate fixture id")

	// ErrNoFixtures is returned when a rig has an empty roster.
	ErrNoFixtures = errors.New("rig: no fixtures")
)

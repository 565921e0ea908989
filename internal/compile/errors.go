package compile

import (
	"errors"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/resolve"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// Domain errors for the compile package.
var (
	// ErrUnboundRole is returned when a step addresses a role the rig
	// does not bind.
	ErrUnboundRole = errors.New("compile: step role binds no fixtures")

	// ErrEmptyWindow is returned when the playback window has no room
	// for the template at all.
	ErrEmptyWindow = errors.New("compile: playback window too short")

	// ErrUnknownIterationField is returned when an iteration rule names
	// a field outside the closed vocabulary.
	ErrUnknownIterationField = errors.New("compile: unknown iteration field")

	// ErrUnknownRepeatMode is returned for a repeat mode outside the
	// closed vocabulary.
	ErrUnknownRepeatMode = errors.New("compile: unknown repeat mode")

	// ErrUnknownRemainder is returned for a remainder policy outside the
	// closed vocabulary.
	ErrUnknownRemainder = errors.New("compile: unknown remainder policy")

	// ErrUnknownTransition is returned for a transition mode outside the
	// closed vocabulary.
	ErrUnknownTransition = errors.New("compile: unknown transition mode")
)

// FailReason maps a compile-path error to a short machine-readable
// category. Transport layers use it as a low-cardinality telemetry tag
// and in wire-level error payloads.
func FailReason(err error) string {
	switch {
	case errors.Is(err, template.ErrTemplateNotFound):
		return "template_not_found"
	case errors.Is(err, ErrUnboundRole):
		return "unbound_role"
	case errors.Is(err, ErrEmptyWindow):
		return "empty_window"
	case errors.Is(err, ErrUnknownIterationField):
		return "unknown_iteration_field"
	case errors.Is(err, curve.ErrUnknownCurve):
		return "unknown_curve"
	case errors.Is(err, curve.ErrUnknownModifier):
		return "unknown_modifier"
	case errors.Is(err, timing.ErrInvalidGrid):
		return "invalid_grid"
	case errors.Is(err, timing.ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, resolve.ErrUnknownGeometry),
		errors.Is(err, resolve.ErrUnknownMovement),
		errors.Is(err, resolve.ErrUnknownDimmer):
		return "unknown_generator"
	case errors.Is(err, template.ErrInvalidTemplate),
		errors.Is(err, template.ErrNoSteps),
		errors.Is(err, template.ErrDuplicateStep),
		errors.Is(err, template.ErrEmptyLoop),
		errors.Is(err, template.ErrUnknownLoopStep),
		errors.Is(err, template.ErrInvalidTiming):
		return "invalid_template"
	default:
		return "compile_failed"
	}
}

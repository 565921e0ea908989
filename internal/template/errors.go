package template

import "errors"

// Domain errors for the template package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, template.ErrTemplateNotFound) {
//	    // handle not found case
//	}
var (
	// ErrTemplateNotFound is returned when a template id does not exist.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrTemplateExists is returned when creating a template with an id
	// that already exists.
	ErrTemplateExists = errors.New("template: already exists")

	// ErrInvalidTemplate is returned when template validation fails.
	ErrInvalidTemplate = errors.New("template: invalid")

	// ErrNoSteps is returned when a template has no steps.
	ErrNoSteps = errors.New("template: no steps")

	// ErrDuplicateStep is returned when two steps share an id.
	ErrDuplicateStep = errors.New("template: duplicate step id")

	// ErrEmptyLoop is returned when a repeatable contract lists no
	// looping steps.
	ErrEmptyLoop = errors.New("template: repeatable contract with empty loop-step list")

	// ErrUnknownLoopStep is returned when a loop-step id does not match
	// any step.
	ErrUnknownLoopStep = errors.New("template: unknown loop step id")

	// ErrInvalidTiming is returned when a step's musical timing is
	// unusable (non-positive duration).
	ErrInvalidTiming = errors.New("template: invalid step timing")

	// ErrUnknownRepeatMode is returned for a repeat mode outside the
	// closed vocabulary.
	ErrUnknownRepeatMode = errors.New("template: unknown repeat mode")

	// ErrUnknownRemainder is returned for a remainder policy outside
	// the closed vocabulary.
	ErrUnknownRemainder = errors.New("template: unknown remainder policy")

	// ErrUnknownTransition is returned for a transition mode outside
	// the closed vocabulary.
	ErrUnknownTransition = errors.New("template: unknown transition mode")

	// ErrUnknownIntensity is returned for an intensity level outside
	// the closed vocabulary.
	ErrUnknownIntensity = errors.New("template: unknown intensity level")

	// ErrPresetNotFound is returned when a curve preset id does not exist.
	ErrPresetNotFound = errors.New("template: preset not found")

	// ErrPresetExists is returned when creating a preset with an id that
	// already exists.
	ErrPresetExists = errors.New("template: preset already exists")
)

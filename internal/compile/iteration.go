package compile

import (
	"fmt"

	"github.com/nerrad567/lumen-core/internal/template"
)

// ApplyIteration evolves a step across repeat cycles. With more than one
// cycle, the rule's scalar field moves linearly toward its target as
// index/(total-1) and the categorical field switches at the halfway
// mark. With a single cycle the step comes back unchanged. The rule is
// applied to each expanded cycle before that cycle is compiled, so it
// composes with repeat expansion rather than replacing it.
func ApplyIteration(step template.Step, index, total int) (template.Step, error) {
	if step.Iterate == nil || total <= 1 {
		return step, nil
	}
	frac := float64(index) / float64(total-1)
	out := step

	rule := step.Iterate
	if rule.ScalarField != "" {
		if err := applyScalar(&out, rule.ScalarField, rule.ScalarTarget, frac); err != nil {
			return template.Step{}, err
		}
	}
	if rule.CategoricalField != "" && frac >= 0.5 {
		if err := applyCategorical(&out, rule.CategoricalField, rule.CategoricalTarget); err != nil {
			return template.Step{}, err
		}
	}
	return out, nil
}

func applyScalar(step *template.Step, field string, target, frac float64) error {
	lerp := func(from float64) float64 {
		return from + frac*(target-from)
	}
	lerpPtr := func(from *float64, fallback float64) *float64 {
		v := fallback
		if from != nil {
			v = *from
		}
		v = lerp(v)
		return &v
	}

	switch field {
	case "movement.cycles":
		step.Movement.Cycles = lerp(step.Movement.Cycles)
	case "movement.min":
		step.Movement.Min = lerpPtr(step.Movement.Min, 0)
	case "movement.max":
		step.Movement.Max = lerpPtr(step.Movement.Max, 1)
	case "dimmer.cycles":
		step.Dimmer.Cycles = lerp(step.Dimmer.Cycles)
	case "dimmer.level":
		step.Dimmer.Level = lerpPtr(step.Dimmer.Level, 1)
	case "dimmer.min":
		step.Dimmer.Min = lerpPtr(step.Dimmer.Min, 0)
	case "dimmer.max":
		step.Dimmer.Max = lerpPtr(step.Dimmer.Max, 1)
	default:
		return fmt.Errorf("%w: scalar %q", ErrUnknownIterationField, field)
	}
	return nil
}

func applyCategorical(step *template.Step, field, target string) error {
	switch field {
	case "movement.kind":
		step.Movement.Kind = template.MovementKind(target)
	case "movement.intensity":
		step.Movement.Intensity = template.Intensity(target)
	case "dimmer.kind":
		step.Dimmer.Kind = template.DimmerKind(target)
	case "dimmer.intensity":
		step.Dimmer.Intensity = template.Intensity(target)
	case "geometry.kind":
		step.Geometry.Kind = template.GeometryKind(target)
	default:
		return fmt.Errorf("%w: categorical %q", ErrUnknownIterationField, field)
	}
	return nil
}

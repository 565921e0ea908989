package template

import (
	"fmt"
	"strings"
)

// maxNameLength bounds template and step names.
const maxNameLength = 100

// Validate checks a template document before it enters the catalog or
// the compiler. Every failure names the offending id; nothing is
// silently defaulted.
func Validate(t *Template) error {
	if t == nil {
		return ErrInvalidTemplate
	}
	if strings.TrimSpace(t.Name) == "" || len(t.Name) > maxNameLength {
		return fmt.Errorf("%w: bad name %q", ErrInvalidTemplate, t.Name)
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("%w: template %q", ErrNoSteps, t.ID)
	}

	seen := make(map[string]bool, len(t.Steps))
	for _, s := range t.Steps {
		if s.ID == "" {
			return fmt.Errorf("%w: step with empty id in template %q", ErrInvalidTemplate, t.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: %q in template %q", ErrDuplicateStep, s.ID, t.ID)
		}
		seen[s.ID] = true

		if err := validateStep(s); err != nil {
			return fmt.Errorf("step %q: %w", s.ID, err)
		}
	}

	if err := validateRepeat(t.Repeat, seen); err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}

	for ch, clamp := range t.Defaults.Clamp {
		if err := clamp.Validate(); err != nil {
			return fmt.Errorf("template %q defaults, channel %q: %w", t.ID, ch, err)
		}
	}

	return nil
}

func validateStep(s Step) error {
	if s.Timing.Bars <= 0 {
		return fmt.Errorf("%w: %v bars", ErrInvalidTiming, s.Timing.Bars)
	}
	if err := validateIntensity(s.Movement.Intensity); err != nil {
		return fmt.Errorf("movement: %w", err)
	}
	if err := validateIntensity(s.Dimmer.Intensity); err != nil {
		return fmt.Errorf("dimmer: %w", err)
	}
	if err := validateTransition(s.Entry); err != nil {
		return fmt.Errorf("entry: %w", err)
	}
	if err := validateTransition(s.Exit); err != nil {
		return fmt.Errorf("exit: %w", err)
	}
	if s.Clamp != nil {
		if err := s.Clamp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateIntensity(level Intensity) error {
	switch level {
	case "", IntensitySmooth, IntensityDramatic, IntensityIntense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntensity, level)
	}
}

func validateTransition(tr *TransitionSpec) error {
	if tr == nil {
		return nil
	}
	switch tr.Mode {
	case TransitionSnap, TransitionCrossfade, TransitionFadeBlack:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransition, tr.Mode)
	}
	if tr.Mode != TransitionSnap && tr.Bars <= 0 {
		return fmt.Errorf("%w: %s transition with %v bars", ErrInvalidTiming, tr.Mode, tr.Bars)
	}
	return nil
}

func validateRepeat(rc RepeatContract, stepIDs map[string]bool) error {
	if !rc.Repeatable {
		return nil
	}
	switch rc.Mode {
	case RepeatClosed, RepeatPingPong, RepeatOpen:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRepeatMode, rc.Mode)
	}
	if len(rc.LoopStepIDs) == 0 {
		return ErrEmptyLoop
	}
	for _, id := range rc.LoopStepIDs {
		if !stepIDs[id] {
			return fmt.Errorf("%w: %q", ErrUnknownLoopStep, id)
		}
	}
	if rc.CycleBars <= 0 {
		return fmt.Errorf("%w: cycle length %v bars", ErrInvalidTiming, rc.CycleBars)
	}
	switch rc.Remainder {
	case "", RemainderHoldLastPose, RemainderTruncateLast, RemainderResampleTime, RemainderAppendExit:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRemainder, rc.Remainder)
	}
	if err := validateTransition(rc.Boundary); err != nil {
		return fmt.Errorf("boundary: %w", err)
	}
	return nil
}

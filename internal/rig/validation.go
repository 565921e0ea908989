package rig

import "fmt"

// Validate checks the whole rig document: fixture roster, limits,
// role bindings, and clamps. Configuration errors carry the offending
// id; nothing is silently defaulted.
func (r *Rig) Validate() error {
	if len(r.Fixtures) == 0 {
		return ErrNoFixtures
	}

	seen := make(map[string]bool, len(r.Fixtures))
	for _, f := range r.Fixtures {
		if f.ID == "" {
			return fmt.Errorf("%w: fixture with empty id", ErrUnknownFixture)
		}
		if seen[f.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateFixture, f.ID)
		}
		seen[f.ID] = true

		limits := f.Limits
		if limits == (MovementLimits{}) {
			// Unset limits mean full travel, applied by Normalize.
			continue
		}
		if err := limits.Validate(); err != nil {
			return fmt.Errorf("fixture %q: %w", f.ID, err)
		}
	}

	for role, ids := range r.Roles {
		if len(ids) == 0 {
			return fmt.Errorf("rig: role %q binds no fixtures", role)
		}
		for _, id := range ids {
			if !seen[id] {
				return fmt.Errorf("role %q: %w: %q", role, ErrUnknownFixture, id)
			}
		}
	}

	for ch, clamp := range r.Clamp {
		if err := clamp.Validate(); err != nil {
			return fmt.Errorf("channel %q: %w", ch, err)
		}
	}

	return nil
}

// Normalize fills zero-value fixture limits with full travel. Called by
// the loader after a successful Validate so the compiler never sees the
// ambiguous zero value.
func (r *Rig) Normalize() {
	for i := range r.Fixtures {
		if r.Fixtures[i].Limits == (MovementLimits{}) {
			r.Fixtures[i].Limits = FullTravel
		}
	}
}

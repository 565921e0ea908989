package rig

import "fmt"

// Channel identifies one controllable aspect of a fixture. The compiler
// emits one signal per channel; the export stage maps channels to DMX
// addresses through the fixture profile.
type Channel string

const (
	ChannelPan    Channel = "pan"
	ChannelTilt   Channel = "tilt"
	ChannelDimmer Channel = "dimmer"
)

// Clamp is a floor/ceiling pair on the raw device range 0-255. Clamps
// exist at rig, template, and step level; precedence is resolved by
// Narrow, never by replacement, so a narrow bound can never be widened
// by a looser one elsewhere.
type Clamp struct {
	Floor   float64 `json:"floor" yaml:"floor"`
	Ceiling float64 `json:"ceiling" yaml:"ceiling"`
}

// FullRange is the identity clamp.
var FullRange = Clamp{Floor: 0, Ceiling: 255}

// Validate checks floor < ceiling and both within the device range.
func (c Clamp) Validate() error {
	if c.Floor < 0 || c.Ceiling > 255 || c.Floor >= c.Ceiling {
		return fmt.Errorf("%w: floor %v, ceiling %v", ErrInvalidClamp, c.Floor, c.Ceiling)
	}
	return nil
}

/// Narrow intersects two clamps: the higher floor and the lower ceiling
// win. Narrowing with FullRange is the identity.
func (c Clamp) Narrow(other Clamp) Clamp {
	out := c
	if other.Floor > out.Floor {
		out.Floor = other.Floor
	}
	if other.Ceiling < out.Ceiling {
		out.Ceiling = other.Ceiling
	}
	return out
}

// MovementLimits bound pan and tilt travel in normalized [0,1] space.
// Resolvers clamp into these by construction; a value outside them
// downstream indicates a resolver defect.
type MovementLimits struct {
	PanMin  float64 `json:"pan_min" yaml:"pan_min"`
	PanMax  float64 `json:"pan_max" yaml:"pan_max"`
	TiltMin float64 `json:"tilt_min" yaml:"tilt_min"`
	TiltMax float64 `json:"tilt_max" yaml:"tilt_max"`
}

// FullTravel allows the complete normalized range on both axes.
var FullTravel = MovementLimits{PanMin: 0, PanMax: 1, TiltMin: 0, TiltMax: 1}

// Validate checks the limits stay inside [0,1] and do not invert.
func (m MovementLimits) Validate() error {
	check := func(axis string, lo, hi float64) error {
		if lo < 0 || hi > 1 || lo >= hi {
			return fmt.Errorf("%w: %s %v..%v", ErrInvalidLimits, axis, lo, hi)
		}
		return nil
	}
	if err := check("pan", m.PanMin, m.PanMax); err != nil {
		return err
	}
	return check("tilt", m.TiltMin, m.TiltMax)
}

// ClampPan restricts a normalized pan value into the limits.
func (m MovementLimits) ClampPan(v float64) float64 {
	return clampRange(v, m.PanMin, m.PanMax)
}

// ClampTilt restricts a normalized tilt value into the limits.
func (m MovementLimits) ClampTilt(v float64) float64 {
	return clampRange(v, m.TiltMin, m.TiltMax)
}

func clampRange(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// Calibration carries per-fixture trim applied after geometry resolution
// so that nominally identical poses aim identically on stage.
type Calibration struct {
	PanOffset  float64 `json:"pan_offset" yaml:"pan_offset"`
	TiltOffset float64 `json:"tilt_offset" yaml:"tilt_offset"`
}

// Fixture is one physical head in the rig.
type Fixture struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Profile     string         `json:"profile" yaml:"profile"`
	BaseAddress int            `json:"base_address" yaml:"base_address"`
	InvertPan   bool           `json:"invert_pan" yaml:"invert_pan"`
	InvertTilt  bool           `json:"invert_tilt" yaml:"invert_tilt"`
	Limits      MovementLimits `json:"limits" yaml:"limits"`
	Calibration Calibration    `json:"calibration" yaml:"calibration"`
}

// Profile maps channel names to 1-based offsets from a fixture's base
// address. Consumed by the export stage; carried here because the rig
// document owns it.
type Profile struct {
	Channels map[string]int `json:"channels" yaml:"channels"`
}

// Rig is the full fixture configuration for one venue/show.
type Rig struct {
	Name     string              `json:"name" yaml:"name"`
	Fixtures []Fixture           `json:"fixtures" yaml:"fixtures"`
	Roles    map[string][]string `json:"roles" yaml:"roles"`
	Profiles map[string]Profile  `json:"profiles" yaml:"profiles"`
	// Clamp is the rig-level safety clamp per channel, the outermost
	// level of clamp precedence.
	Clamp map[Channel]Clamp `json:"clamp" yaml:"clamp"`
}

// Fixture returns the fixture with the given id.
func (r *Rig) Fixture(id string) (Fixture, error) {
	for _, f := range r.Fixtures {
		if f.ID == id {
			return f, nil
		}
	}
	return Fixture{}, fmt.Errorf("%w: %q", ErrUnknownFixture, id)
}

// RoleFixtures returns the fixtures bound to role, in declaration order.
// An unbound role returns an empty slice; templates may address roles a
// particular rig does not populate.
func (r *Rig) RoleFixtures(role string) []Fixture {
	ids := r.Roles[role]
	out := make([]Fixture, 0, len(ids))
	for _, id := range ids {
		if f, err := r.Fixture(id); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// ChannelClamp returns the rig-level clamp for a channel, FullRange when
// none is configured.
func (r *Rig) ChannelClamp(ch Channel) Clamp {
	if c, ok := r.Clamp[ch]; ok {
		return c
	}
	return FullRange
}

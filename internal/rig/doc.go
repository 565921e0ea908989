// Package rig models the physical fixture rig for Lumen Core.
//
// A Rig binds semantic roles to physical fixtures and carries everything
// the compiler must respect about the hardware: channel mapping, pan and
// tilt inversion, movement safety limits, calibration offsets, and the
// rig-level dimmer clamp. Rigs are loaded once from YAML, validated, and
// treated as read-only for the life of a compile call.
//
// Roles decouple templates from fixtures: a template addresses
// "front-wash" or "spot-left" and the rig decides which heads those
// are. Fixture order within a role is meaningful — phase offsets spread
// across it in declaration order, which by convention runs left to
// right across the rig.
package rig

// Package template models choreography templates for Lumen Core.
//
// A Template is an ordered list of Steps plus a RepeatContract and
// template-wide defaults. Each step declares intent in three independent
// dimensions — where the beams point (geometry), how they move
// (movement), and how bright they are (dimmer) — together with musical
// timing, optional per-step clamps, transitions at entry and exit, and
// an optional iteration rule evaluated per repeat cycle.
//
// Templates are data. They arrive from the catalog database or from
// YAML documents, are validated once, and are never mutated afterwards;
// the compiler treats them as read-only input. All vocabularies
// (geometry, movement, dimmer kinds; repeat modes; transition modes;
// remainder policies) are closed, and consumers switch over them
// exhaustively so that adding a variant is a compile-time review point.
//
// # Persistence
//
// SQLiteRepository stores templates and curve presets in the catalog
// database; Registry wraps it with an in-memory cache refreshed at
// startup, following the same repository/registry split as the rest of
// the system.
package template

// Package resolve turns semantic step specs into concrete signals for
// Lumen Core.
//
// Three independent resolver families mirror the three dimensions of a
// step: geometry (where each fixture aims), movement (how the beams
// travel around that aim), and dimmer (how bright they are). Each is a
// pure function over the step spec, the fixture, and its position
// within the role group; given identical inputs they always produce
// identical output. Pseudo-randomness (the scattered layout) derives
// from a hash of fixture id and a caller-supplied seed, never from
// ambient random state.
//
// # Signals
//
// A Signal is a three-way sum: NoOp (leave the channel untouched),
// Static (one explicit value), or Curve (a sampled waveform). The
// distinction between NoOp and Static is load-bearing: a movement HOLD
// means "don't write to pan/tilt at all", while a dimmer HOLD emits a
// real static level. Collapsing the two into one nullable type is the
// exact ambiguity this package exists to avoid, so consumers switch on
// Kind exhaustively.
package resolve

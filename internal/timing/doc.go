// Package timing converts musical time to absolute milliseconds for
// Lumen Core.
//
// The beat grid itself is produced upstream by audio analysis; this
// package consumes it as plain data. A Grid fixes tempo, beats per bar,
// and the absolute time of bar zero, and from it every bar/beat duration
// and quantization decision follows deterministically.
//
// Phase offsets spread a step's start time across the fixtures of a role
// group (a wave rolling left to right, a chevron collapsing inside-out).
// SpreadOffsets computes the per-fixture delays; the compiler applies
// them after quantization so the group ordering survives snapping.
package timing

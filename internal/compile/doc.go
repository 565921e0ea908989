// Package compile turns a choreography template plus a rig and a beat
// grid into a flat list of channel segments.
//
// The compiler walks a fixed pipeline per step, per fixture: resolve
// geometry, movement, and dimmer; place the result on the musical grid
// (quantization, per-fixture phase offsets); expand the template's
// repeat contract over the playback window; settle a trailing partial
// cycle under the contract's remainder policy; shape step edges with
// entry/exit/boundary transitions; narrow the clamp through rig,
// template, and step levels; emit.
//
// Everything here is deterministic. Identical inputs produce identical
// segments, there is no shared mutable state, and callers may compile
// different plans concurrently. Failure is fail-fast: the first unknown
// id or contract violation rejects the whole compile with an error
// naming the offending step, and no partial output is returned.
package compile

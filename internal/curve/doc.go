// Package curve provides the curve math library and curve registry for
// Lumen Core.
//
// A curve is an ordered sequence of normalized points: time t in [0,1]
// mapped to a value v in [0,1]. Generators produce curves on a uniform
// grid; utilities sample, interpolate, phase-shift, and compose them.
// Everything in this package is pure and deterministic: the same inputs
// always produce the same points, which the compiler and the regression
// tooling depend on.
//
// # Grid Conventions
//
// Two grid conventions exist and both matter:
//
//   - Periodic and musical generators sample at i/n so that the final
//     point stops one step short of t=1. Repeat expansion butts cycles
//     end to end, and a closing duplicate of the first sample would
//     produce a stutter at every cycle boundary.
//   - Easing, motion, and parametric generators sample at i/(n-1) so the
//     curve reaches its terminal value exactly. Transitions blend against
//     that terminal value.
//
// # Registry
//
// The Registry is a named catalog of generators with default parameters.
// It follows populate-then-freeze: build it once at startup (usually via
// Builtin), then treat it as read-only. Registration is not safe
// concurrently with Resolve; nothing in this repository registers after
// startup.
//
//	reg := curve.Builtin()
//	pts, err := reg.Resolve(curve.Definition{CurveID: "sine"}, 64)
//
// # Key Types
//
//   - Point: one (t, v) sample
//   - Generator: func producing n points from parameters
//   - Registry: named generator catalog with default parameters
//   - Definition: a curve reference with parameter overrides and modifiers
//   - ShapeDescriptor: the four-parameter native device shape path
package curve

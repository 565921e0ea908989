package compile

import (
	"fmt"
	"math"

	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/resolve"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// Logger is the minimal logging interface the compiler needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// remainderEpsilonMS absorbs float error when deciding whether a
// trailing partial cycle exists at all.
const remainderEpsilonMS = 1e-6

// Compiler compiles templates against a rig and a beat grid. It holds
// only immutable collaborators, so one instance serves concurrent
// compiles.
type Compiler struct {
	curves *curve.Registry
	logger Logger
}

// New returns a compiler drawing curves from the given registry.
func New(curves *curve.Registry) *Compiler {
	return &Compiler{curves: curves, logger: noopLogger{}}
}

// SetLogger installs a logger for compile diagnostics.
func (c *Compiler) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// Compile expands a template over the playback window and returns the
// flat segment list. All inputs are validated up front; any unknown id
// or contract violation fails the whole compile.
func (c *Compiler) Compile(tpl *template.Template, rg *rig.Rig, grid timing.Grid, window timing.Window) ([]ChannelSegment, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := template.Validate(tpl); err != nil {
		return nil, err
	}
	if err := rg.Validate(); err != nil {
		return nil, err
	}
	// Idempotent; hand-built rigs may not have gone through the loader.
	rg.Normalize()

	j := &job{
		c:          c,
		tpl:        tpl,
		rig:        rg,
		grid:       grid,
		window:     window,
		lastDimmer: make(map[string]float64),
	}

	var (
		segs []ChannelSegment
		err  error
	)
	if tpl.Repeat.Repeatable {
		segs, err = j.compileRepeating()
	} else {
		segs, err = j.compileSequential()
	}
	if err != nil {
		return nil, err
	}

	segs = j.clipToWindow(segs)
	sortSegments(segs)
	c.logger.Debug("compiled template",
		"template", tpl.ID,
		"fixtures", len(rg.Fixtures),
		"segments", len(segs))
	return segs, nil
}

// job carries one compile's inputs and running state. A fresh job per
// Compile call keeps the Compiler itself stateless.
type job struct {
	c      *Compiler
	tpl    *template.Template
	rig    *rig.Rig
	grid   timing.Grid
	window timing.Window

	// lastDimmer remembers each fixture's most recent dimmer end value,
	// seeding entry crossfades at the next step boundary.
	lastDimmer map[string]float64
}

// compileSequential lays the steps end to end from the window start.
func (j *job) compileSequential() ([]ChannelSegment, error) {
	var segs []ChannelSegment
	cursor := j.window.StartMS
	for _, step := range j.tpl.Steps {
		out, next, err := j.compileStep(step, cursor, 1, false, nil, nil)
		if err != nil {
			return nil, err
		}
		segs = append(segs, out...)
		cursor = next
	}
	return segs, nil
}

// compileRepeating plays non-loop steps once as intro/outro and fills
// the window between them with expanded loop cycles.
func (j *job) compileRepeating() ([]ChannelSegment, error) {
	loopSet := make(map[string]bool, len(j.tpl.Repeat.LoopStepIDs))
	for _, id := range j.tpl.Repeat.LoopStepIDs {
		loopSet[id] = true
	}
	var intro, outro []template.Step
	seenLoop := false
	for _, s := range j.tpl.Steps {
		switch {
		case loopSet[s.ID]:
			seenLoop = true
		case !seenLoop:
			intro = append(intro, s)
		default:
			outro = append(outro, s)
		}
	}

	var segs []ChannelSegment
	cursor := j.window.StartMS
	for _, step := range intro {
		out, next, err := j.compileStep(step, cursor, 1, false, nil, nil)
		if err != nil {
			return nil, err
		}
		segs = append(segs, out...)
		cursor = next
	}

	var outroMS float64
	for _, s := range outro {
		outroMS += j.grid.BarsToMS(s.Timing.Bars + s.Timing.OffsetBars)
	}

	loopStart := cursor
	loopEnd := j.window.EndMS - outroMS
	available := loopEnd - loopStart
	cycleMS := j.grid.BarsToMS(j.tpl.Repeat.CycleBars)
	if available < remainderEpsilonMS {
		return nil, fmt.Errorf("%w: %.0fms left for a %.0fms cycle", ErrEmptyWindow, available, cycleMS)
	}

	loopSegs, err := j.expandLoop(loopStart, available, cycleMS)
	if err != nil {
		return nil, err
	}
	segs = append(segs, loopSegs...)

	cursor = loopEnd
	for _, step := range outro {
		out, next, err := j.compileStep(step, cursor, 1, false, nil, nil)
		if err != nil {
			return nil, err
		}
		segs = append(segs, out...)
		cursor = next
	}
	return segs, nil
}

// expandLoop enumerates cycles over the loop region per the repeat
// contract's mode and remainder policy.
func (j *job) expandLoop(loopStart, available, cycleMS float64) ([]ChannelSegment, error) {
	contract := j.tpl.Repeat

	switch contract.Mode {
	case template.RepeatOpen:
		// One continuous pass stretched to the region's actual duration.
		segs, _, err := j.compileCycle(0, 1, loopStart, available/cycleMS, false)
		return segs, err
	case template.RepeatClosed, template.RepeatPingPong, "":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRepeatMode, contract.Mode)
	}

	reversing := contract.Mode == template.RepeatPingPong

	if contract.Remainder == template.RemainderResampleTime {
		// Stretch or compress the time axis so whole cycles fit exactly.
		n := int(math.Round(available / cycleMS))
		if n < 1 {
			n = 1
		}
		scale := available / (float64(n) * cycleMS)
		var segs []ChannelSegment
		cursor := loopStart
		for i := 0; i < n; i++ {
			out, next, err := j.compileCycle(i, n, cursor, scale, reversing && i%2 == 1)
			if err != nil {
				return nil, err
			}
			segs = append(segs, out...)
			cursor = next
		}
		return segs, nil
	}

	full := int(math.Floor(available/cycleMS + 1e-9))
	rem := available - float64(full)*cycleMS
	hasRemainder := rem > remainderEpsilonMS
	total := full
	if hasRemainder {
		total++
	}

	var segs []ChannelSegment
	var lastCycle []ChannelSegment
	for i := 0; i < full; i++ {
		out, _, err := j.compileCycle(i, total, loopStart+float64(i)*cycleMS, 1, reversing && i%2 == 1)
		if err != nil {
			return nil, err
		}
		segs = append(segs, out...)
		lastCycle = out
	}

	if hasRemainder {
		remStart := loopStart + float64(full)*cycleMS
		out, err := j.compileRemainder(contract, lastCycle, full, total, remStart, loopStart+available, reversing)
		if err != nil {
			return nil, err
		}
		segs = append(segs, out...)
	}
	return segs, nil
}

// compileRemainder settles the trailing partial cycle.
func (j *job) compileRemainder(contract template.RepeatContract, lastCycle []ChannelSegment, idx, total int, remStart, winEnd float64, reversing bool) ([]ChannelSegment, error) {
	policy := contract.Remainder
	if policy == "" {
		policy = template.RemainderHoldLastPose
	}
	// Nothing has played yet: there is no pose to hold and no exit to
	// append, so a region shorter than one cycle always truncates.
	if len(lastCycle) == 0 {
		policy = template.RemainderTruncateLast
	}

	switch policy {
	case template.RemainderHoldLastPose:
		return holdSegments(lastCycle, remStart, winEnd), nil
	case template.RemainderTruncateLast:
		// Compile the partial cycle in full; the window clip cuts it.
		out, _, err := j.compileCycle(idx, total, remStart, 1, reversing && idx%2 == 1)
		return out, err
	case template.RemainderAppendExit:
		return j.exitSegments(lastCycle, remStart, winEnd)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRemainder, policy)
	}
}

// holdSegments freezes each channel at its final value for the rest of
// the window. NoOp channels stay NoOp: a channel nothing wrote to is
// not suddenly asserted by the freeze.
func holdSegments(lastCycle []ChannelSegment, startMS, endMS float64) []ChannelSegment {
	out := make([]ChannelSegment, 0)
	for _, seg := range latestPerChannel(lastCycle) {
		frozen := resolve.NoOp()
		if !seg.Signal.IsNoOp() {
			frozen = resolve.Static(seg.endValue())
		}
		out = append(out, ChannelSegment{
			FixtureID: seg.FixtureID,
			Channel:   seg.Channel,
			StartMS:   startMS,
			EndMS:     endMS,
			Signal:    frozen,
			Clamp:     seg.Clamp,
		})
	}
	sortSegments(out)
	return out
}

// exitSegments substitutes the declared exit for the partial cycle:
// position freezes while the dimmer rides the exit shape down to dark.
func (j *job) exitSegments(lastCycle []ChannelSegment, startMS, endMS float64) ([]ChannelSegment, error) {
	loop := j.tpl.LoopSteps()
	var spec *template.TransitionSpec
	if n := len(loop); n > 0 && loop[n-1].Exit != nil {
		spec = loop[n-1].Exit
	} else {
		spec = j.tpl.Repeat.Boundary
	}
	var shapeID string
	if spec != nil {
		shapeID = spec.ShapeCurveID
	}
	weight, err := shapeWeight(shapeID, j.c.curves)
	if err != nil {
		return nil, err
	}

	out := make([]ChannelSegment, 0)
	for _, seg := range latestPerChannel(lastCycle) {
		sig := resolve.NoOp()
		if !seg.Signal.IsNoOp() {
			end := seg.endValue()
			if seg.Channel == rig.ChannelDimmer {
				pts := make([]curve.Point, transitionSamples)
				for i := range pts {
					t := float64(i) / float64(transitionSamples-1)
					pts[i] = curve.Point{T: t, V: curve.Clamp01(end * (1 - weight(t)))}
				}
				sig = resolve.Sampled(pts)
			} else {
				sig = resolve.Static(end)
			}
		}
		out = append(out, ChannelSegment{
			FixtureID: seg.FixtureID,
			Channel:   seg.Channel,
			StartMS:   startMS,
			EndMS:     endMS,
			Signal:    sig,
			Clamp:     seg.Clamp,
		})
	}
	sortSegments(out)
	return out, nil
}

// latestPerChannel picks each fixture/channel's final segment of a
// cycle.
func latestPerChannel(segs []ChannelSegment) []ChannelSegment {
	type key struct {
		id string
		ch rig.Channel
	}
	latest := make(map[key]ChannelSegment)
	var order []key
	for _, seg := range segs {
		k := key{seg.FixtureID, seg.Channel}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || seg.EndMS >= prev.EndMS {
			latest[k] = seg
		}
	}
	out := make([]ChannelSegment, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}

// compileCycle compiles one pass over the loop steps. A reversed cycle
// plays the steps in reverse order with each curve's time axis flipped,
// which is a true time reversal of the whole cycle.
func (j *job) compileCycle(idx, total int, startMS, timeScale float64, reversed bool) ([]ChannelSegment, float64, error) {
	steps := j.tpl.LoopSteps()
	if reversed {
		rev := make([]template.Step, len(steps))
		for i, s := range steps {
			rev[len(steps)-1-i] = s
		}
		steps = rev
	}

	boundary := j.tpl.Repeat.Boundary
	var segs []ChannelSegment
	cursor := startMS
	for si, step := range steps {
		it, err := ApplyIteration(step, idx, total)
		if err != nil {
			return nil, 0, fmt.Errorf("step %q: %w", step.ID, err)
		}
		var entryOv, exitOv *template.TransitionSpec
		if si == 0 && idx > 0 {
			entryOv = boundary
		}
		if si == len(steps)-1 && idx < total-1 {
			exitOv = boundary
		}
		out, next, err := j.compileStep(it, cursor, timeScale, reversed, entryOv, exitOv)
		if err != nil {
			return nil, 0, err
		}
		segs = append(segs, out...)
		cursor = next
	}
	return segs, cursor, nil
}

// compileStep resolves one step for every fixture in its role and emits
// pan, tilt, and dimmer segments.
func (j *job) compileStep(step template.Step, cursor, timeScale float64, reversed bool, entryOv, exitOv *template.TransitionSpec) ([]ChannelSegment, float64, error) {
	durMS := j.grid.BarsToMS(step.Timing.Bars) * timeScale
	start := cursor + j.grid.BarsToMS(step.Timing.OffsetBars)*timeScale
	start, err := j.grid.QuantizeMS(start, step.Timing.Quantize)
	if err != nil {
		return nil, 0, fmt.Errorf("step %q: %w", step.ID, err)
	}

	fixtures := j.rig.RoleFixtures(step.Role)
	if len(fixtures) == 0 {
		return nil, 0, fmt.Errorf("step %q: %w: role %q", step.ID, ErrUnboundRole, step.Role)
	}
	ids := make([]string, len(fixtures))
	for i, f := range fixtures {
		ids[i] = f.ID
	}

	var phase []float64
	if step.Timing.Phase != nil {
		phase, err = timing.SpreadOffsets(*step.Timing.Phase, ids, j.grid)
		if err != nil {
			return nil, 0, fmt.Errorf("step %q: %w", step.ID, err)
		}
	}

	samples := j.tpl.Defaults.Samples
	move, err := resolve.GenerateMovement(step.Movement, j.c.curves, samples)
	if err != nil {
		return nil, 0, fmt.Errorf("step %q: movement: %w", step.ID, err)
	}
	dim, err := resolve.GenerateDimmer(step.Dimmer, j.c.curves, samples)
	if err != nil {
		return nil, 0, fmt.Errorf("step %q: dimmer: %w", step.ID, err)
	}
	if reversed {
		move.Pan = reverseSignal(move.Pan)
		move.Tilt = reverseSignal(move.Tilt)
		dim = reverseSignal(dim)
	}

	entry := step.Entry
	if entry == nil {
		entry = entryOv
	}
	exit := step.Exit
	if exit == nil {
		exit = exitOv
	}

	segs := make([]ChannelSegment, 0, 3*len(fixtures))
	for i, f := range fixtures {
		pose, err := resolve.ResolveGeometry(step.Geometry, resolve.GeometryContext{
			Fixture:   f,
			Role:      step.Role,
			Index:     i,
			GroupSize: len(fixtures),
		})
		if err != nil {
			return nil, 0, fmt.Errorf("step %q: geometry: %w", step.ID, err)
		}

		fixStart := start
		if phase != nil {
			fixStart += phase[i]
		}
		fixEnd := fixStart + durMS

		pan, tilt := positionSignals(move, pose, f)

		d, err := applyEntry(dim, entry, durMS, j.grid, j.lastDimmer[f.ID], j.c.curves)
		if err != nil {
			return nil, 0, fmt.Errorf("step %q: entry transition: %w", step.ID, err)
		}
		d, err = applyExit(d, exit, durMS, j.grid, j.c.curves)
		if err != nil {
			return nil, 0, fmt.Errorf("step %q: exit transition: %w", step.ID, err)
		}

		segs = append(segs,
			ChannelSegment{
				FixtureID: f.ID, Channel: rig.ChannelPan,
				StartMS: fixStart, EndMS: fixEnd,
				Signal: pan, Clamp: j.effectiveClamp(step, rig.ChannelPan),
			},
			ChannelSegment{
				FixtureID: f.ID, Channel: rig.ChannelTilt,
				StartMS: fixStart, EndMS: fixEnd,
				Signal: tilt, Clamp: j.effectiveClamp(step, rig.ChannelTilt),
			},
			ChannelSegment{
				FixtureID: f.ID, Channel: rig.ChannelDimmer,
				StartMS: fixStart, EndMS: fixEnd,
				Signal: d, Clamp: j.effectiveClamp(step, rig.ChannelDimmer),
			},
		)
		j.lastDimmer[f.ID] = d.At(1)
	}
	return segs, start + durMS, nil
}

// positionSignals recentres the movement curves on the resolved pose.
// A fully held movement emits NoOp on both axes, leaving the fixture
// wherever the previous plan put it; a movement active on one axis
// asserts the pose statically on the other.
func positionSignals(move resolve.MovementSignals, pose template.Pose, f rig.Fixture) (resolve.Signal, resolve.Signal) {
	if move.Pan.IsNoOp() && move.Tilt.IsNoOp() {
		return resolve.NoOp(), resolve.NoOp()
	}
	pan := recentre(move.Pan, pose.Pan, f.Limits.ClampPan)
	tilt := recentre(move.Tilt, pose.Tilt, f.Limits.ClampTilt)
	return pan, tilt
}

func recentre(sig resolve.Signal, centre float64, clampAxis func(float64) float64) resolve.Signal {
	if sig.IsNoOp() {
		return resolve.Static(clampAxis(centre))
	}
	return sig.Map(func(v float64) float64 {
		return clampAxis(centre + v - 0.5)
	})
}

// effectiveClamp narrows rig, template, and step clamps in that order.
// Narrowing is an intersection, so the most restrictive bound wins no
// matter which level declared it.
func (j *job) effectiveClamp(step template.Step, ch rig.Channel) rig.Clamp {
	c := j.rig.ChannelClamp(ch)
	if tc, ok := j.tpl.Defaults.Clamp[ch]; ok {
		c = c.Narrow(tc)
	}
	if ch == rig.ChannelDimmer && step.Clamp != nil {
		c = c.Narrow(*step.Clamp)
	}
	return c
}

// clipToWindow drops segments past the window end and truncates the one
// crossing it, renormalizing the cut curve's time axis.
func (j *job) clipToWindow(segs []ChannelSegment) []ChannelSegment {
	end := j.window.EndMS
	out := make([]ChannelSegment, 0, len(segs))
	for _, seg := range segs {
		if seg.StartMS >= end-remainderEpsilonMS {
			continue
		}
		if seg.EndMS > end {
			frac := (end - seg.StartMS) / seg.DurationMS()
			seg.Signal = truncateSignal(seg.Signal, frac)
			seg.EndMS = end
		}
		out = append(out, seg)
	}
	return out
}

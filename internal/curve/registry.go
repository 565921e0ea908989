package curve

import (
	"fmt"
	"sort"
)

// Definition references a registered curve with optional overrides. A
// plain reference sets CurveID only; a preset names itself in CurveID and
// points at its generator via BaseCurveID. Definitions are data: resolved,
// never mutated.
type Definition struct {
	CurveID     string   `json:"curve_id" yaml:"curve_id"`
	BaseCurveID string   `json:"base_curve_id,omitempty" yaml:"base_curve_id,omitempty"`
	Params      Params   `json:"params,omitempty" yaml:"params,omitempty"`
	Modifiers   []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// Modifier names form a closed vocabulary.
const (
	ModifierReverse = "reverse"
	ModifierMirror  = "mirror"
)

// entry is one registered curve.
type entry struct {
	id             string
	generator      Generator
	kind           Kind
	defaultSamples int
	defaultParams  Params
}

// Registry is the named curve catalog. It follows populate-then-freeze:
// all Register calls happen at startup before the first Resolve, after
// which the registry is read-only and safe to share across goroutines.
type Registry struct {
	entries map[string]entry
}

// NewRegistry creates an empty registry. Most callers want Builtin.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a generator under id. Registering an id that already
// exists is an error; the catalog never silently overwrites.
func (r *Registry) Register(id string, gen Generator, kind Kind, defaultSamples int, defaultParams Params) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrUnknownCurve)
	}
	if gen == nil {
		return fmt.Errorf("curve: nil generator for %q", id)
	}
	if defaultSamples < 2 {
		return fmt.Errorf("%w: default samples for %q", ErrInvalidSamples, id)
	}
	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCurve, id)
	}
	r.entries[id] = entry{
		id:             id,
		generator:      gen,
		kind:           kind,
		defaultSamples: defaultSamples,
		defaultParams:  defaultParams,
	}
	return nil
}

// Info describes a registered curve for catalog listings.
type Info struct {
	ID             string `json:"id"`
	Kind           Kind   `json:"kind"`
	DefaultSamples int    `json:"default_samples"`
	DefaultParams  Params `json:"default_params,omitempty"`
}

// List returns catalog entries sorted by id for deterministic output.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, Info{
			ID:             e.id,
			Kind:           e.kind,
			DefaultSamples: e.defaultSamples,
			DefaultParams:  e.defaultParams,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// MergeParams overlays overrides onto defaults without mutating either,
// returning the merged map and the ordered list of sources that
// contributed, most recent last. Overrides win on key collisions.
func MergeParams(defaults, overrides Params, defaultSource, overrideSource string) (Params, []string) {
	merged := make(Params, len(defaults)+len(overrides))
	var sources []string
	if len(defaults) > 0 {
		for k, v := range defaults {
			merged[k] = v
		}
		sources = append(sources, defaultSource)
	}
	if len(overrides) > 0 {
		for k, v := range overrides {
			merged[k] = v
		}
		sources = append(sources, overrideSource)
	}
	return merged, sources
}

// Resolution is the full result of resolving a Definition: the generated
// points plus the merged parameters and their provenance, for diagnostic
// surfaces that need to explain where a value came from.
type Resolution struct {
	CurveID string   `json:"curve_id"`
	Points  []Point  `json:"points"`
	Params  Params   `json:"params,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// Resolve generates the points for def. nSamples <= 0 uses the registered
// default sample count. The definition's params overlay the registered
// defaults, then modifiers apply in declaration order.
func (r *Registry) Resolve(def Definition, nSamples int) ([]Point, error) {
	res, err := r.ResolveDetailed(def, nSamples)
	if err != nil {
		return nil, err
	}
	return res.Points, nil
}

// ResolveDetailed is Resolve with parameter provenance retained.
func (r *Registry) ResolveDetailed(def Definition, nSamples int) (Resolution, error) {
	id := def.CurveID
	if def.BaseCurveID != "" {
		id = def.BaseCurveID
	}
	e, ok := r.entries[id]
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownCurve, id)
	}

	n := nSamples
	if n <= 0 {
		n = e.defaultSamples
	}

	merged, sources := MergeParams(e.defaultParams, def.Params,
		"defaults:"+id, "definition:"+def.CurveID)

	pts, err := e.generator(n, merged)
	if err != nil {
		return Resolution{}, fmt.Errorf("generating %q: %w", id, err)
	}

	for _, mod := range def.Modifiers {
		switch mod {
		case ModifierReverse:
			pts = Reverse(pts)
		case ModifierMirror:
			pts = Mirror(pts)
		default:
			return Resolution{}, fmt.Errorf("%w: %q on curve %q", ErrUnknownModifier, mod, def.CurveID)
		}
	}

	return Resolution{
		CurveID: def.CurveID,
		Points:  pts,
		Params:  merged,
		Sources: sources,
	}, nil
}

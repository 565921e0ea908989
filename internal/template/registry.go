package template

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry, allowing
// different logging implementations to be injected.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides catalog access with caching and thread safety. It
// wraps a Repository and adds an in-memory cache populated at startup
// via RefreshCache and kept in sync by cache-invalidating writes.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Template
	presets map[string]*Preset
	cacheMu sync.RWMutex
	logger  Logger
}

// NewRegistry creates a new template registry over a repository.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:    repo,
		cache:   make(map[string]*Template),
		presets: make(map[string]*Preset),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all templates and presets from the repository.
// Called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	templates, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	presets, err := r.repo.ListPresets(ctx)
	if err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Template, len(templates))
	for i := range templates {
		t := templates[i]
		r.cache[t.ID] = t.DeepCopy()
	}
	r.presets = make(map[string]*Preset, len(presets))
	for i := range presets {
		p := presets[i]
		r.presets[p.ID] = &p
	}

	r.logger.Info("template cache refreshed",
		"templates", len(templates),
		"presets", len(presets),
	)
	return nil
}

// Get retrieves a template by id. The returned template is a deep copy;
// callers can safely modify it.
func (r *Registry) Get(_ context.Context, id string) (*Template, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
}

// GetBySlug retrieves a template by slug.
func (r *Registry) GetBySlug(_ context.Context, slug string) (*Template, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	for _, t := range r.cache {
		if t.Slug == slug {
			return t.DeepCopy(), nil
		}
	}
	return nil, fmt.Errorf("%w: slug %q", ErrTemplateNotFound, slug)
}

// List retrieves all templates as deep copies sorted by sort_order then
// name for deterministic ordering.
func (r *Registry) List(_ context.Context) ([]Template, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	templates := make([]Template, 0, len(r.cache))
	for _, t := range r.cache {
		templates = append(templates, *t.DeepCopy())
	}
	sortTemplates(templates)
	return templates, nil
}

// Create validates and persists a new template, then updates the cache.
func (r *Registry) Create(ctx context.Context, t *Template) error {
	if err := r.repo.Create(ctx, t); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[t.ID] = t.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("template created", "id", t.ID, "name", t.Name)
	return nil
}

// Update validates and persists a template change, then updates the cache.
func (r *Registry) Update(ctx context.Context, t *Template) error {
	if err := r.repo.Update(ctx, t); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[t.ID] = t.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("template updated", "id", t.ID)
	return nil
}

// Delete removes a template and invalidates the cache entry.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("template deleted", "id", id)
	return nil
}

// Preset retrieves a curve preset by id.
func (r *Registry) Preset(_ context.Context, id string) (*Preset, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if p, ok := r.presets[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
}

// Presets retrieves all curve presets sorted by id.
func (r *Registry) Presets(_ context.Context) ([]Preset, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	out := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// sortTemplates orders by sort_order then name then id.
func sortTemplates(ts []Template) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].SortOrder != ts[j].SortOrder {
			return ts[i].SortOrder < ts[j].SortOrder
		}
		if ts[i].Name != ts[j].Name {
			return ts[i].Name < ts[j].Name
		}
		return ts[i].ID < ts[j].ID
	})
}

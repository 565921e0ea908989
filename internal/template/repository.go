package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for catalog persistence. The
// abstraction allows SQLite in production and mocks in tests.
type Repository interface {
	// Template CRUD
	GetByID(ctx context.Context, id string) (*Template, error)
	GetBySlug(ctx context.Context, slug string) (*Template, error)
	List(ctx context.Context) ([]Template, error)
	ListByCategory(ctx context.Context, category string) ([]Template, error)
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id string) error

	// Preset CRUD
	GetPreset(ctx context.Context, id string) (*Preset, error)
	ListPresets(ctx context.Context) ([]Preset, error)
	CreatePreset(ctx context.Context, p *Preset) error
	DeletePreset(ctx context.Context, id string) error
}

// templateColumns is the SELECT column list for template queries. The
// step list, repeat contract, and defaults live in a single JSON
// document column; the scalar columns exist for filtering and ordering.
const templateColumns = `id, name, slug, description, category, document, sort_order, created_at, updated_at`

// templateDocument is the JSON-serialized portion of a template.
type templateDocument struct {
	Steps    []Step         `json:"steps"`
	Repeat   RepeatContract `json:"repeat"`
	Defaults Defaults       `json:"defaults,omitempty"`
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed catalog repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a template by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ?`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("querying template by id: %w", err)
	}
	return t, nil
}

// GetBySlug retrieves a template by its slug.
func (r *SQLiteRepository) GetBySlug(ctx context.Context, slug string) (*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE slug = ?`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("querying template by slug: %w", err)
	}
	return t, nil
}

// List retrieves all templates ordered by sort_order then name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates ORDER BY sort_order, name`
	return r.queryTemplates(ctx, query)
}

// ListByCategory retrieves all templates in a category.
func (r *SQLiteRepository) ListByCategory(ctx context.Context, category string) ([]Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE category = ? ORDER BY sort_order, name`
	return r.queryTemplates(ctx, query, category)
}

// Create inserts a new template. The document is validated before it is
// written; the catalog never stores an invalid template.
func (r *SQLiteRepository) Create(ctx context.Context, t *Template) error {
	if err := Validate(t); err != nil {
		return err
	}
	doc, err := marshalDocument(t)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	query := `
		INSERT INTO templates (id, name, slug, description, category, document, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Slug, t.Description, t.Category,
		doc, t.SortOrder,
		t.CreatedAt.Format(time.RFC3339Nano),
		t.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrTemplateExists, t.ID)
		}
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// Update rewrites an existing template.
func (r *SQLiteRepository) Update(ctx context.Context, t *Template) error {
	if err := Validate(t); err != nil {
		return err
	}
	doc, err := marshalDocument(t)
	if err != nil {
		return err
	}

	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE templates
		SET name = ?, slug = ?, description = ?, category = ?, document = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		t.Name, t.Slug, t.Description, t.Category,
		doc, t.SortOrder,
		t.UpdatedAt.Format(time.RFC3339Nano),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, t.ID)
	}
	return nil
}

// Delete removes a template by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return nil
}

// GetPreset retrieves a curve preset by id.
func (r *SQLiteRepository) GetPreset(ctx context.Context, id string) (*Preset, error) {
	query := `SELECT id, description, definition, created_at, updated_at FROM curve_presets WHERE id = ?`
	p, err := scanPreset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
		}
		return nil, fmt.Errorf("querying preset: %w", err)
	}
	return p, nil
}

// ListPresets retrieves all curve presets ordered by id.
func (r *SQLiteRepository) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, definition, created_at, updated_at FROM curve_presets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// CreatePreset inserts a new curve preset.
func (r *SQLiteRepository) CreatePreset(ctx context.Context, p *Preset) error {
	def, err := json.Marshal(p.Definition)
	if err != nil {
		return fmt.Errorf("marshalling preset definition: %w", err)
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO curve_presets (id, description, definition, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Description, string(def),
		p.CreatedAt.Format(time.RFC3339Nano),
		p.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrPresetExists, p.ID)
		}
		return fmt.Errorf("inserting preset: %w", err)
	}
	return nil
}

// DeletePreset removes a curve preset by id.
func (r *SQLiteRepository) DeletePreset(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM curve_presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting preset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) queryTemplates(ctx context.Context, query string, args ...any) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (*Template, error) {
	var (
		t         Template
		doc       string
		createdAt string
		updatedAt string
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.Category, &doc, &t.SortOrder, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var d templateDocument
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return nil, fmt.Errorf("unmarshalling template document: %w", err)
	}
	t.Steps = d.Steps
	t.Repeat = d.Repeat
	t.Defaults = d.Defaults

	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

func scanPreset(s scanner) (*Preset, error) {
	var (
		p         Preset
		def       string
		createdAt string
		updatedAt string
	)
	if err := s.Scan(&p.ID, &p.Description, &def, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(def), &p.Definition); err != nil {
		return nil, fmt.Errorf("unmarshalling preset definition: %w", err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

func marshalDocument(t *Template) (string, error) {
	doc, err := json.Marshal(templateDocument{
		Steps:    t.Steps,
		Repeat:   t.Repeat,
		Defaults: t.Defaults,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling template document: %w", err)
	}
	return string(doc), nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. String matching avoids a hard dependency on the driver's
// error type here.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

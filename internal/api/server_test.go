package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/infrastructure/config"
	"github.com/nerrad567/lumen-core/internal/infrastructure/logging"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// fakeRepo is an in-memory template.Repository for handler tests. It
// mirrors the SQLite repository's behaviour: Create and Update validate
// the document, and conflicts surface the package sentinels.
type fakeRepo struct {
	templates map[string]*template.Template
	presets   map[string]*template.Preset
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		templates: make(map[string]*template.Template),
		presets:   make(map[string]*template.Preset),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*template.Template, error) {
	if t, ok := f.templates[id]; ok {
		return t.DeepCopy(), nil
	}
	return nil, fmt.Errorf("%w: %q", template.ErrTemplateNotFound, id)
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*template.Template, error) {
	for _, t := range f.templates {
		if t.Slug == slug {
			return t.DeepCopy(), nil
		}
	}
	return nil, fmt.Errorf("%w: slug %q", template.ErrTemplateNotFound, slug)
}

func (f *fakeRepo) List(_ context.Context) ([]template.Template, error) {
	out := make([]template.Template, 0, len(f.templates))
	for _, t := range f.templates {
		out = append(out, *t.DeepCopy())
	}
	return out, nil
}

func (f *fakeRepo) ListByCategory(_ context.Context, category string) ([]template.Template, error) {
	out := make([]template.Template, 0)
	for _, t := range f.templates {
		if t.Category == category {
			out = append(out, *t.DeepCopy())
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, t *template.Template) error {
	if err := template.Validate(t); err != nil {
		return err
	}
	if _, exists := f.templates[t.ID]; exists {
		return fmt.Errorf("%w: %q", template.ErrTemplateExists, t.ID)
	}
	f.templates[t.ID] = t.DeepCopy()
	return nil
}

func (f *fakeRepo) Update(_ context.Context, t *template.Template) error {
	if err := template.Validate(t); err != nil {
		return err
	}
	if _, exists := f.templates[t.ID]; !exists {
		return fmt.Errorf("%w: %q", template.ErrTemplateNotFound, t.ID)
	}
	f.templates[t.ID] = t.DeepCopy()
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, exists := f.templates[id]; !exists {
		return fmt.Errorf("%w: %q", template.ErrTemplateNotFound, id)
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeRepo) GetPreset(_ context.Context, id string) (*template.Preset, error) {
	if p, ok := f.presets[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: %q", template.ErrPresetNotFound, id)
}

func (f *fakeRepo) ListPresets(_ context.Context) ([]template.Preset, error) {
	out := make([]template.Preset, 0, len(f.presets))
	for _, p := range f.presets {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) CreatePreset(_ context.Context, p *template.Preset) error {
	if _, exists := f.presets[p.ID]; exists {
		return fmt.Errorf("%w: %q", template.ErrPresetExists, p.ID)
	}
	cp := *p
	f.presets[p.ID] = &cp
	return nil
}

func (f *fakeRepo) DeletePreset(_ context.Context, id string) error {
	if _, exists := f.presets[id]; !exists {
		return fmt.Errorf("%w: %q", template.ErrPresetNotFound, id)
	}
	delete(f.presets, id)
	return nil
}

// testRig builds a two-fixture rig bound to the "wash" role.
func testRig() *rig.Rig {
	r := &rig.Rig{
		Name: "test-rig",
		Fixtures: []rig.Fixture{
			{ID: "mh-1", Name: "Mover 1", Profile: "mover", BaseAddress: 1},
			{ID: "mh-2", Name: "Mover 2", Profile: "mover", BaseAddress: 17},
		},
		Roles: map[string][]string{
			"wash": {"mh-1", "mh-2"},
		},
		Profiles: map[string]rig.Profile{
			"mover": {Channels: map[string]int{"pan": 1, "tilt": 3, "dimmer": 5}},
		},
	}
	r.Normalize()
	return r
}

// testTemplate builds a minimal valid two-bar sweep template.
func testTemplate(id string) *template.Template {
	return &template.Template{
		ID:   id,
		Name: "Test Sweep",
		Slug: id + "-slug",
		Steps: []template.Step{
			{
				ID:   "sweep",
				Role: "wash",
				Geometry: template.GeometrySpec{
					Kind: template.GeometryFan,
				},
				Movement: template.MovementSpec{
					Kind:      template.MovementSweep,
					Intensity: template.IntensitySmooth,
				},
				Dimmer: template.DimmerSpec{
					Kind:      template.DimmerPulse,
					Intensity: template.IntensitySmooth,
				},
				Timing: template.StepTiming{Bars: 2},
			},
		},
	}
}

// newTestServer builds a Server over in-memory dependencies and returns
// it with its router.
func newTestServer(t *testing.T, security config.SecurityConfig) (*Server, http.Handler) {
	t.Helper()

	curves := curve.Builtin()
	templates := template.NewRegistry(newFakeRepo())

	s, err := New(Deps{
		Config:    config.APIConfig{Host: "127.0.0.1", Port: 8089},
		Security:  security,
		Logger:    logging.New(config.LoggingConfig{Level: "error"}, "test"),
		Curves:    curves,
		Templates: templates,
		Compiler:  compile.New(curves),
		Rig:       testRig(),
		Grid:      timing.Grid{BPM: 120, BeatsPerBar: 4},
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, s.buildRouter()
}

// doJSON performs a request against the router and decodes the response.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	decoded := make(map[string]any)
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
}

func TestListCurves(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/curves", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	count, _ := body["count"].(float64)
	if count == 0 {
		t.Fatal("expected a non-empty curve catalog")
	}
}

func TestGetCurve(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/curves/sine", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["id"] != "sine" {
		t.Errorf("id = %v, want sine", body["id"])
	}
}

func TestGetCurve_NotFound(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/curves/no-such-curve", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCurvePreview(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/curves/preview", map[string]any{
		"curve_id": "sine",
		"samples":  16,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, body)
	}
	points, _ := body["points"].([]any)
	if len(points) != 16 {
		t.Errorf("points = %d, want 16", len(points))
	}
}

func TestCurvePreview_UnknownCurve(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/curves/preview", map[string]any{
		"curve_id": "no-such-curve",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCurvePreview_UnknownModifier(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/curves/preview", map[string]any{
		"curve_id":  "sine",
		"modifiers": []string{"sideways"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTemplateCRUD(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})
	tpl := testTemplate("crud-test")

	// Create
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/templates", tpl)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// Get by ID
	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/templates/crud-test", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	if body["name"] != "Test Sweep" {
		t.Errorf("name = %v, want Test Sweep", body["name"])
	}

	// Get by slug
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/templates/crud-test-slug", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug status = %d, want 200", rec.Code)
	}

	// List
	rec, body = doJSON(t, router, http.MethodGet, "/api/v1/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	if count, _ := body["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1", body["count"])
	}

	// Update
	tpl.Name = "Renamed Sweep"
	rec, _ = doJSON(t, router, http.MethodPut, "/api/v1/templates/crud-test", tpl)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	rec, body = doJSON(t, router, http.MethodGet, "/api/v1/templates/crud-test", nil)
	if rec.Code != http.StatusOK || body["name"] != "Renamed Sweep" {
		t.Errorf("after update: status %d, name = %v", rec.Code, body["name"])
	}

	// Delete
	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/templates/crud-test", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/templates/crud-test", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateTemplate_Invalid(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	tpl := testTemplate("no-steps")
	tpl.Steps = nil
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/templates", tpl)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTemplate_Duplicate(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	tpl := testTemplate("dup")
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/templates", tpl)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/templates", tpl)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, want 409", rec.Code)
	}
}

func TestCompile_StoredTemplate(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/templates", testTemplate("sweep"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template_id": "sweep",
		"window":      map[string]any{"start_ms": 0, "end_ms": 4000},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("compile status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if body["template_id"] != "sweep" {
		t.Errorf("template_id = %v, want sweep", body["template_id"])
	}
	count, _ := body["count"].(float64)
	if count == 0 {
		t.Fatal("expected compiled segments")
	}
	segments, _ := body["segments"].([]any)
	if len(segments) != int(count) {
		t.Errorf("segments = %d, count = %v", len(segments), count)
	}
}

func TestCompile_InlineTemplate(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template": testTemplate("inline"),
		"grid":     map[string]any{"bpm": 128, "beats_per_bar": 4},
		"window":   map[string]any{"start_ms": 0, "end_ms": 8000},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("compile status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if count, _ := body["count"].(float64); count == 0 {
		t.Fatal("expected compiled segments")
	}
}

func TestCompile_TemplateNotFound(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template_id": "missing",
		"window":      map[string]any{"start_ms": 0, "end_ms": 4000},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCompile_RejectsBothTemplateFields(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template_id": "sweep",
		"template":    testTemplate("inline"),
		"window":      map[string]any{"start_ms": 0, "end_ms": 4000},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompile_MissingTemplate(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"window": map[string]any{"start_ms": 0, "end_ms": 4000},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompile_InvalidWindow(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template": testTemplate("inline"),
		"window":   map[string]any{"start_ms": 4000, "end_ms": 4000},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompile_InvalidGrid(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template": testTemplate("inline"),
		"grid":     map[string]any{"bpm": 0, "beats_per_bar": 4},
		"window":   map[string]any{"start_ms": 0, "end_ms": 4000},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestAuthMiddleware_Enabled(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	security := config.SecurityConfig{
		JWT: config.JWTConfig{Enabled: true, Secret: secret},
	}
	_, router := newTestServer(t, security)

	// No token
	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/templates", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// Garbage token
	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec2.Code)
	}

	// Valid token
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec3 := httptest.NewRecorder()
	router.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", rec3.Code)
	}

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"iat": now.Add(-2 * time.Hour).Unix(),
		"exp": now.Add(-time.Hour).Unix(),
	})
	signedExpired, err := expired.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer "+signedExpired)
	rec4 := httptest.NewRecorder()
	router.ServeHTTP(rec4, req)
	if rec4.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status = %d, want 401", rec4.Code)
	}

	// Health stays public
	rec5, _ := doJSON(t, router, http.MethodGet, "/api/v1/health", nil)
	if rec5.Code != http.StatusOK {
		t.Fatalf("health: status = %d, want 200", rec5.Code)
	}
}

func TestMetrics(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	// One successful compile so the counter moves.
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/compile", map[string]any{
		"template": testTemplate("metrics"),
		"window":   map[string]any{"start_ms": 0, "end_ms": 4000},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("compile status = %d, want 200", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
	compiles, _ := body["compiles"].(map[string]any)
	if total, _ := compiles["total"].(float64); total != 1 {
		t.Errorf("compiles.total = %v, want 1", compiles["total"])
	}
	catalog, _ := body["catalog"].(map[string]any)
	if curvesCount, _ := catalog["curves"].(float64); curvesCount == 0 {
		t.Error("catalog.curves = 0, want non-zero")
	}
}

func TestListPresets_Empty(t *testing.T) {
	_, router := newTestServer(t, config.SecurityConfig{})

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/presets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if count, _ := body["count"].(float64); count != 0 {
		t.Errorf("count = %v, want 0", body["count"])
	}
}

func TestNew_MissingDeps(t *testing.T) {
	curves := curve.Builtin()
	deps := Deps{
		Logger:    logging.New(config.LoggingConfig{Level: "error"}, "test"),
		Curves:    curves,
		Templates: template.NewRegistry(newFakeRepo()),
		Compiler:  compile.New(curves),
		Rig:       testRig(),
		Grid:      timing.Grid{BPM: 120, BeatsPerBar: 4},
	}

	tests := []struct {
		name   string
		mutate func(*Deps)
	}{
		{"nil logger", func(d *Deps) { d.Logger = nil }},
		{"nil curves", func(d *Deps) { d.Curves = nil }},
		{"nil templates", func(d *Deps) { d.Templates = nil }},
		{"nil compiler", func(d *Deps) { d.Compiler = nil }},
		{"nil rig", func(d *Deps) { d.Rig = nil }},
		{"zero grid", func(d *Deps) { d.Grid = timing.Grid{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := deps
			tt.mutate(&broken)
			if _, err := New(broken); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

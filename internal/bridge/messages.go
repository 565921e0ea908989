package bridge

import (
	"time"

	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// CompileRequest is the wire format of a compile request on
// lumen/compile/request. Exactly one of TemplateID and Template must be
// set. Grid defaults to the bridge's configured beat grid.
type CompileRequest struct {
	RequestID  string             `json:"request_id,omitempty"`
	TemplateID string             `json:"template_id,omitempty"`
	Template   *template.Template `json:"template,omitempty"`
	Grid       *timing.Grid       `json:"grid,omitempty"`
	Window     timing.Window      `json:"window"`
	ScaleDMX   bool               `json:"scale_dmx,omitempty"`
}

// CompileResult is published on lumen/compile/result/{request_id} when
// compilation succeeds.
type CompileResult struct {
	RequestID  string                   `json:"request_id"`
	TemplateID string                   `json:"template_id"`
	Segments   []compile.ChannelSegment `json:"segments"`
	Count      int                      `json:"count"`
	WindowMS   float64                  `json:"window_ms"`
	CompileMS  float64                  `json:"compile_ms"`
	ScaledDMX  bool                     `json:"scaled_dmx"`
	CompiledAt time.Time                `json:"compiled_at"`
}

// CompileFailure is published on lumen/compile/error/{request_id} when
// compilation fails. Reason is a short machine-readable category;
// Message is the full error text.
type CompileFailure struct {
	RequestID  string    `json:"request_id"`
	TemplateID string    `json:"template_id,omitempty"`
	Reason     string    `json:"reason"`
	Message    string    `json:"message"`
	FailedAt   time.Time `json:"failed_at"`
}

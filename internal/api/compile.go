package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// compileRequest is the body of POST /api/v1/compile.
//
// Exactly one of TemplateID and Template must be set. Rig and Grid
// default to the server's configured rig and beat grid when omitted.
type compileRequest struct {
	TemplateID string             `json:"template_id,omitempty"`
	Template   *template.Template `json:"template,omitempty"`
	Rig        *rig.Rig           `json:"rig,omitempty"`
	Grid       *timing.Grid       `json:"grid,omitempty"`
	Window     timing.Window      `json:"window"`
	ScaleDMX   bool               `json:"scale_dmx,omitempty"`
}

// compileResponse carries the compiled segment list.
type compileResponse struct {
	TemplateID string                   `json:"template_id"`
	Segments   []compile.ChannelSegment `json:"segments"`
	Count      int                      `json:"count"`
	WindowMS   float64                  `json:"window_ms"`
	CompileMS  float64                  `json:"compile_ms"`
	ScaledDMX  bool                     `json:"scaled_dmx"`
}

// handleCompile compiles a template over a playback window into channel
// segments.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	tpl, ok := s.resolveCompileTemplate(w, r, &req)
	if !ok {
		return
	}

	rg := s.rig
	if req.Rig != nil {
		rg = req.Rig
		if err := rg.Validate(); err != nil {
			s.recordCompileFailure(tpl.ID, err)
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		rg.Normalize()
	}

	grid := s.grid
	if req.Grid != nil {
		grid = *req.Grid
		if err := grid.Validate(); err != nil {
			s.recordCompileFailure(tpl.ID, err)
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
	}

	if err := req.Window.Validate(); err != nil {
		s.recordCompileFailure(tpl.ID, err)
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	start := time.Now()
	segments, err := s.compiler.Compile(tpl, rg, grid, req.Window)
	if err != nil {
		s.recordCompileFailure(tpl.ID, err)
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}
	compileMS := float64(time.Since(start).Microseconds()) / 1000.0

	if req.ScaleDMX {
		segments = compile.ScaleSegments(segments)
	}

	s.compileCount.Add(1)
	if s.telemetry != nil {
		s.telemetry.WriteCompileMetric(tpl.ID, "api", compileMS, len(segments))
	}
	s.logger.Debug("compiled template",
		"template_id", tpl.ID,
		"segments", len(segments),
		"window_ms", req.Window.DurationMS(),
		"compile_ms", compileMS,
	)

	writeJSON(w, http.StatusOK, compileResponse{
		TemplateID: tpl.ID,
		Segments:   segments,
		Count:      len(segments),
		WindowMS:   req.Window.DurationMS(),
		CompileMS:  compileMS,
		ScaledDMX:  req.ScaleDMX,
	})
}

// resolveCompileTemplate loads the stored template or validates the
// inline one. On failure it writes the response and returns ok=false.
func (s *Server) resolveCompileTemplate(w http.ResponseWriter, r *http.Request, req *compileRequest) (*template.Template, bool) {
	switch {
	case req.TemplateID != "" && req.Template != nil:
		writeBadRequest(w, "set template_id or template, not both")
		return nil, false
	case req.TemplateID != "":
		if len(req.TemplateID) > maxQueryParamLen {
			writeBadRequest(w, "invalid template ID")
			return nil, false
		}
		tpl, err := s.templates.Get(r.Context(), req.TemplateID)
		if err != nil {
			if errors.Is(err, template.ErrTemplateNotFound) {
				s.recordCompileFailure(req.TemplateID, err)
				writeNotFound(w, "template not found: "+req.TemplateID)
				return nil, false
			}
			s.logger.Error("failed to load template for compile", "template_id", req.TemplateID, "error", err)
			writeInternalError(w, "failed to load template")
			return nil, false
		}
		return tpl, true
	case req.Template != nil:
		if err := template.Validate(req.Template); err != nil {
			s.recordCompileFailure(req.Template.ID, err)
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return nil, false
		}
		return req.Template, true
	default:
		writeBadRequest(w, "template_id or template is required")
		return nil, false
	}
}

// recordCompileFailure bumps the failure counter and reports the
// failure to telemetry with a short machine-readable reason.
func (s *Server) recordCompileFailure(templateID string, err error) {
	s.compileFails.Add(1)
	if s.telemetry != nil {
		s.telemetry.WriteCompileError(templateID, "api", compile.FailReason(err))
	}
}

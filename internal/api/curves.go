package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nerrad567/lumen-core/internal/curve"
)

// handleListCurves returns the curve catalog sorted by ID.
func (s *Server) handleListCurves(w http.ResponseWriter, _ *http.Request) {
	curves := s.curves.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"curves": curves,
		"count":  len(curves),
	})
}

// handleGetCurve returns catalog info for a single curve.
func (s *Server) handleGetCurve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid curve ID")
		return
	}

	for _, info := range s.curves.List() {
		if info.ID == id {
			writeJSON(w, http.StatusOK, info)
			return
		}
	}
	writeNotFound(w, "curve not found: "+id)
}

// curvePreviewRequest asks for a curve definition to be resolved to
// points without compiling anything. Editors use it to draw shapes.
type curvePreviewRequest struct {
	curve.Definition
	Samples int `json:"samples,omitempty"`
}

// handleCurvePreview resolves a curve definition and returns the points
// with parameter provenance.
func (s *Server) handleCurvePreview(w http.ResponseWriter, r *http.Request) {
	var req curvePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.CurveID == "" {
		writeBadRequest(w, "curve_id is required")
		return
	}

	res, err := s.curves.ResolveDetailed(req.Definition, req.Samples)
	if err != nil {
		if errors.Is(err, curve.ErrUnknownCurve) {
			writeNotFound(w, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

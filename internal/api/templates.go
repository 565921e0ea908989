package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nerrad567/lumen-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/lumen-core/internal/template"
)

// maxQueryParamLen bounds URL parameters to prevent abuse.
const maxQueryParamLen = 100

// handleListTemplates returns all templates sorted by sort order then name.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list templates", "error", err)
		writeInternalError(w, "failed to list templates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}

// handleCreateTemplate creates a new template. An omitted ID gets a
// generated UUID.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl template.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}

	if err := s.templates.Create(r.Context(), &tpl); err != nil {
		switch {
		case errors.Is(err, template.ErrTemplateExists):
			writeError(w, http.StatusConflict, ErrCodeConflict, "template already exists: "+tpl.ID)
		case isTemplateValidationError(err):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		default:
			s.logger.Error("failed to create template", "template_id", tpl.ID, "error", err)
			writeInternalError(w, "failed to create template")
		}
		return
	}

	s.notifyTemplateChanged(tpl.ID, "created")
	writeJSON(w, http.StatusCreated, tpl)
}

// handleGetTemplate returns a single template by ID, falling back to
// slug lookup so bookmarked editor URLs survive re-imports.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid template ID")
		return
	}

	tpl, err := s.templates.Get(r.Context(), id)
	if errors.Is(err, template.ErrTemplateNotFound) {
		tpl, err = s.templates.GetBySlug(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			writeNotFound(w, "template not found: "+id)
			return
		}
		s.logger.Error("failed to get template", "template_id", id, "error", err)
		writeInternalError(w, "failed to get template")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// handleUpdateTemplate replaces a template document. The URL ID wins
// over any ID in the body.
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid template ID")
		return
	}

	var tpl template.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	tpl.ID = id

	if err := s.templates.Update(r.Context(), &tpl); err != nil {
		switch {
		case errors.Is(err, template.ErrTemplateNotFound):
			writeNotFound(w, "template not found: "+id)
		case isTemplateValidationError(err):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		default:
			s.logger.Error("failed to update template", "template_id", id, "error", err)
			writeInternalError(w, "failed to update template")
		}
		return
	}

	s.notifyTemplateChanged(tpl.ID, "updated")
	writeJSON(w, http.StatusOK, tpl)
}

// handleDeleteTemplate removes a template.
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid template ID")
		return
	}

	if err := s.templates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			writeNotFound(w, "template not found: "+id)
			return
		}
		s.logger.Error("failed to delete template", "template_id", id, "error", err)
		writeInternalError(w, "failed to delete template")
		return
	}

	s.notifyTemplateChanged(id, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleListPresets returns the stored curve presets.
func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.templates.Presets(r.Context())
	if err != nil {
		s.logger.Error("failed to list presets", "error", err)
		writeInternalError(w, "failed to list presets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"presets": presets,
		"count":   len(presets),
	})
}

// handleGetPreset returns a single curve preset by ID.
func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid preset ID")
		return
	}

	preset, err := s.templates.Preset(r.Context(), id)
	if err != nil {
		if errors.Is(err, template.ErrPresetNotFound) {
			writeNotFound(w, "preset not found: "+id)
			return
		}
		s.logger.Error("failed to get preset", "preset_id", id, "error", err)
		writeInternalError(w, "failed to get preset")
		return
	}

	writeJSON(w, http.StatusOK, preset)
}

// notifyTemplateChanged publishes a cache-invalidation event so
// playback engines can drop compiled output derived from the template.
// Best effort: a disconnected broker is not a CRUD failure.
func (s *Server) notifyTemplateChanged(templateID, action string) {
	if s.mqtt == nil || !s.mqtt.IsConnected() {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"template_id": templateID,
		"action":      action,
	})
	if err != nil {
		return
	}
	topic := mqtt.Topics{}.TemplateChanged(templateID)
	if err := s.mqtt.Publish(topic, payload, 1, false); err != nil {
		s.logger.Warn("failed to publish template change",
			"template_id", templateID,
			"error", err,
		)
	}
}

// isTemplateValidationError reports whether err is a template document
// validation failure rather than a store failure.
func isTemplateValidationError(err error) bool {
	return errors.Is(err, template.ErrInvalidTemplate) ||
		errors.Is(err, template.ErrNoSteps) ||
		errors.Is(err, template.ErrDuplicateStep) ||
		errors.Is(err, template.ErrEmptyLoop) ||
		errors.Is(err, template.ErrUnknownLoopStep) ||
		errors.Is(err, template.ErrInvalidTiming) ||
		errors.Is(err, template.ErrUnknownRepeatMode) ||
		errors.Is(err, template.ErrUnknownRemainder) ||
		errors.Is(err, template.ErrUnknownTransition) ||
		errors.Is(err, template.ErrUnknownIntensity)
}

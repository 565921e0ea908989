package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// System metrics (no auth required for basic monitoring)
		r.Get("/metrics", s.handleMetrics)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Compile endpoint
			r.Post("/compile", s.handleCompile)

			// Curve catalog
			r.Route("/curves", func(r chi.Router) {
				r.Get("/", s.handleListCurves)
				r.Post("/preview", s.handleCurvePreview)
				r.Get("/{id}", s.handleGetCurve)
			})

			// Template endpoints
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", s.handleListTemplates)
				r.Post("/", s.handleCreateTemplate)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetTemplate)
					r.Put("/", s.handleUpdateTemplate)
					r.Delete("/", s.handleDeleteTemplate)
				})
			})

			// Curve preset endpoints
			r.Route("/presets", func(r chi.Router) {
				r.Get("/", s.handleListPresets)
				r.Get("/{id}", s.handleGetPreset)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

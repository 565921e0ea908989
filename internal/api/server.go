// Package api provides the HTTP REST API server for Lumen Core.
//
// It exposes the compile pipeline, the template store, and the curve
// catalog to show-control tooling (editors, CLIs, playback engines).
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/infrastructure/config"
	"github.com/nerrad567/lumen-core/internal/infrastructure/database"
	"github.com/nerrad567/lumen-core/internal/infrastructure/logging"
	"github.com/nerrad567/lumen-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Telemetry receives compile outcomes for time-series storage. Both the
// influxdb and tsdb clients satisfy it; the server works without one.
type Telemetry interface {
	WriteCompileMetric(templateID string, source string, durationMS float64, segments int)
	WriteCompileError(templateID string, source string, reason string)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	Security  config.SecurityConfig
	Logger    *logging.Logger
	Curves    *curve.Registry
	Templates *template.Registry
	Compiler  *compile.Compiler
	Rig       *rig.Rig
	Grid      timing.Grid  // Default beat grid for requests that omit one
	DB        *database.DB // Optional: pool stats on /metrics
	MQTT      *mqtt.Client // Optional: connectivity reported on /metrics
	Telemetry Telemetry    // Optional: compile outcome recording
	Version   string
}

// Server is the HTTP API server for Lumen Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	secCfg    config.SecurityConfig
	logger    *logging.Logger
	curves    *curve.Registry
	templates *template.Registry
	compiler  *compile.Compiler
	rig       *rig.Rig
	grid      timing.Grid
	db        *database.DB
	mqtt      *mqtt.Client
	telemetry Telemetry
	version   string
	server    *http.Server
	startTime time.Time

	compileCount atomic.Int64
	compileFails atomic.Int64
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, registries, compiler, rig)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Curves == nil {
		return nil, fmt.Errorf("curve registry is required")
	}
	if deps.Templates == nil {
		return nil, fmt.Errorf("template registry is required")
	}
	if deps.Compiler == nil {
		return nil, fmt.Errorf("compiler is required")
	}
	if deps.Rig == nil {
		return nil, fmt.Errorf("rig is required")
	}
	if err := deps.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("default grid: %w", err)
	}
	// MQTT, DB, and telemetry are optional — the compile surface works without them

	return &Server{
		cfg:       deps.Config,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		curves:    deps.Curves,
		templates: deps.Templates,
		compiler:  deps.Compiler,
		rig:       deps.Rig,
		grid:      deps.Grid,
		db:        deps.DB,
		mqtt:      deps.MQTT,
		telemetry: deps.Telemetry,
		version:   deps.Version,
		startTime: time.Now(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	// Start listening in background
	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// Lumen Core - Choreography Compilation Engine
//
// This is the main entry point for the Lumen Core daemon. Lumen Core
// turns musically-described lighting templates into deterministic,
// pre-computed channel segment lists that playback engines interpolate
// at show time:
//   - Deterministic output (same inputs, same segments, every run)
//   - Musical timing (bars and beats, not milliseconds, in templates)
//   - Offline-first operation (SQLite catalog, no cloud dependency)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	_ "github.com/nerrad567/lumen-core/migrations"

	"github.com/nerrad567/lumen-core/internal/api"
	"github.com/nerrad567/lumen-core/internal/bridge"
	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/infrastructure/config"
	"github.com/nerrad567/lumen-core/internal/infrastructure/database"
	"github.com/nerrad567/lumen-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/lumen-core/internal/infrastructure/logging"
	"github.com/nerrad567/lumen-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/lumen-core/internal/infrastructure/tsdb"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Lumen Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load the rig document
	showRig, err := rig.Load(cfg.Show.RigPath)
	if err != nil {
		return fmt.Errorf("loading rig: %w", err)
	}
	log.Info("rig loaded",
		"path", cfg.Show.RigPath,
		"name", showRig.Name,
		"fixtures", len(showRig.Fixtures),
		"roles", len(showRig.Roles),
	)

	// Curve catalog is fixed at startup
	curves := curve.Builtin()
	log.Info("curve catalog initialised", "curves", len(curves.List()))

	// Initialise template registry
	templateRepo := template.NewSQLiteRepository(db.DB)
	templates := template.NewRegistry(templateRepo)
	templates.SetLogger(log)

	if refreshErr := templates.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading template catalog: %w", refreshErr)
	}

	// Seed templates from YAML documents (if configured)
	if cfg.Show.TemplatesDir != "" {
		seeded, seedErr := seedTemplates(ctx, templates, cfg.Show.TemplatesDir)
		if seedErr != nil {
			return fmt.Errorf("seeding templates: %w", seedErr)
		}
		log.Info("template documents seeded", "dir", cfg.Show.TemplatesDir, "seeded", seeded)
	}

	// Create the compiler
	compiler := compile.New(curves)
	compiler.SetLogger(log)

	defaultGrid := timing.Grid{
		BPM:         cfg.Show.DefaultBPM,
		BeatsPerBar: cfg.Show.DefaultBeatsPerBar,
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect the telemetry backend (optional, at most one enabled)
	telemetry, closeTelemetry, err := connectTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closeTelemetry != nil {
		defer closeTelemetry()
	}

	// Start the MQTT compile bridge (if MQTT is up)
	if mqttClient != nil {
		compileBridge, bridgeErr := bridge.New(bridge.Deps{
			MQTT:      &mqttBridgeAdapter{client: mqttClient},
			Compiler:  compiler,
			Templates: templates,
			Rig:       showRig,
			Grid:      defaultGrid,
			Telemetry: telemetry,
			Logger:    log,
		})
		if bridgeErr != nil {
			return fmt.Errorf("creating compile bridge: %w", bridgeErr)
		}
		if startErr := compileBridge.Start(ctx); startErr != nil {
			return fmt.Errorf("starting compile bridge: %w", startErr)
		}
	}

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:    cfg.API,
		Security:  cfg.Security,
		Logger:    log,
		Curves:    curves,
		Templates: templates,
		Compiler:  compiler,
		Rig:       showRig,
		Grid:      defaultGrid,
		DB:        db,
		MQTT:      mqttClient,
		Telemetry: telemetry,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Telemetry backend (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Lumen Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LUMEN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LUMEN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// connectTelemetry connects whichever time-series backend is enabled.
// Config validation guarantees at most one is.
func connectTelemetry(ctx context.Context, cfg *config.Config, log *logging.Logger) (api.Telemetry, func(), error) {
	switch {
	case cfg.InfluxDB.Enabled:
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		client.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		closer := func() {
			log.Info("closing InfluxDB connection")
			if err := client.Close(); err != nil {
				log.Error("error closing InfluxDB", "error", err)
			}
		}
		return client, closer, nil

	case cfg.TSDB.Enabled:
		client, err := tsdb.Connect(ctx, cfg.TSDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to TSDB: %w", err)
		}
		client.SetOnError(func(err error) {
			log.Error("TSDB write error", "error", err)
		})
		log.Info("TSDB connected", "url", cfg.TSDB.URL)
		closer := func() {
			log.Info("closing TSDB connection")
			if err := client.Close(); err != nil {
				log.Error("error closing TSDB", "error", err)
			}
		}
		return client, closer, nil

	default:
		log.Info("telemetry disabled")
		return nil, nil, nil
	}
}

// seedTemplates loads YAML template documents from dir into the
// catalog. Existing catalog entries win: a document whose ID is already
// stored is skipped, preserving edits made through the API.
func seedTemplates(ctx context.Context, templates *template.Registry, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading templates dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	seeded := 0
	for _, name := range names {
		tpl, err := template.Load(filepath.Join(dir, name))
		if err != nil {
			return seeded, fmt.Errorf("loading %s: %w", name, err)
		}
		if _, err := templates.Get(ctx, tpl.ID); err == nil {
			continue
		}
		if err := templates.Create(ctx, tpl); err != nil {
			return seeded, fmt.Errorf("seeding %s: %w", name, err)
		}
		seeded++
	}
	return seeded, nil
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

// mqttBridgeAdapter adapts the infrastructure MQTT client to the
// compile bridge's MQTTClient interface. The difference is the
// Subscribe handler signature:
// - Infrastructure mqtt: func(topic string, payload []byte) error
// - Bridge expects:      func(topic string, payload []byte)
type mqttBridgeAdapter struct {
	client *mqtt.Client
}

// Publish implements bridge.MQTTClient.
func (a *mqttBridgeAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return a.client.Publish(topic, payload, qos, retained)
}

// Subscribe implements bridge.MQTTClient.
func (a *mqttBridgeAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	// Wrap the void handler to return nil error (bridge handlers don't return errors)
	return a.client.Subscribe(topic, qos, func(t string, p []byte) error {
		handler(t, p)
		return nil
	})
}

// IsConnected implements bridge.MQTTClient.
func (a *mqttBridgeAdapter) IsConnected() bool {
	return a.client.IsConnected()
}

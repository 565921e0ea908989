package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// compileQoS is the QoS level for compile traffic. At-least-once:
// results are idempotent per request ID, duplicates are harmless.
const compileQoS = 1

// MQTTClient is the interface for MQTT operations. Satisfied by
// *mqtt.Client; narrowed here so tests can run against a mock.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// TemplateStore loads stored templates for compile requests. Satisfied
// by *template.Registry.
type TemplateStore interface {
	Get(ctx context.Context, id string) (*template.Template, error)
}

// Telemetry receives compile outcomes. Satisfied by the influxdb and
// tsdb clients; optional.
type Telemetry interface {
	WriteCompileMetric(templateID string, source string, durationMS float64, segments int)
	WriteCompileError(templateID string, source string, reason string)
}

// Logger is the logging interface used by the bridge.
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

// Deps holds the dependencies required by the bridge.
type Deps struct {
	MQTT      MQTTClient
	Compiler  *compile.Compiler
	Templates TemplateStore
	Rig       *rig.Rig
	Grid      timing.Grid // Default beat grid for requests that omit one
	Telemetry Telemetry   // Optional
	Logger    Logger      // Optional
}

// Bridge serves compile requests arriving over MQTT.
type Bridge struct {
	mqtt      MQTTClient
	compiler  *compile.Compiler
	templates TemplateStore
	rig       *rig.Rig
	grid      timing.Grid
	telemetry Telemetry
	topics    mqtt.Topics

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates a bridge with the given dependencies.
func New(deps Deps) (*Bridge, error) {
	if deps.MQTT == nil {
		return nil, fmt.Errorf("bridge: mqtt client is required")
	}
	if deps.Compiler == nil {
		return nil, fmt.Errorf("bridge: compiler is required")
	}
	if deps.Templates == nil {
		return nil, fmt.Errorf("bridge: template store is required")
	}
	if deps.Rig == nil {
		return nil, fmt.Errorf("bridge: rig is required")
	}
	if err := deps.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("bridge: default grid: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Bridge{
		mqtt:      deps.MQTT,
		compiler:  deps.Compiler,
		templates: deps.Templates,
		rig:       deps.Rig,
		grid:      deps.Grid,
		telemetry: deps.Telemetry,
		logger:    logger,
	}, nil
}

// SetLogger replaces the bridge's logger.
func (b *Bridge) SetLogger(logger Logger) {
	b.loggerMu.Lock()
	defer b.loggerMu.Unlock()
	if logger != nil {
		b.logger = logger
	}
}

func (b *Bridge) getLogger() Logger {
	b.loggerMu.RLock()
	defer b.loggerMu.RUnlock()
	return b.logger
}

// Start subscribes to the compile request topic. The underlying MQTT
// client restores the subscription across reconnects, so Start is
// called once.
func (b *Bridge) Start(_ context.Context) error {
	topic := b.topics.CompileRequest()
	if err := b.mqtt.Subscribe(topic, compileQoS, b.handleCompileRequest); err != nil {
		return fmt.Errorf("bridge: subscribing to %s: %w", topic, err)
	}
	b.getLogger().Info("compile bridge started", "topic", topic)
	return nil
}

// handleCompileRequest decodes one compile request, runs the compiler,
// and publishes the result or failure on the per-request reply topic.
func (b *Bridge) handleCompileRequest(_ string, payload []byte) {
	var req CompileRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		// Without a request ID there is no reply topic; log and drop.
		b.getLogger().Warn("dropping malformed compile request", "error", err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	tpl, err := b.resolveTemplate(&req)
	if err != nil {
		b.publishFailure(req, tpl, err)
		return
	}

	grid := b.grid
	if req.Grid != nil {
		grid = *req.Grid
		if err := grid.Validate(); err != nil {
			b.publishFailure(req, tpl, err)
			return
		}
	}
	if err := req.Window.Validate(); err != nil {
		b.publishFailure(req, tpl, err)
		return
	}

	start := time.Now()
	segments, err := b.compiler.Compile(tpl, b.rig, grid, req.Window)
	if err != nil {
		b.publishFailure(req, tpl, err)
		return
	}
	compileMS := float64(time.Since(start).Microseconds()) / 1000.0

	if req.ScaleDMX {
		segments = compile.ScaleSegments(segments)
	}

	if b.telemetry != nil {
		b.telemetry.WriteCompileMetric(tpl.ID, "mqtt", compileMS, len(segments))
	}

	result := CompileResult{
		RequestID:  req.RequestID,
		TemplateID: tpl.ID,
		Segments:   segments,
		Count:      len(segments),
		WindowMS:   req.Window.DurationMS(),
		CompileMS:  compileMS,
		ScaledDMX:  req.ScaleDMX,
		CompiledAt: time.Now().UTC(),
	}
	data, err := json.Marshal(result)
	if err != nil {
		b.getLogger().Error("failed to marshal compile result", "request_id", req.RequestID, "error", err)
		return
	}

	topic := b.topics.CompileResult(req.RequestID)
	if err := b.mqtt.Publish(topic, data, compileQoS, false); err != nil {
		b.getLogger().Error("failed to publish compile result",
			"request_id", req.RequestID,
			"topic", topic,
			"error", err,
		)
		return
	}

	b.getLogger().Debug("compiled template over mqtt",
		"request_id", req.RequestID,
		"template_id", tpl.ID,
		"segments", len(segments),
		"compile_ms", compileMS,
	)
}

// resolveTemplate loads the stored template or validates the inline
// one. The returned template is nil only on failure.
func (b *Bridge) resolveTemplate(req *CompileRequest) (*template.Template, error) {
	switch {
	case req.TemplateID != "" && req.Template != nil:
		return nil, fmt.Errorf("%w: set template_id or template, not both", template.ErrInvalidTemplate)
	case req.TemplateID != "":
		return b.templates.Get(context.Background(), req.TemplateID)
	case req.Template != nil:
		if err := template.Validate(req.Template); err != nil {
			return req.Template, err
		}
		return req.Template, nil
	default:
		return nil, fmt.Errorf("%w: template_id or template is required", template.ErrInvalidTemplate)
	}
}

// publishFailure reports a compile failure on the per-request error
// topic and to telemetry.
func (b *Bridge) publishFailure(req CompileRequest, tpl *template.Template, cause error) {
	templateID := req.TemplateID
	if tpl != nil {
		templateID = tpl.ID
	}
	reason := compile.FailReason(cause)

	if b.telemetry != nil {
		b.telemetry.WriteCompileError(templateID, "mqtt", reason)
	}

	failure := CompileFailure{
		RequestID:  req.RequestID,
		TemplateID: templateID,
		Reason:     reason,
		Message:    cause.Error(),
		FailedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(failure)
	if err != nil {
		b.getLogger().Error("failed to marshal compile failure", "request_id", req.RequestID, "error", err)
		return
	}

	topic := b.topics.CompileError(req.RequestID)
	if err := b.mqtt.Publish(topic, data, compileQoS, false); err != nil {
		b.getLogger().Error("failed to publish compile failure",
			"request_id", req.RequestID,
			"topic", topic,
			"error", err,
		)
		return
	}

	b.getLogger().Warn("compile request failed",
		"request_id", req.RequestID,
		"template_id", templateID,
		"reason", reason,
		"error", cause,
	)
}

// Package tsdb provides time-series database connectivity for Lumen Core.
//
// It writes to VictoriaMetrics using InfluxDB line protocol over HTTP and
// queries using PromQL. Zero external dependencies — uses only net/http.
//
// # Purpose
//
// This package is the VictoriaMetrics alternative to the influxdb
// package. It handles time-series storage for:
//   - Compile telemetry (duration, segment counts, failure reasons)
//   - Curve registry activity (resolves, cache hits)
//
// Enable either influxdb or tsdb in config.yaml, not both.
//
// # Usage
//
//	cfg := config.TSDBConfig{
//	    Enabled:       true,
//	    URL:           "http://localhost:8428",
//	    BatchSize:     1000,
//	    FlushInterval: 1,
//	}
//
//	client, err := tsdb.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record a compile
//	client.WriteCompileMetric("chevron-sweep", "api", 3.2, 48)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Writes are batched internally and flushed on size threshold or timer.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are reported via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// Batch flush is a single HTTP POST with newline-delimited line protocol.
// VictoriaMetrics processes these with minimal overhead.
package tsdb

package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCompileMetric records a single template compilation.
//
// This is the primary method for compile telemetry. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - templateID: Identifier of the compiled template
//   - source: Where the request came from ("api", "mqtt", "cli")
//   - durationMS: Wall-clock compile time in milliseconds
//   - segments: Number of channel segments produced
//
// Example:
//
//	client.WriteCompileMetric("chevron-sweep", "api", 3.2, 48)
func (c *Client) WriteCompileMetric(templateID string, source string, durationMS float64, segments int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"compile",
		map[string]string{
			"template": templateID,
			"source":   source,
		},
		map[string]interface{}{
			"duration_ms": durationMS,
			"segments":    segments,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteCompileError records a failed compilation attempt.
//
// Parameters:
//   - templateID: Identifier of the template that failed (may be empty
//     when the request never resolved a template)
//   - source: Where the request came from ("api", "mqtt", "cli")
//   - reason: Short machine-readable failure category
func (c *Client) WriteCompileError(templateID string, source string, reason string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"compile_errors",
		map[string]string{
			"template": templateID,
			"source":   source,
			"reason":   reason,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteCurveMetric records curve registry activity.
//
// Used for tracking cache behaviour of the curve registry: resolves,
// hits, and generator invocations.
//
// Parameters:
//   - curveID: The curve identifier (e.g., "sine", "beat-pulse")
//   - metricName: Registry metric (e.g., "resolve_count", "cache_hit")
//   - value: The metric value
func (c *Client) WriteCurveMetric(curveID string, metricName string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"curves",
		map[string]string{
			"curve_id": curveID,
			"metric":   metricName,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}

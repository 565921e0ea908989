package mqtt

import "fmt"

// Topic prefixes for the Lumen Core message bus.
//
// All topics use the flat scheme: lumen/{category}/...
const (
	// TopicPrefix is the base for all Lumen Core topics.
	TopicPrefix = "lumen"

	// TopicPrefixCompile is the base for compile bridge topics.
	TopicPrefixCompile = "lumen/compile"

	// TopicPrefixTemplate is the base for template catalog topics.
	TopicPrefixTemplate = "lumen/template"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "lumen/system"
)

// Topics provides builders for Lumen Core MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	reqTopic := topics.CompileRequest()
//	// Returns: "lumen/compile/request"
type Topics struct{}

// =============================================================================
// Compile Bridge Topics
// =============================================================================

// CompileRequest returns the topic playback engines publish compile
// requests to. Payloads carry a request ID, template slug, and window.
//
// Example: lumen/compile/request
func (Topics) CompileRequest() string {
	return fmt.Sprintf("%s/request", TopicPrefixCompile)
}

// CompileResult returns the topic a compiled plan is published on.
// The request ID ties the result back to the originating request.
//
// Example: lumen/compile/result/req-abc123
func (Topics) CompileResult(requestID string) string {
	return fmt.Sprintf("%s/result/%s", TopicPrefixCompile, requestID)
}

// CompileError returns the topic compile failures are published on.
//
// Example: lumen/compile/error/req-abc123
func (Topics) CompileError(requestID string) string {
	return fmt.Sprintf("%s/error/%s", TopicPrefixCompile, requestID)
}

// =============================================================================
// Template Catalog Topics
// =============================================================================

// TemplateChanged returns the topic for template create/update/delete
// notifications. Subscribers use it to invalidate cached plans.
//
// Example: lumen/template/chevron-sweep/changed
func (Topics) TemplateChanged(templateID string) string {
	return fmt.Sprintf("%s/%s/changed", TopicPrefixTemplate, templateID)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic.
// Carries online/offline payloads, including the Last Will message.
//
// Example: lumen/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemShutdown returns the shutdown signal topic.
//
// Example: lumen/system/shutdown
func (Topics) SystemShutdown() string {
	return fmt.Sprintf("%s/shutdown", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllCompileRequests returns a pattern matching all compile requests.
//
// Pattern: lumen/compile/request
func (Topics) AllCompileRequests() string {
	return fmt.Sprintf("%s/request", TopicPrefixCompile)
}

// AllCompileResults returns a pattern matching all compile results.
//
// Pattern: lumen/compile/result/+
func (Topics) AllCompileResults() string {
	return fmt.Sprintf("%s/result/+", TopicPrefixCompile)
}

// AllCompileErrors returns a pattern matching all compile failures.
//
// Pattern: lumen/compile/error/+
func (Topics) AllCompileErrors() string {
	return fmt.Sprintf("%s/error/+", TopicPrefixCompile)
}

// AllTemplateChanges returns a pattern matching all template notifications.
//
// Pattern: lumen/template/+/changed
func (Topics) AllTemplateChanges() string {
	return fmt.Sprintf("%s/+/changed", TopicPrefixTemplate)
}

// AllTopics returns a pattern matching all Lumen Core topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: lumen/#
func (Topics) AllTopics() string {
	return "lumen/#"
}

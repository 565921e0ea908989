// Package bridge connects the compile pipeline to the MQTT bus.
//
// Playback engines that live on the broker rather than behind HTTP
// publish compile requests to lumen/compile/request and receive the
// compiled segment list on a per-request result topic:
//
//	request:  lumen/compile/request            (shared)
//	result:   lumen/compile/result/{request_id}
//	error:    lumen/compile/error/{request_id}
//
// Requests carry a client-chosen request_id; the bridge generates one
// when it is absent so the reply topic is always well-formed. A request
// references a stored template by ID or carries an inline template
// document, mirroring the HTTP compile endpoint.
//
// The bridge is optional: the daemon runs it only when MQTT is enabled
// in config.yaml. All methods are safe for concurrent use.
package bridge

// Package api implements the HTTP REST API for Lumen Core.
//
// This package provides:
//   - Compile endpoint turning templates into channel segment lists
//   - REST endpoints for template CRUD and the curve catalog
//   - JWT bearer authentication on mutating and compile routes
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between front-of-house tooling (show editors,
// the lumenctl CLI, playback engines polling over HTTP) and the
// compile pipeline. Requests reference a stored template by ID or
// carry an inline template document; the response is the compiled
// segment list ready for a playback engine to interpolate.
//
// # Security
//
// Authentication uses JWT bearer tokens signed with a shared HS256
// secret. Tokens are minted out of band (lumenctl token); there is no
// login endpoint. When security.jwt.enabled is false the middleware
// passes all requests through, which suits single-operator desk setups
// on a closed network.
//
// # Graceful Degradation
//
// The server operates without MQTT and without a telemetry backend.
// Both are reported on /metrics when present and simply absent when
// not.
package api

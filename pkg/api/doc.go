// Package api provides the HTTP API layer for the torchpin resolution service.
//
// This package acts as a thin wrapper around the reusable pkg/server package,
// configuring it with application-specific routes and handlers. It exposes
// torch requirement resolution via REST API. Note: the API server does not
// parse requirement files; use the CLI for that.
//
// # Usage
//
// To start the API server:
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/torchpin/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The API layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Setting up route handlers (/v1/resolutions)
//   - Delegating server lifecycle management to pkg/server
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - GET /v1/resolutions - Resolve a torch requirement into install arguments
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// # Query Parameters (GET /v1/resolutions)
//
//   - torch: requirement specifier, e.g. torch==2.0.1 (required)
//   - cuda: CUDA toolkit version to pin the resolution to, e.g. 11.8
//   - os: target platform family (linux, windows, darwin; default linux)
//   - detect: true to detect the CUDA toolkit on the serving host
//
// Either cuda or detect=true is required. Responses pinned to an explicit
// cuda version are cacheable; detection-based responses are not.
//
// Example:
//
//	curl "http://localhost:8080/v1/resolutions?torch=torch%3D%3D2.0.1&cuda=11.8&os=linux"
//
// # Configuration
//
// The server is configured via environment variables:
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//   - SHUTDOWN_TIMEOUT_SECONDS: Graceful shutdown window
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/torchpin/pkg/api.version=1.0.0'"
package api

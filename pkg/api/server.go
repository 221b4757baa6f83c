package api

import (
	"log/slog"
	"net/http"

	"github.com/NVIDIA/torchpin/pkg/logging"
	"github.com/NVIDIA/torchpin/pkg/server"
)

const (
	name           = "torchpind"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/torchpin/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, sets up routes, and handles graceful shutdown.
// Returns an error if the server fails to start or encounters a fatal error.
func Serve() error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	h := newResolutionHandler(version)

	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version
	cfg.Handlers = map[string]http.HandlerFunc{
		"/v1/resolutions": h.handleResolutions,
	}

	if err := server.RunWithConfig(cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

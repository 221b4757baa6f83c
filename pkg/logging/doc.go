// Package logging provides structured logging utilities for torchpin components.
//
// # Overview
//
// This package wraps the standard library slog package with shared defaults
// and conventions for consistent logging across the CLI and the API server.
// It supports environment-based log level configuration, module/version
// context injection, and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("torchpin", version)
//
//	    slog.Info("resolving requirements", "files", files)
//	    slog.Warn("clamped cuda version", "from", "12.8", "to", "12.1")
//	}
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug torchpin resolve -r requirements.txt
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format with module and version
// attributes attached to every record, keeping stdout free for resolver
// output that callers pipe into pip.
package logging

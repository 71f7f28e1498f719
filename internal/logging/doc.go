// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON lines for machine parsing
//   - Development: colored console output for humans
//
// Output goes to stderr by default so that stdout stays free for display
// bundles and resolved paths printed by the CLI.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("notebook resolved", zap.String("path", path))
//	logger.Error("export failed", zap.Error(err))
package logging

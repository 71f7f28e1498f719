// Package config provides environment-driven configuration for the notebook helpers.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags override environment variables.
//
// Configuration Sections:
//   - Jupyter: runtime directory lookup and fallback token
//   - Kernel: connection file of the local kernel
//   - HTTP: session-listing client timeout and user agent
//   - Save: grace period and poll interval for save-then-export
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("waiting up to %s for saves\n", cfg.Save.GracePeriod)
//
// Environment Variables:
//   - JUPYTER_RUNTIME_DIR, JUPYTER_DATA_DIR, JUPYTER_TOKEN
//   - NB_CONNECTION_FILE
//   - HTTP_TIMEOUT, HTTP_USER_AGENT
//   - SAVE_GRACE_PERIOD, SAVE_POLL_INTERVAL
//   - LOG_LEVEL, LOG_DEV
package config

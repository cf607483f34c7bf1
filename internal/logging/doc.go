// Package logging provides structured logging for the oscsync service.
//
// This package wraps the zap logger with convenience functions for common
// logging patterns used throughout the discovery and synchronization
// pipeline. Logging is silent by default so library-style usage and CLI
// commands produce no unexpected output; set OSCSYNC_LOG_LEVEL (or call
// Initialize with a level) to enable it.
//
// # Log Levels
//
//   - Debug: per-request and per-answer detail
//   - Info: service registrations, goodbyes, fetch results
//   - Warn: recoverable issues (malformed answers, dropped subscribers)
//   - Error: fetch and decode failures
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Service event",
//	    zap.String("service_id", "VRChat-Client-ABC123:8062"),
//	    zap.String("event", "registered"),
//	)
package logging

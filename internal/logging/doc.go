// Package logging provides structured logging for rivalscan runs.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging and post-hoc analysis. It is
// designed to help troubleshoot pipeline runs by providing structured,
// filterable logs that can be analyzed after the fact.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (run ID, stage, component)
//   - Log rotation with configurable size limits
//   - Log aggregation and filtering utilities
//   - Export to JSON or text formats
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger that writes to a file:
//
//	logger, err := logging.NewLogger("/path/to/rivalscan.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	// Log messages at various levels
//	logger.Debug("detailed info", "key", "value")
//	logger.Info("operation completed", "duration_ms", 150)
//	logger.Warn("potential issue", "threshold", 100)
//	logger.Error("operation failed", "error", err.Error())
//
// Passing an empty path writes to stderr instead.
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	// Add run context
//	runLogger := logger.WithRun("a1b2c3d4")
//
//	// Add stage context
//	stageLogger := runLogger.WithStage("MarketResearch")
//
//	// All logs from stageLogger will include run_id and stage
//	stageLogger.Info("search completed", "results", 5)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"search completed","run_id":"a1b2c3d4","stage":"MarketResearch","results":5}
//
// # Log Rotation
//
// The log accumulates across runs, so file-backed loggers rotate
// automatically once the file exceeds the configured size. Rotated files
// are named: rivalscan.log.1, rivalscan.log.2, etc., where .1 is the most
// recent backup.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without creating files
//	}
//
// # Log Aggregation and Filtering
//
// Read and analyze logs after a run:
//
//	entries, err := logging.AggregateLogs("/path/to/rivalscan.log")
//	if err != nil {
//	    return err
//	}
//
//	// Filter logs by various criteria
//	filter := logging.LogFilter{
//	    Level:     "WARN",            // Minimum level
//	    RunID:     "a1b2c3d4",        // Specific run
//	    Stage:     "MarketResearch",  // Specific stage
//	    StartTime: time.Now().Add(-1 * time.Hour),
//	}
//	filtered := logging.FilterLogs(entries, filter)
//
//	// Export to various formats
//	logging.ExportLogEntries(filtered, "errors.json", "json")
//	logging.ExportLogEntries(filtered, "errors.txt", "text")
//
// # Log Levels
//
// The package defines four log levels:
//
//   - [LevelDebug]: Detailed information for debugging
//   - [LevelInfo]: General operational information (default)
//   - [LevelWarn]: Warning conditions that may need attention
//   - [LevelError]: Error conditions that affect functionality
//
// Use [ValidLevels] to get the list of valid level strings, and [ParseLevel]
// to normalize user-provided level strings.
//
// # Configuration
//
// The logging system is typically configured via rivalscan's config file:
//
//	logging:
//	  enabled: true
//	  level: info
//	  max_size_mb: 5
//	  max_backups: 2
//
// When logging.file is unset, entries go to logs/rivalscan.log under the
// config directory.
package logging

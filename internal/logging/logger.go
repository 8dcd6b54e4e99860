// Package logging provides structured logging for rivalscan runs.
// It wraps Go's log/slog package to produce JSON log entries that the
// logs command can aggregate, filter and export after a run.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels accepted in configuration and flags.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// levelTable maps level names to slog levels in severity order.
var levelTable = []struct {
	name  string
	level slog.Level
}{
	{LevelDebug, slog.LevelDebug},
	{LevelInfo, slog.LevelInfo},
	{LevelWarn, slog.LevelWarn},
	{LevelError, slog.LevelError},
}

// Logger writes JSON log entries, optionally to a size-rotated file.
// Child loggers share the parent's destination and add fixed attributes
// to every entry. Safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	file   *RotatingWriter
	mu     sync.Mutex
}

// NewLogger opens a rotating JSON log at logPath with the default rotation
// policy. An empty logPath logs to stderr instead. Unknown level names fall
// back to INFO.
func NewLogger(logPath string, level string) (*Logger, error) {
	return NewLoggerWithRotation(logPath, level, DefaultRotationConfig())
}

// NewLoggerWithRotation is NewLogger with an explicit rotation policy,
// used when the size and backup limits come from configuration. Parent
// directories of logPath are created as needed.
func NewLoggerWithRotation(logPath string, level string, rotation RotationConfig) (*Logger, error) {
	var writer io.Writer = os.Stderr
	var file *RotatingWriter

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		var err error
		file, err = NewRotatingWriter(logPath, rotation)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = file
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slogLevel(level),
	})

	return &Logger{logger: slog.New(handler), file: file}, nil
}

// NopLogger returns a Logger that discards everything. Used when logging
// is disabled and in tests.
func NopLogger() *Logger {
	return &Logger{logger: slog.New(slog.DiscardHandler)}
}

// child wraps a derived slog logger, keeping the shared file handle so
// Close works through any child.
func (l *Logger) child(s *slog.Logger) *Logger {
	return &Logger{logger: s, file: l.file}
}

// With returns a child logger whose entries all carry the given key-value
// pairs, in addition to everything inherited from the parent.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return l.child(l.logger.With(args...))
}

// WithRun returns a child logger scoped to one pipeline run.
func (l *Logger) WithRun(runID string) *Logger {
	return l.With("run_id", runID)
}

// WithStage returns a child logger scoped to one stage of a run, named by
// the stage identifier ("MarketResearch", "FeatureAnalysis", ...).
func (l *Logger) WithStage(stage string) *Logger {
	return l.With("stage", stage)
}

// WithComponent returns a child logger tagged with a component name such
// as "pipeline", "search" or "llm".
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// Debug logs at DEBUG level with alternating key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs at INFO level with alternating key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs at WARN level with alternating key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs at ERROR level with alternating key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Close releases the log file. Closing a stderr or nop logger, or closing
// twice, is a no-op. Children share the parent's file, so closing any of
// them closes the destination for all.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	l.file = nil
	return nil
}

// slogLevel resolves a level name against the table, defaulting to INFO.
func slogLevel(level string) slog.Level {
	name := strings.ToUpper(level)
	for _, e := range levelTable {
		if e.name == name {
			return e.level
		}
	}
	return slog.LevelInfo
}

// ParseLevel canonicalizes a level name to its uppercase constant.
// Unknown names resolve to LevelInfo.
func ParseLevel(level string) string {
	name := strings.ToUpper(level)
	for _, e := range levelTable {
		if e.name == name {
			return e.name
		}
	}
	return LevelInfo
}

// ValidLevels lists the accepted level names in severity order.
func ValidLevels() []string {
	names := make([]string, len(levelTable))
	for i, e := range levelTable {
		names[i] = e.name
	}
	return names
}

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// readEntries decodes every JSON line the logger wrote to path.
func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entries []map[string]any
	for i, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLoggerCreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file missing at %s: %v", logPath, err)
	}
}

func TestNewLoggerCreatesParentDirs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "state", "rivalscan", "rivalscan.log")

	logger, err := NewLogger(logPath, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file missing at %s: %v", logPath, err)
	}
}

func TestNewLoggerEmptyPathUsesStderr(t *testing.T) {
	logger, err := NewLogger("", LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.file != nil {
		t.Error("an empty path should not open a file")
	}
}

func TestNewLoggerUnknownLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, "chatty")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	// Unknown level falls back to INFO: debug suppressed, info kept
	logger.Debug("hidden")
	logger.Info("shown")
	logger.Close()

	entries := readEntries(t, logPath)
	if len(entries) != 1 || entries[0]["msg"] != "shown" {
		t.Errorf("expected only the info entry, got %v", entries)
	}
}

func TestNewLoggerWithRotationPolicy(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLoggerWithRotation(logPath, LevelDebug, RotationConfig{
		MaxSizeMB:  1,
		MaxBackups: 3,
	})
	if err != nil {
		t.Fatalf("NewLoggerWithRotation failed: %v", err)
	}
	defer logger.Close()

	if logger.file == nil {
		t.Fatal("expected a file-backed logger")
	}
	if logger.file.maxSizeB != 1*1024*1024 {
		t.Errorf("maxSizeB = %d, want %d", logger.file.maxSizeB, 1*1024*1024)
	}
	if logger.file.maxBackups != 3 {
		t.Errorf("maxBackups = %d, want 3", logger.file.maxBackups)
	}
}

func TestLoggerWritesAllLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")
	logger.Close()

	entries := readEntries(t, logPath)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	wantMsgs := []string{"debug message", "info message", "warn message", "error message"}
	for i, entry := range entries {
		if entry["level"] != wantLevels[i] {
			t.Errorf("entry %d level = %v, want %s", i, entry["level"], wantLevels[i])
		}
		if entry["msg"] != wantMsgs[i] {
			t.Errorf("entry %d msg = %v, want %s", i, entry["msg"], wantMsgs[i])
		}
		if entry["key"] != "value" {
			t.Errorf("entry %d key = %v, want value", i, entry["key"])
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Close()

	entries := readEntries(t, logPath)
	if len(entries) != 2 {
		t.Fatalf("WARN-level logger should keep 2 of 4 entries, got %d", len(entries))
	}
	if entries[0]["msg"] != "warn message" || entries[1]["msg"] != "error message" {
		t.Errorf("unexpected surviving entries: %v", entries)
	}
}

func TestChildLoggerScoping(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	child := logger.WithRun("1a2b3c4d").WithStage("MarketResearch").WithComponent("search")
	child.Info("searching", "query", "competitors for a meal-kit service")

	// The parent stays unscoped
	logger.Info("plain entry")
	logger.Close()

	entries := readEntries(t, logPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	scoped := entries[0]
	if scoped["run_id"] != "1a2b3c4d" {
		t.Errorf("run_id = %v, want 1a2b3c4d", scoped["run_id"])
	}
	if scoped["stage"] != "MarketResearch" {
		t.Errorf("stage = %v, want MarketResearch", scoped["stage"])
	}
	if scoped["component"] != "search" {
		t.Errorf("component = %v, want search", scoped["component"])
	}
	if scoped["query"] != "competitors for a meal-kit service" {
		t.Errorf("query = %v", scoped["query"])
	}

	plain := entries[1]
	if _, ok := plain["run_id"]; ok {
		t.Error("parent logger must not inherit the child's run scope")
	}
}

func TestLoggerWith(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.With("model", "llama-3.3-70b-versatile", "max_tokens", 1024).Info("completion requested")
	logger.Close()

	entries := readEntries(t, logPath)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["model"] != "llama-3.3-70b-versatile" {
		t.Errorf("model = %v", entries[0]["model"])
	}
	if entries[0]["max_tokens"] != float64(1024) {
		t.Errorf("max_tokens = %v, want 1024", entries[0]["max_tokens"])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	if err := logger.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"ERROR", LevelError},
		{"loud", LevelInfo},
		{"", LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestValidLevels(t *testing.T) {
	want := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	got := ValidLevels()
	if len(got) != len(want) {
		t.Fatalf("ValidLevels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ValidLevels()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoggerCloseTwice(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("before close")

	if err := logger.Close(); err != nil {
		t.Errorf("first Close returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}

	if entries := readEntries(t, logPath); len(entries) != 1 {
		t.Errorf("expected the entry written before close, got %d entries", len(entries))
	}
}

func TestLoggerConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rivalscan.log")

	logger, err := NewLogger(logPath, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Go(func() {
			child := logger.With("goroutine", g)
			for i := range 100 {
				child.Info("concurrent write", "iteration", i)
			}
		})
	}
	wg.Wait()
	logger.Close()

	entries := readEntries(t, logPath)
	if len(entries) != 1000 {
		t.Errorf("expected 1000 entries, got %d", len(entries))
	}
}

package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rivalscan/rivalscan/internal/config"
	"github.com/rivalscan/rivalscan/internal/event"
	"github.com/rivalscan/rivalscan/internal/logging"
	"github.com/rivalscan/rivalscan/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// captureOutput captures stdout during function execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// clearCredentialEnv blanks the provider credentials so tests never pick up
// keys from the host environment or a user config file.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CSE_ID", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}

	if rootCmd.Use != "rivalscan" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "rivalscan")
	}

	// Check for expected subcommands (compare by Name(), not Use which includes args)
	expectedCmds := []string{"analyze", "config", "logs"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}

	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestAnalyzeCommand_NoAPIKey(t *testing.T) {
	clearCredentialEnv(t)

	_, err := executeCommand(rootCmd, "analyze", "a Notion-like tool for video creators")
	if err == nil {
		t.Fatal("analyze should fail without a Groq API key")
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY") {
		t.Errorf("error should name the missing credential, got: %v", err)
	}
}

func TestAnalyzeCommand_EmptyDescription(t *testing.T) {
	clearCredentialEnv(t)

	_, err := executeCommand(rootCmd, "analyze", "   ")
	if err == nil {
		t.Fatal("analyze should fail on a blank description")
	}
	if !strings.Contains(err.Error(), "cannot be empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCollectDescription(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "single argument",
			args: []string{"a meal-kit service for athletes"},
			want: "a meal-kit service for athletes",
		},
		{
			name: "joins multiple arguments",
			args: []string{"a", "meal-kit", "service"},
			want: "a meal-kit service",
		},
		{
			name: "trims surrounding whitespace",
			args: []string{"  padded idea  "},
			want: "padded idea",
		},
		{
			name:    "blank argument",
			args:    []string{"   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectDescription(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("collectDescription failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("collectDescription = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   string
	}{
		{"", "(not set)"},
		{"abc", "****"},
		{"abcd", "****"},
		{"sk-1234567890", "*********7890"},
	}

	for _, tt := range tests {
		if got := maskSecret(tt.secret); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.secret, got, tt.want)
		}
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "error"} {
		if !isValidLevel(level) {
			t.Errorf("isValidLevel(%q) = false, want true", level)
		}
	}
	if isValidLevel("verbose") {
		t.Error("isValidLevel(\"verbose\") = true, want false")
	}
}

func TestConfigShow(t *testing.T) {
	clearCredentialEnv(t)

	output := captureOutput(func() {
		if err := runConfigShow(configShowCmd, nil); err != nil {
			t.Errorf("runConfigShow failed: %v", err)
		}
	})

	for _, want := range []string{"search:", "model:", "report:", "logging:", "tui:"} {
		if !strings.Contains(output, want) {
			t.Errorf("config show output missing %q", want)
		}
	}

	// Unset keys must show as such, never raw
	if !strings.Contains(output, "(not set)") {
		t.Error("config show should mask unset API keys")
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	err := runConfigSet(configSetCmd, []string{"bogus.key", "1"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown configuration key") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigSet_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bool key rejects non-bool", "tui.plain", "yes"},
		{"int key rejects text", "search.max_results", "many"},
		{"int key rejects negative", "model.max_tokens", "-1"},
		{"float key rejects text", "model.temperature", "warm"},
		{"level key rejects unknown level", "logging.level", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runConfigSet(configSetCmd, []string{tt.key, tt.value}); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestConfigSet_WritesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() {
		viper.Reset()
		config.SetDefaults()
	})

	if err := runConfigSet(configSetCmd, []string{"search.max_results", "8"}); err != nil {
		t.Fatalf("runConfigSet failed: %v", err)
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "max_results: 8") {
		t.Errorf("config file missing the new value:\n%s", data)
	}
}

func TestConfigInit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("runConfigInit failed: %v", err)
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	for _, want := range []string{"search:", "model:", "llama-3.3-70b-versatile", "output_file:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config template missing %q", want)
		}
	}

	// A second init must not overwrite the file
	if err := runConfigInit(configInitCmd, nil); err == nil {
		t.Error("expected error when config file already exists")
	}
}

func TestInitConfigBindsProviderEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test-1234")
	t.Setenv("GOOGLE_API_KEY", "goog-key")
	t.Setenv("GOOGLE_CSE_ID", "cse-42")
	t.Cleanup(func() {
		viper.Reset()
		config.SetDefaults()
	})

	initConfig()
	cfg := config.Get()

	if cfg.Model.APIKey != "gsk-test-1234" {
		t.Errorf("Model.APIKey = %q, want the GROQ_API_KEY value", cfg.Model.APIKey)
	}
	if cfg.Search.APIKey != "goog-key" {
		t.Errorf("Search.APIKey = %q, want the GOOGLE_API_KEY value", cfg.Search.APIKey)
	}
	if cfg.Search.EngineID != "cse-42" {
		t.Errorf("Search.EngineID = %q, want the GOOGLE_CSE_ID value", cfg.Search.EngineID)
	}
}

func TestInitConfigPrefixedEnvWins(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-plain")
	t.Setenv("RIVALSCAN_MODEL_API_KEY", "gsk-prefixed")
	t.Cleanup(func() {
		viper.Reset()
		config.SetDefaults()
	})

	initConfig()
	cfg := config.Get()

	if cfg.Model.APIKey != "gsk-prefixed" {
		t.Errorf("Model.APIKey = %q, the RIVALSCAN_ form should take precedence", cfg.Model.APIKey)
	}
}

func TestApplyAnalyzeFlags(t *testing.T) {
	flags := []struct{ name, value string }{
		{"output", "reports/out.md"},
		{"model", "llama-3.1-8b-instant"},
		{"max-results", "3"},
		{"max-tokens", "2048"},
		{"plain", "true"},
	}
	for _, f := range flags {
		if err := analyzeCmd.Flags().Set(f.name, f.value); err != nil {
			t.Fatalf("failed to set --%s: %v", f.name, err)
		}
	}

	cfg := config.Default()
	applyAnalyzeFlags(analyzeCmd, cfg)

	if cfg.Report.OutputFile != "reports/out.md" {
		t.Errorf("OutputFile = %q, want flag override", cfg.Report.OutputFile)
	}
	if cfg.Model.Name != "llama-3.1-8b-instant" {
		t.Errorf("Model.Name = %q, want flag override", cfg.Model.Name)
	}
	if cfg.Search.MaxResults != 3 {
		t.Errorf("MaxResults = %d, want 3", cfg.Search.MaxResults)
	}
	if cfg.Model.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d, want 2048", cfg.Model.MaxTokens)
	}
	if !cfg.TUI.Plain {
		t.Error("TUI.Plain should be overridden to true")
	}
}

func TestBuildSearchProvider(t *testing.T) {
	t.Run("nil without credentials", func(t *testing.T) {
		cfg := config.Default()
		provider, err := buildSearchProvider(cfg)
		if err != nil {
			t.Fatalf("buildSearchProvider failed: %v", err)
		}
		if provider != nil {
			t.Error("provider should be nil when credentials are missing")
		}
	})

	t.Run("client with credentials", func(t *testing.T) {
		cfg := config.Default()
		cfg.Search.APIKey = "key"
		cfg.Search.EngineID = "cx"
		provider, err := buildSearchProvider(cfg)
		if err != nil {
			t.Fatalf("buildSearchProvider failed: %v", err)
		}
		if provider == nil {
			t.Error("provider should be non-nil when credentials are set")
		}
	})
}

func TestBuildLogger(t *testing.T) {
	t.Run("nop when disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Logging.Enabled = false
		logger, err := buildLogger(cfg)
		if err != nil {
			t.Fatalf("buildLogger failed: %v", err)
		}
		logger.Info("dropped")
		if err := logger.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})

	t.Run("file-backed when enabled", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "rivalscan.log")
		cfg := config.Default()
		cfg.Logging.File = logFile

		logger, err := buildLogger(cfg)
		if err != nil {
			t.Fatalf("buildLogger failed: %v", err)
		}
		logger.Info("hello")
		if err := logger.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}

		data, err := os.ReadFile(logFile)
		if err != nil {
			t.Fatalf("log file not created: %v", err)
		}
		if !strings.Contains(string(data), "hello") {
			t.Error("log entry not written")
		}
	})
}

func TestWriteReport(t *testing.T) {
	report := &pipeline.Report{
		RunID:       "ab12cd34",
		Description: "a meal-kit service for athletes",
		Outputs: []pipeline.StageOutput{
			{Stage: pipeline.StageMarketResearch, Text: "1. MealPro - mealpro.example"},
		},
	}

	path := filepath.Join(t.TempDir(), "reports", "analysis.md")
	if err := writeReport(report, path); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# Competitor Analysis") {
		t.Error("report missing title")
	}
	if !strings.Contains(content, "## Market Research") {
		t.Error("report missing stage section")
	}
}

func TestPlainPrinter(t *testing.T) {
	var buf bytes.Buffer
	printer := newPlainPrinter(&buf)

	printer.handle(event.NewRunStartedEvent("ab12cd34", "a meal-kit service", []string{"MarketResearch", "FeatureAnalysis", "Differentiation", "GTM"}))
	printer.handle(event.NewStageStartedEvent("ab12cd34", "MarketResearch", 0, 4, true))
	printer.handle(event.NewSearchDegradedEvent("ab12cd34", "MarketResearch", "competitors for a meal-kit service", "no search provider configured"))
	printer.handle(event.NewStageCompletedEvent("ab12cd34", "MarketResearch", 0, 4, 900, 0, true, 1500*time.Millisecond))
	printer.handle(event.NewRunCompletedEvent("ab12cd34", 4, true, 9500*time.Millisecond))

	output := buf.String()
	for _, want := range []string{
		"Analyzing \"a meal-kit service\" (run ab12cd34, 4 stages)",
		"[1/4] Market Research...",
		"search unavailable (no search provider configured)",
		"[1/4] Market Research done in 1.5s",
		"Analysis complete in 9.5s",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("printer output missing %q:\n%s", want, output)
		}
	}
}

func TestPlainPrinter_Failure(t *testing.T) {
	var buf bytes.Buffer
	printer := newPlainPrinter(&buf)

	printer.handle(event.NewStageCompletedEvent("ab12cd34", "MarketResearch", 0, 4, 900, 5, false, 2*time.Second))
	printer.handle(event.NewRunFailedEvent("ab12cd34", "FeatureAnalysis", "stage FeatureAnalysis: completion request failed", []string{"MarketResearch"}))

	output := buf.String()
	if !strings.Contains(output, "(5 search results)") {
		t.Errorf("printer should report the search result count:\n%s", output)
	}
	if !strings.Contains(output, "Analysis failed at Feature Analysis") {
		t.Errorf("printer should name the failed stage by title:\n%s", output)
	}
}

func TestBuildLogFilter(t *testing.T) {
	origRunID, origStage := logsRunID, logsStage
	origLevel, origSince, origGrep := logsLevel, logsSince, logsGrep
	defer func() {
		logsRunID, logsStage = origRunID, origStage
		logsLevel, logsSince, logsGrep = origLevel, origSince, origGrep
	}()

	logsRunID = "ab12cd34"
	logsStage = "GTM"
	logsLevel = "warn"
	logsSince = "30m"
	logsGrep = "search"

	filter, err := buildLogFilter()
	if err != nil {
		t.Fatalf("buildLogFilter failed: %v", err)
	}

	if filter.RunID != "ab12cd34" || filter.Stage != "GTM" {
		t.Errorf("unexpected run/stage filter: %+v", filter)
	}
	if filter.Level != logging.LevelWarn {
		t.Errorf("Level = %q, want %q", filter.Level, logging.LevelWarn)
	}
	if filter.MessageContains != "search" {
		t.Errorf("MessageContains = %q, want %q", filter.MessageContains, "search")
	}
	if filter.StartTime.IsZero() || time.Since(filter.StartTime) < 29*time.Minute {
		t.Errorf("StartTime not derived from --since: %v", filter.StartTime)
	}

	logsSince = "soon"
	if _, err := buildLogFilter(); err == nil {
		t.Error("expected error for invalid --since duration")
	}
}

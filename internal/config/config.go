package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Rivalscan configuration
type Config struct {
	Search   SearchConfig   `mapstructure:"search"`
	Model    ModelConfig    `mapstructure:"model"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	TUI      TUIConfig      `mapstructure:"tui"`
}

// SearchConfig controls the web search client
type SearchConfig struct {
	// APIKey is the Google Custom Search API key.
	// Falls back to the GOOGLE_API_KEY environment variable.
	APIKey string `mapstructure:"api_key"`
	// EngineID is the Programmable Search Engine ID (the "cx" parameter).
	// Falls back to the GOOGLE_CSE_ID environment variable.
	EngineID string `mapstructure:"engine_id"`
	// MaxResults is the number of search results requested per query (default: 5).
	// The Custom Search API caps this at 10.
	MaxResults int `mapstructure:"max_results"`
	// TimeoutSeconds is the per-request timeout for search calls (default: 15)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ModelConfig controls the language model client
type ModelConfig struct {
	// APIKey is the Groq API key.
	// Falls back to the GROQ_API_KEY environment variable.
	APIKey string `mapstructure:"api_key"`
	// Name is the model identifier (default: "llama-3.3-70b-versatile")
	Name string `mapstructure:"name"`
	// Temperature is the sampling temperature, 0 to 2 (default: 0.7)
	Temperature float64 `mapstructure:"temperature"`
	// MaxTokens is the completion token limit per stage (default: 1024)
	MaxTokens int `mapstructure:"max_tokens"`
	// TimeoutSeconds is the per-request timeout for completion calls (default: 60)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// PipelineConfig controls analysis run behavior
type PipelineConfig struct {
	// MaxPromptChars limits the rendered prompt size in runes (default: 24000).
	// Earlier stage outputs are truncated, oldest first, to stay under it.
	MaxPromptChars int `mapstructure:"max_prompt_chars"`
}

// ReportConfig controls report output
type ReportConfig struct {
	// OutputFile is the default report path (default: "competitor_analysis.md")
	OutputFile string `mapstructure:"output_file"`
}

// LoggingConfig controls run logging behavior
type LoggingConfig struct {
	// Enabled controls whether the run log is written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path. Empty means the default location under
	// the config directory (see DefaultLogFile).
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Plain disables the live progress UI and prints plain text instead.
	// The UI is also disabled automatically when stdout is not a terminal.
	Plain bool `mapstructure:"plain"`
}

// DefaultModelName is the model used when none is configured.
const DefaultModelName = "llama-3.3-70b-versatile"

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			APIKey:         "",
			EngineID:       "",
			MaxResults:     5,
			TimeoutSeconds: 15,
		},
		Model: ModelConfig{
			APIKey:         "",
			Name:           DefaultModelName,
			Temperature:    0.7,
			MaxTokens:      1024,
			TimeoutSeconds: 60,
		},
		Pipeline: PipelineConfig{
			MaxPromptChars: 24000,
		},
		Report: ReportConfig{
			OutputFile: "competitor_analysis.md",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			File:       "", // Empty means use default: <config dir>/logs/rivalscan.log
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
		TUI: TUIConfig{
			Plain: false,
		},
	}
}

// Timeout returns the search timeout as a time.Duration
func (c *SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the completion timeout as a time.Duration
func (c *ModelConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Search defaults
	viper.SetDefault("search.api_key", defaults.Search.APIKey)
	viper.SetDefault("search.engine_id", defaults.Search.EngineID)
	viper.SetDefault("search.max_results", defaults.Search.MaxResults)
	viper.SetDefault("search.timeout_seconds", defaults.Search.TimeoutSeconds)

	// Model defaults
	viper.SetDefault("model.api_key", defaults.Model.APIKey)
	viper.SetDefault("model.name", defaults.Model.Name)
	viper.SetDefault("model.temperature", defaults.Model.Temperature)
	viper.SetDefault("model.max_tokens", defaults.Model.MaxTokens)
	viper.SetDefault("model.timeout_seconds", defaults.Model.TimeoutSeconds)

	// Pipeline defaults
	viper.SetDefault("pipeline.max_prompt_chars", defaults.Pipeline.MaxPromptChars)

	// Report defaults
	viper.SetDefault("report.output_file", defaults.Report.OutputFile)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// TUI defaults
	viper.SetDefault("tui.plain", defaults.TUI.Plain)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rivalscan")
	}
	// Fall back to ~/.config/rivalscan
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rivalscan"
	}
	return filepath.Join(home, ".config", "rivalscan")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultLogFile returns the default log file path used when logging.file is empty
func DefaultLogFile() string {
	return filepath.Join(ConfigDir(), "logs", "rivalscan.log")
}

// ResolveLogFile returns the effective log file path for this configuration
func (c *LoggingConfig) ResolveLogFile() string {
	if c.File != "" {
		return c.File
	}
	return DefaultLogFile()
}

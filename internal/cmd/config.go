package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rivalscan/rivalscan/internal/config"
	"github.com/rivalscan/rivalscan/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify rivalscan configuration",
	Long: `View or modify rivalscan configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  rivalscan config set model.name llama-3.3-70b-versatile
  rivalscan config set search.max_results 8
  rivalscan config set logging.level debug

Valid keys:
  search.api_key          - Google Custom Search API key
  search.engine_id        - Programmable Search Engine ID
  search.max_results      - Search results per query (1-10)
  search.timeout_seconds  - Search request timeout in seconds
  model.api_key           - Groq API key
  model.name              - Model used for every stage
  model.temperature       - Sampling temperature (0-2)
  model.max_tokens        - Completion token limit per stage
  model.timeout_seconds   - Completion request timeout in seconds
  pipeline.max_prompt_chars - Prompt size cap in characters
  report.output_file      - Default report path
  logging.enabled         - Write a run log (true/false)
  logging.level           - Log level: debug, info, warn, error
  logging.file            - Log file path (empty for the default)
  logging.max_size_mb     - Log size in MB before rotation
  logging.max_backups     - Rotated log files to keep
  tui.plain               - Always print plain progress (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/rivalscan/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	// Search settings
	fmt.Println("search:")
	fmt.Printf("  api_key: %s\n", maskSecret(cfg.Search.APIKey))
	fmt.Printf("  engine_id: %s\n", maskSecret(cfg.Search.EngineID))
	fmt.Printf("  max_results: %d\n", cfg.Search.MaxResults)
	fmt.Printf("  timeout_seconds: %d\n", cfg.Search.TimeoutSeconds)

	// Model settings
	fmt.Println("model:")
	fmt.Printf("  api_key: %s\n", maskSecret(cfg.Model.APIKey))
	fmt.Printf("  name: %s\n", cfg.Model.Name)
	fmt.Printf("  temperature: %g\n", cfg.Model.Temperature)
	fmt.Printf("  max_tokens: %d\n", cfg.Model.MaxTokens)
	fmt.Printf("  timeout_seconds: %d\n", cfg.Model.TimeoutSeconds)

	// Pipeline settings
	fmt.Println("pipeline:")
	fmt.Printf("  max_prompt_chars: %d\n", cfg.Pipeline.MaxPromptChars)

	// Report settings
	fmt.Println("report:")
	fmt.Printf("  output_file: %s\n", cfg.Report.OutputFile)

	// Logging settings
	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	fmt.Printf("  file: %s\n", cfg.Logging.ResolveLogFile())
	fmt.Printf("  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Printf("  max_backups: %d\n", cfg.Logging.MaxBackups)

	// TUI settings
	fmt.Println("tui:")
	fmt.Printf("  plain: %v\n", cfg.TUI.Plain)

	return nil
}

// maskSecret hides all but the last four characters of an API key.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"search.api_key":            "string",
		"search.engine_id":          "string",
		"search.max_results":        "int",
		"search.timeout_seconds":    "int",
		"model.api_key":             "string",
		"model.name":                "string",
		"model.temperature":         "float",
		"model.max_tokens":          "int",
		"model.timeout_seconds":     "int",
		"pipeline.max_prompt_chars": "int",
		"report.output_file":        "string",
		"logging.enabled":           "bool",
		"logging.level":             "level",
		"logging.file":              "string",
		"logging.max_size_mb":       "int",
		"logging.max_backups":       "int",
		"tui.plain":                 "bool",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'rivalscan config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		typedValue = value
	case "level":
		if !isValidLevel(value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(logging.ValidLevels(), ", "))
		}
		typedValue = strings.ToLower(value)
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	case "float":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected number", key)
		}
		if floatVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = floatVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if keyType == "string" && strings.HasSuffix(key, "api_key") {
		fmt.Printf("Set %s = %s\n", key, maskSecret(value))
	} else {
		fmt.Printf("Set %s = %v\n", key, typedValue)
	}
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

// isValidLevel reports whether the value names a known log level.
func isValidLevel(value string) bool {
	for _, level := range logging.ValidLevels() {
		if strings.EqualFold(value, level) {
			return true
		}
	}
	return false
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'rivalscan config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Rivalscan configuration

# Web search settings (Google Programmable Search)
search:
  # API key; leave empty to use the GOOGLE_API_KEY environment variable.
  # Without a key the research stage runs on model knowledge alone.
  api_key: ""
  # Search engine ID; leave empty to use GOOGLE_CSE_ID
  engine_id: ""
  # Results per query (the API caps this at 10)
  max_results: 5
  # Per-request timeout in seconds
  timeout_seconds: 15

# Language model settings (Groq)
model:
  # API key; leave empty to use the GROQ_API_KEY environment variable
  api_key: ""
  # Model used for every stage
  name: llama-3.3-70b-versatile
  # Sampling temperature, 0 to 2
  temperature: 0.7
  # Completion token limit per stage
  max_tokens: 1024
  # Per-request timeout in seconds
  timeout_seconds: 60

# Analysis run settings
pipeline:
  # Prompt size cap in characters; earlier stage outputs are trimmed to fit
  max_prompt_chars: 24000

# Report settings
report:
  # Default report path for 'rivalscan analyze'
  output_file: competitor_analysis.md

# Run log settings
logging:
  enabled: true
  # debug, info, warn, or error
  level: info
  # Log file path; empty means <config dir>/logs/rivalscan.log
  file: ""
  # Size in MB before the log rotates
  max_size_mb: 5
  # Rotated files to keep
  max_backups: 2

# Terminal UI settings
tui:
  # Always print plain progress lines instead of the live checklist
  plain: false
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println("Edit this file to customize rivalscan's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/rivalscan/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: RIVALSCAN_* (e.g., RIVALSCAN_MODEL_MAX_TOKENS),")
	fmt.Println("plus GOOGLE_API_KEY, GOOGLE_CSE_ID, and GROQ_API_KEY for credentials.")

	return nil
}

package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "search.max_results")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// MaxSearchResults is the hard cap on results per query.
// The Custom Search JSON API rejects num values above 10.
const MaxSearchResults = 10

// Validate checks the Config for invalid values and returns all validation errors found.
// API keys are deliberately not checked here: config inspection and editing must work
// before credentials exist. Key presence is enforced when an analysis run starts.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSearch()...)
	errors = append(errors, c.validateModel()...)
	errors = append(errors, c.validatePipeline()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSearch validates the SearchConfig
func (c *Config) validateSearch() []ValidationError {
	var errors []ValidationError

	if c.Search.MaxResults < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.max_results",
			Value:   c.Search.MaxResults,
			Message: "must be at least 1",
		})
	}
	if c.Search.MaxResults > MaxSearchResults {
		errors = append(errors, ValidationError{
			Field:   "search.max_results",
			Value:   c.Search.MaxResults,
			Message: fmt.Sprintf("exceeds maximum of %d (Custom Search API limit)", MaxSearchResults),
		})
	}

	const maxSearchTimeout = 300 // 5 minutes
	if c.Search.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "search.timeout_seconds",
			Value:   c.Search.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Search.TimeoutSeconds > maxSearchTimeout {
		errors = append(errors, ValidationError{
			Field:   "search.timeout_seconds",
			Value:   c.Search.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxSearchTimeout),
		})
	}

	return errors
}

// validateModel validates the ModelConfig
func (c *Config) validateModel() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Model.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "model.name",
			Value:   c.Model.Name,
			Message: "cannot be empty",
		})
	}

	// OpenAI-compatible APIs accept temperatures from 0 to 2
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "model.temperature",
			Value:   c.Model.Temperature,
			Message: "must be between 0 and 2",
		})
	}

	const maxMaxTokens = 32768
	if c.Model.MaxTokens <= 0 {
		errors = append(errors, ValidationError{
			Field:   "model.max_tokens",
			Value:   c.Model.MaxTokens,
			Message: "must be positive",
		})
	}
	if c.Model.MaxTokens > maxMaxTokens {
		errors = append(errors, ValidationError{
			Field:   "model.max_tokens",
			Value:   c.Model.MaxTokens,
			Message: fmt.Sprintf("exceeds maximum of %d", maxMaxTokens),
		})
	}

	const maxModelTimeout = 600 // 10 minutes
	if c.Model.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "model.timeout_seconds",
			Value:   c.Model.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Model.TimeoutSeconds > maxModelTimeout {
		errors = append(errors, ValidationError{
			Field:   "model.timeout_seconds",
			Value:   c.Model.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxModelTimeout),
		})
	}

	return errors
}

// validatePipeline validates the PipelineConfig
func (c *Config) validatePipeline() []ValidationError {
	var errors []ValidationError

	// The rendered prompt must at least fit a persona, a task, and the
	// startup description; anything under a few thousand runes starves
	// the later stages of prior output.
	const minPromptChars = 2000
	const maxPromptChars = 200000

	if c.Pipeline.MaxPromptChars < minPromptChars {
		errors = append(errors, ValidationError{
			Field:   "pipeline.max_prompt_chars",
			Value:   c.Pipeline.MaxPromptChars,
			Message: fmt.Sprintf("must be at least %d", minPromptChars),
		})
	}
	if c.Pipeline.MaxPromptChars > maxPromptChars {
		errors = append(errors, ValidationError{
			Field:   "pipeline.max_prompt_chars",
			Value:   c.Pipeline.MaxPromptChars,
			Message: fmt.Sprintf("exceeds maximum of %d", maxPromptChars),
		})
	}

	return errors
}

// validateReport validates the ReportConfig
func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	path := c.Report.OutputFile
	if path == "" {
		errors = append(errors, ValidationError{
			Field:   "report.output_file",
			Value:   path,
			Message: "cannot be empty",
		})
		return errors
	}

	if strings.ContainsRune(path, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "report.output_file",
			Value:   path,
			Message: "path contains invalid null character",
		})
	}

	// Reasonable path length limit (most filesystems have limits around 4096)
	const maxPathLength = 4096
	if len(path) > maxPathLength {
		errors = append(errors, ValidationError{
			Field:   "report.output_file",
			Value:   path,
			Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	if strings.ContainsRune(c.Logging.File, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.file",
			Value:   c.Logging.File,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

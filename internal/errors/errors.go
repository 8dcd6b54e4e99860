// Package errors provides centralized error definitions and error handling utilities
// for the rivalscan codebase. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from the two outbound boundaries:
//   - SearchError: errors from the search provider (network/auth/quota)
//   - GenerationError: errors from the language model provider
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewSearchError("search request failed", errors.ErrSearchUnavailable)
//
//	// With context wrapping
//	err := errors.NewGenerationError("completion failed", baseErr).WithStage("MarketResearch")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrSearchUnavailable) { ... }
//
//	// Check for error types
//	var genErr *errors.GenerationError
//	if errors.As(err, &genErr) { ... }
//
//	// Use classification helpers
//	if errors.IsFatal(err) { ... }
//	if errors.IsUserFacing(err) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Fatal: errors that abort the pipeline run (vs degradable ones)
//   - Retryable: transient errors that may succeed on retry
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Search-related sentinel errors
var (
	// ErrSearchUnavailable indicates that the search provider could not be
	// reached or refused the request (network, auth, or quota failure).
	// The pipeline treats this as non-fatal: the stage proceeds without
	// search evidence.
	ErrSearchUnavailable = New("search provider unavailable")
	// ErrEmptyQuery indicates that a search was requested with an empty query.
	ErrEmptyQuery = New("search query is empty")
)

// Generation-related sentinel errors
var (
	// ErrGenerationFailed indicates that the language model provider failed
	// to produce a completion. This is fatal to the pipeline run.
	ErrGenerationFailed = New("text generation failed")
	// ErrEmptyPrompt indicates that a completion was requested with an empty prompt.
	ErrEmptyPrompt = New("prompt is empty")
	// ErrEmptyCompletion indicates that the model returned no usable text.
	ErrEmptyCompletion = New("model returned an empty completion")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// RivalscanError is the base interface for all rivalscan errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type RivalscanError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SearchError represents errors from the search provider boundary.
// Search failures never abort a run: the requesting stage degrades to
// context-only prompting.
//
// Example:
//
//	err := errors.NewSearchError("search request failed", errors.ErrSearchUnavailable)
//	err = err.WithQuery("competitors for acme").WithStatusCode(429)
//	fmt.Println(err) // "search error [query=competitors for acme, status=429]: search request failed: search provider unavailable"
type SearchError struct {
	baseError
	Query      string
	StatusCode int
}

// NewSearchError creates a new SearchError.
func NewSearchError(message string, cause error) *SearchError {
	return &SearchError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithQuery adds the search query to the error context.
func (e *SearchError) WithQuery(query string) *SearchError {
	e.Query = query
	return e
}

// WithStatusCode adds the provider's HTTP status code to the error context.
func (e *SearchError) WithStatusCode(code int) *SearchError {
	e.StatusCode = code
	return e
}

// WithSeverity sets the error severity.
func (e *SearchError) WithSeverity(s Severity) *SearchError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *SearchError) WithRetryable(r bool) *SearchError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *SearchError) Error() string {
	var parts []string
	if e.Query != "" {
		parts = append(parts, fmt.Sprintf("query=%s", e.Query))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "search error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("search error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SearchError) Is(target error) bool {
	if _, ok := target.(*SearchError); ok {
		return true
	}
	if errors.Is(target, ErrSearchUnavailable) {
		return true
	}
	return e.baseError.Is(target)
}

// GenerationError represents errors from the language model boundary.
// A generation failure is fatal to the stage that issued it and aborts
// the pipeline run.
//
// Example:
//
//	err := errors.NewGenerationError("completion request failed", errors.ErrGenerationFailed)
//	err = err.WithStage("FeatureAnalysis").WithModel("llama-3.3-70b-versatile")
type GenerationError struct {
	baseError
	Stage      string
	Model      string
	StatusCode int
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(message string, cause error) *GenerationError {
	return &GenerationError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithStage adds the pipeline stage name to the error context.
func (e *GenerationError) WithStage(stage string) *GenerationError {
	e.Stage = stage
	return e
}

// WithModel adds the model name to the error context.
func (e *GenerationError) WithModel(model string) *GenerationError {
	e.Model = model
	return e
}

// WithStatusCode adds the provider's HTTP status code to the error context.
func (e *GenerationError) WithStatusCode(code int) *GenerationError {
	e.StatusCode = code
	return e
}

// WithSeverity sets the error severity.
func (e *GenerationError) WithSeverity(s Severity) *GenerationError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *GenerationError) WithRetryable(r bool) *GenerationError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *GenerationError) Error() string {
	var parts []string
	if e.Stage != "" {
		parts = append(parts, fmt.Sprintf("stage=%s", e.Stage))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "generation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("generation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *GenerationError) Is(target error) bool {
	if _, ok := target.(*GenerationError); ok {
		return true
	}
	if errors.Is(target, ErrGenerationFailed) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("startup description cannot be empty")
//	err = err.WithField("description").WithValue("")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("waiting for completion", 60*time.Second)
//	fmt.Println(err) // "timeout error: waiting for completion (timeout: 1m0s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true, // Timeouts are generally retryable
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// WithRetryable sets whether the error is retryable (default true for timeouts).
func (e *TimeoutError) WithRetryable(r bool) *TimeoutError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsFatal returns true if the error must abort the pipeline run.
// Search unavailability is the only non-fatal failure: the requesting
// stage proceeds without evidence. Everything else (generation failures,
// validation failures, unknown errors) stops the run.
//
// Example:
//
//	if !errors.IsFatal(err) {
//	    log.Warn("continuing without search evidence", "err", err)
//	    return nil
//	}
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var searchErr *SearchError
	if As(err, &searchErr) {
		return false
	}
	if Is(err, ErrSearchUnavailable) {
		return false
	}

	return true
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. The pipeline itself never retries; this
// classification exists for callers and for log context.
//
// Example:
//
//	log.Warn("search degraded", "retryable", errors.IsRetryable(err))
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements RivalscanError
	var rsErr RivalscanError
	if As(err, &rsErr) {
		return rsErr.IsRetryable()
	}

	// Check for known retryable sentinel errors
	if Is(err, ErrTimeout) {
		return true
	}

	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
// This checks for:
//   - Errors implementing RivalscanError with IsUserFacing() returning true
//   - Semantic errors (ValidationError, TimeoutError)
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements RivalscanError
	var rsErr RivalscanError
	if As(err, &rsErr) {
		return rsErr.IsUserFacing()
	}

	// Semantic errors are always user-facing
	var validation *ValidationError
	var timeout *TimeoutError

	if As(err, &validation) || As(err, &timeout) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement RivalscanError.
//
// Example:
//
//	switch errors.GetSeverity(err) {
//	case errors.SeverityError:
//	    log.Error("error occurred", "err", err)
//	case errors.SeverityWarning:
//	    log.Warn("warning", "err", err)
//	}
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	// Check if error implements RivalscanError
	var rsErr RivalscanError
	if As(err, &rsErr) {
		return rsErr.Severity()
	}

	// Default to Error severity for unknown errors
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to render report")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to run stage %s", stage)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

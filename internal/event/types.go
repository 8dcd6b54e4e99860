// Package event defines event types for decoupling components in rivalscan.
// These events let the pipeline report run progress to the TUI, the plain
// text printer, and the logger without direct dependencies on any of them.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "run.started", "stage.completed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Run Lifecycle Events
// -----------------------------------------------------------------------------

// RunStartedEvent is emitted once when an analysis run begins.
type RunStartedEvent struct {
	baseEvent
	RunID       string   // Unique identifier for the run
	Description string   // The startup description being analyzed
	Stages      []string // Stage names in execution order
}

// NewRunStartedEvent creates a RunStartedEvent.
func NewRunStartedEvent(runID, description string, stages []string) RunStartedEvent {
	return RunStartedEvent{
		baseEvent:   newBaseEvent("run.started"),
		RunID:       runID,
		Description: description,
		Stages:      stages,
	}
}

// RunCompletedEvent is emitted when every stage of a run has finished.
type RunCompletedEvent struct {
	baseEvent
	RunID    string        // Run that completed
	Stages   int           // Number of stages executed
	Degraded bool          // Whether any stage ran without search evidence
	Duration time.Duration // Total wall-clock time for the run
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(runID string, stages int, degraded bool, duration time.Duration) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent: newBaseEvent("run.completed"),
		RunID:     runID,
		Stages:    stages,
		Degraded:  degraded,
		Duration:  duration,
	}
}

// RunFailedEvent is emitted when a stage fails and aborts the run.
type RunFailedEvent struct {
	baseEvent
	RunID           string   // Run that failed
	FailedStage     string   // Name of the stage whose failure aborted the run
	Error           string   // Error message
	CompletedStages []string // Stages that finished before the failure
}

// NewRunFailedEvent creates a RunFailedEvent.
func NewRunFailedEvent(runID, failedStage, errMsg string, completedStages []string) RunFailedEvent {
	return RunFailedEvent{
		baseEvent:       newBaseEvent("run.failed"),
		RunID:           runID,
		FailedStage:     failedStage,
		Error:           errMsg,
		CompletedStages: completedStages,
	}
}

// -----------------------------------------------------------------------------
// Stage Events
// -----------------------------------------------------------------------------

// StageStartedEvent is emitted when a pipeline stage begins execution.
type StageStartedEvent struct {
	baseEvent
	RunID      string // Run this stage belongs to
	Stage      string // Stage name (e.g., "MarketResearch")
	Index      int    // Zero-based position in the pipeline
	Total      int    // Total number of stages in the pipeline
	UsesSearch bool   // Whether this stage gathers web evidence first
}

// NewStageStartedEvent creates a StageStartedEvent.
func NewStageStartedEvent(runID, stage string, index, total int, usesSearch bool) StageStartedEvent {
	return StageStartedEvent{
		baseEvent:  newBaseEvent("stage.started"),
		RunID:      runID,
		Stage:      stage,
		Index:      index,
		Total:      total,
		UsesSearch: usesSearch,
	}
}

// StageCompletedEvent is emitted when a pipeline stage finishes successfully.
type StageCompletedEvent struct {
	baseEvent
	RunID       string        // Run this stage belongs to
	Stage       string        // Stage name
	Index       int           // Zero-based position in the pipeline
	Total       int           // Total number of stages in the pipeline
	OutputChars int           // Length of the stage output in runes
	ResultCount int           // Search results folded into the prompt
	Degraded    bool          // Whether the stage ran without search evidence
	Duration    time.Duration // Wall-clock time for the stage
}

// NewStageCompletedEvent creates a StageCompletedEvent.
func NewStageCompletedEvent(runID, stage string, index, total, outputChars, resultCount int, degraded bool, duration time.Duration) StageCompletedEvent {
	return StageCompletedEvent{
		baseEvent:   newBaseEvent("stage.completed"),
		RunID:       runID,
		Stage:       stage,
		Index:       index,
		Total:       total,
		OutputChars: outputChars,
		ResultCount: resultCount,
		Degraded:    degraded,
		Duration:    duration,
	}
}

// -----------------------------------------------------------------------------
// Search Events
// -----------------------------------------------------------------------------

// SearchDegradedEvent is emitted when the search provider fails and a stage
// proceeds on accumulated context alone. The run itself continues.
type SearchDegradedEvent struct {
	baseEvent
	RunID  string // Run the degradation occurred in
	Stage  string // Stage that requested the search
	Query  string // Query that failed
	Reason string // Provider error message
}

// NewSearchDegradedEvent creates a SearchDegradedEvent.
func NewSearchDegradedEvent(runID, stage, query, reason string) SearchDegradedEvent {
	return SearchDegradedEvent{
		baseEvent: newBaseEvent("search.degraded"),
		RunID:     runID,
		Stage:     stage,
		Query:     query,
		Reason:    reason,
	}
}

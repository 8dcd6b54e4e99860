package pipeline

import (
	"time"

	"github.com/rivalscan/rivalscan/internal/event"
	"github.com/rivalscan/rivalscan/internal/llm"
	"github.com/rivalscan/rivalscan/internal/logging"
	"github.com/rivalscan/rivalscan/internal/search"
)

// Stage identifies one step of the analysis pipeline.
type Stage string

const (
	// StageMarketResearch finds competitors for the startup idea. It is the
	// only stage that consults the search provider.
	StageMarketResearch Stage = "MarketResearch"

	// StageFeatureAnalysis compares the features of the competitors found
	// by market research.
	StageFeatureAnalysis Stage = "FeatureAnalysis"

	// StageDifferentiation suggests how the startup can position itself
	// against the competitors.
	StageDifferentiation Stage = "Differentiation"

	// StageGTM proposes a go-to-market strategy built on competitor
	// weaknesses.
	StageGTM Stage = "GTM"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// StageOutput is the text one stage produced. Each stage produces exactly
// one output per run, and outputs are never rewritten by later stages.
type StageOutput struct {
	Stage Stage  // Stage that produced the text
	Text  string // The model's reply, trimmed
}

// Context accumulates everything a stage may draw on: the startup
// description plus the outputs of every stage that already ran. It grows
// monotonically over a single run and is discarded afterwards.
type Context struct {
	RunID       string
	Description string

	outputs []StageOutput
}

// NewContext creates a Context for one run.
func NewContext(runID, description string) *Context {
	return &Context{
		RunID:       runID,
		Description: description,
	}
}

// Append records a completed stage output.
func (c *Context) Append(out StageOutput) {
	c.outputs = append(c.outputs, out)
}

// Outputs returns a copy of the completed stage outputs in run order.
func (c *Context) Outputs() []StageOutput {
	outs := make([]StageOutput, len(c.outputs))
	copy(outs, c.outputs)
	return outs
}

// Output returns the output of the given stage, if that stage has run.
func (c *Context) Output(stage Stage) (StageOutput, bool) {
	for _, out := range c.outputs {
		if out.Stage == stage {
			return out, true
		}
	}
	return StageOutput{}, false
}

// Report is the assembled result of a run. For a failed run it holds the
// outputs of the stages that finished before the failure, with FailedStage
// naming the stage that did not.
type Report struct {
	RunID       string        // Short hex run identifier
	Description string        // The startup description the run analyzed
	Model       string        // Model that generated the analysis, if known
	StartedAt   time.Time     // When the run began
	FinishedAt  time.Time     // When the run finished or failed
	Outputs     []StageOutput // Completed stage outputs in run order
	Degraded    bool          // True when search evidence was unavailable
	FailedStage Stage         // Empty for a complete report
}

// Complete reports whether every stage produced an output.
func (r *Report) Complete() bool {
	return r.FailedStage == ""
}

// PipelineConfig holds required dependencies for creating a Pipeline.
type PipelineConfig struct {
	LLM    llm.Client      // Generates each stage's text
	Search search.Provider // Optional; nil degrades the research stage
	Bus    *event.Bus      // Receives run and stage progress events
}

// pipelineConfig holds optional settings for the Pipeline.
type pipelineConfig struct {
	logger         *logging.Logger
	modelName      string
	maxResults     int
	maxTokens      int
	maxPromptChars int
}

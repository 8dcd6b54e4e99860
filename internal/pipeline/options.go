package pipeline

import "github.com/rivalscan/rivalscan/internal/logging"

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineConfig)

// WithLogger sets the logger for pipeline progress and degradation
// warnings. Defaults to a no-op logger.
func WithLogger(l *logging.Logger) PipelineOption {
	return func(c *pipelineConfig) {
		c.logger = l
	}
}

// WithModelName records the model name on the assembled report. It is
// display metadata only; the LLM client decides what model actually runs.
func WithModelName(name string) PipelineOption {
	return func(c *pipelineConfig) {
		c.modelName = name
	}
}

// WithMaxResults sets how many search results the research stage requests.
// Zero or negative defers to the search client's default.
func WithMaxResults(n int) PipelineOption {
	return func(c *pipelineConfig) {
		c.maxResults = n
	}
}

// WithMaxTokens caps the completion length requested per stage. Zero or
// negative defers to the LLM client's default.
func WithMaxTokens(n int) PipelineOption {
	return func(c *pipelineConfig) {
		c.maxTokens = n
	}
}

// WithMaxPromptChars sets the rune budget for rendered prompts. Prior
// stage outputs are trimmed oldest first to fit. Zero or negative disables
// the budget.
func WithMaxPromptChars(n int) PipelineOption {
	return func(c *pipelineConfig) {
		c.maxPromptChars = n
	}
}

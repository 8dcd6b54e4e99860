// Package llm provides text completion backed by Groq's OpenAI-compatible
// chat completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rivalscan/rivalscan/internal/errors"
)

const (
	// groqAPIURL is the Groq chat completions endpoint.
	groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama-3.3-70b-versatile"

	// defaultTemperature is the sampling temperature used when none is set.
	defaultTemperature = 0.7

	// defaultMaxTokens caps the completion length when the caller passes
	// no explicit limit.
	defaultMaxTokens = 1024

	// defaultTimeout is the completion request timeout. Long-form analysis
	// stages routinely take tens of seconds on busy models.
	defaultTimeout = 60 * time.Second
)

// Client defines the interface for text completion.
type Client interface {
	// Complete sends a prompt and returns the model's reply text.
	// Failures match errors.ErrGenerationFailed and abort the run.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GroqClient implements Client using the Groq API.
type GroqClient struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

// ClientOption configures a GroqClient.
type ClientOption func(*GroqClient)

// WithModel sets the model used for completions.
func WithModel(model string) ClientOption {
	return func(c *GroqClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ClientOption {
	return func(c *GroqClient) {
		c.temperature = temperature
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *GroqClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *GroqClient) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GroqClient) {
		c.baseURL = baseURL
	}
}

// NewGroqClient creates a client for the Groq chat completions API.
// The API key comes from configuration; the client never reads the
// environment itself.
func NewGroqClient(apiKey string, opts ...ClientOption) (*GroqClient, error) {
	if apiKey == "" {
		return nil, errors.NewValidationError("model API key is required").
			WithField("model.api_key")
	}

	c := &GroqClient{
		apiKey:      apiKey,
		model:       DefaultModel,
		temperature: defaultTemperature,
		baseURL:     groqAPIURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Model returns the model identifier this client sends with each request.
func (c *GroqClient) Model() string {
	return c.model
}

// chatRequest is the OpenAI-compatible chat completions request structure.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the OpenAI-compatible chat completions response structure.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Complete sends a single-message prompt and returns the first choice's
// content with surrounding whitespace trimmed.
func (c *GroqClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.NewValidationError("prompt must not be empty").
			WithField("prompt").
			WithCause(errors.ErrEmptyPrompt)
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.NewGenerationError("marshal request", err).WithModel(c.model)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBytes))
	if err != nil {
		return "", errors.NewGenerationError("create request", err).WithModel(c.model)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return "", errors.Wrap(errors.ErrCanceled, "completion request canceled")
		}
		cause := err
		if isTimeout(err) {
			cause = errors.NewTimeoutError("completion request", c.httpClient.Timeout).WithCause(err)
		}
		return "", errors.NewGenerationError("completion request failed", cause).WithModel(c.model)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewGenerationError("read response", err).WithModel(c.model)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API error (status %d)", resp.StatusCode)
		var respData chatResponse
		if jsonErr := json.Unmarshal(body, &respData); jsonErr == nil && respData.Error != nil {
			msg = fmt.Sprintf("API error (status %d): %s", resp.StatusCode, respData.Error.Message)
		}
		return "", errors.NewGenerationError(msg, nil).
			WithModel(c.model).
			WithStatusCode(resp.StatusCode)
	}

	var respData chatResponse
	if err := json.Unmarshal(body, &respData); err != nil {
		return "", errors.NewGenerationError("unmarshal response", err).WithModel(c.model)
	}

	if respData.Error != nil {
		return "", errors.NewGenerationError("API error: "+respData.Error.Message, nil).
			WithModel(c.model)
	}

	if len(respData.Choices) == 0 {
		return "", errors.NewGenerationError("response contained no choices", errors.ErrEmptyCompletion).
			WithModel(c.model)
	}

	content := strings.TrimSpace(respData.Choices[0].Message.Content)
	if content == "" {
		return "", errors.NewGenerationError("response contained no text", errors.ErrEmptyCompletion).
			WithModel(c.model)
	}

	return content, nil
}

// isTimeout reports whether err represents a request timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

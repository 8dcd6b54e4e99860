// Package search provides web search for competitor discovery.
//
// The only production implementation talks to the Google Custom Search
// JSON API, but the Provider interface keeps the pipeline testable with
// canned results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rivalscan/rivalscan/internal/errors"
)

const (
	// googleSearchURL is the Custom Search JSON API endpoint.
	googleSearchURL = "https://www.googleapis.com/customsearch/v1"

	// defaultMaxResults is the number of results requested when the caller
	// does not specify one.
	defaultMaxResults = 5

	// apiMaxResults is the hard cap the Custom Search API imposes on the
	// num parameter. Larger requests are rejected with a 400.
	apiMaxResults = 10

	// defaultTimeout is the search request timeout.
	defaultTimeout = 15 * time.Second
)

// Result is a single web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider defines the interface for web search.
type Provider interface {
	// Search runs a query and returns up to maxResults hits. A provider
	// outage surfaces as an error matching errors.ErrSearchUnavailable;
	// a query that matches nothing returns an empty slice and nil error.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// GoogleClient implements Provider using the Google Custom Search JSON API.
type GoogleClient struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a GoogleClient.
type ClientOption func(*GoogleClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *GoogleClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *GoogleClient) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GoogleClient) {
		c.baseURL = baseURL
	}
}

// NewGoogleClient creates a client for the Custom Search JSON API.
// The API key and engine ID come from configuration; the client never
// reads the environment itself.
func NewGoogleClient(apiKey, engineID string, opts ...ClientOption) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, errors.NewValidationError("search API key is required").
			WithField("search.api_key")
	}
	if engineID == "" {
		return nil, errors.NewValidationError("search engine ID is required").
			WithField("search.engine_id")
	}

	c := &GoogleClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  googleSearchURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// searchResponse is the Custom Search JSON API response structure.
type searchResponse struct {
	Items []searchItem `json:"items"`
	Error *apiError    `json:"error,omitempty"`
}

type searchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Search runs a query against the Custom Search API.
//
// maxResults is clamped to the API's accepted range; zero or negative
// values fall back to the default. An empty result set is returned as a
// nil error with an empty slice.
func (c *GoogleClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewValidationError("search query must not be empty").
			WithField("query").
			WithCause(errors.ErrEmptyQuery)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > apiMaxResults {
		maxResults = apiMaxResults
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.NewSearchError("create request", err).WithQuery(query)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A canceled run aborts; everything else degrades.
		if ctx.Err() == context.Canceled {
			return nil, errors.Wrap(errors.ErrCanceled, "search request canceled")
		}
		cause := err
		if isTimeout(err) {
			cause = errors.NewTimeoutError("search request", c.httpClient.Timeout).WithCause(err)
		}
		return nil, errors.NewSearchError("search request failed", cause).WithQuery(query)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewSearchError("read response", err).WithQuery(query)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API error (status %d)", resp.StatusCode)
		var respData searchResponse
		if jsonErr := json.Unmarshal(body, &respData); jsonErr == nil && respData.Error != nil {
			msg = fmt.Sprintf("API error (status %d): %s", resp.StatusCode, respData.Error.Message)
		}
		return nil, errors.NewSearchError(msg, nil).
			WithQuery(query).
			WithStatusCode(resp.StatusCode)
	}

	var respData searchResponse
	if err := json.Unmarshal(body, &respData); err != nil {
		return nil, errors.NewSearchError("unmarshal response", err).WithQuery(query)
	}

	if respData.Error != nil {
		return nil, errors.NewSearchError("API error: "+respData.Error.Message, nil).
			WithQuery(query).
			WithStatusCode(respData.Error.Code)
	}

	// No items means the query matched nothing, which is still a
	// successful search.
	results := make([]Result, 0, len(respData.Items))
	for _, item := range respData.Items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// isTimeout reports whether err represents a request timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

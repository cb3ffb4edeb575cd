// Package websearch provides the web-search collaborator. It queries a
// SearchAPI-compatible endpoint and returns organic results as typed
// records decoded at the boundary.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// defaultResultCount is the number of organic results requested per query.
const defaultResultCount = 10

// ErrInvalidConfig indicates invalid configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Result is one organic web-search result.
type Result struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}

// searchResponse is the wire shape of the search API response. Only the
// organic results are consumed.
type searchResponse struct {
	OrganicResults []Result `json:"organic_results"`
}

// Config holds configuration for the web-search client.
type Config struct {
	// APIKey authenticates against the search API.
	APIKey string

	// Endpoint is the search API URL.
	Endpoint string

	// Timeout bounds each search request. Zero uses a 30s default.
	Timeout time.Duration
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint required", ErrInvalidConfig)
	}
	return nil
}

// Client queries the web-search API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *zap.Logger
}

// NewClient creates a web-search client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		logger:     logger.Named("websearch"),
	}, nil
}

// Search returns organic results for the query in API order. It fails soft:
// any provider failure is logged and an empty list is returned, letting the
// aggregator report "no comparable match found". Ordering carries no
// semantic meaning downstream.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en")
	params.Set("gl", "us")
	params.Set("num", fmt.Sprintf("%d", defaultResultCount))
	params.Set("api_key", c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation propagates; everything else fails soft.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("web search request failed, returning no results", zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("web search returned non-success status, returning no results",
			zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Warn("web search response malformed, returning no results", zap.Error(err))
		return nil, nil
	}

	return decoded.OrganicResults, nil
}

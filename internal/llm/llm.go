// Package llm provides the text-generation collaborator used for
// summarization, keyword extraction and comparison explanations.
//
// The OpenAI-backed client is built on langchaingo, so any
// OpenAI-compatible endpoint works via BaseURL. Calls are rate limited
// process-wide to stay inside provider quotas.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

var (
	// ErrEmptyPrompt indicates an empty prompt.
	ErrEmptyPrompt = errors.New("empty prompt")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Completer is the text-generation collaborator contract: one prompt in,
// one completion out. Implementations may fail transiently; callers decide
// whether that is fatal or skippable.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the OpenAI client.
type Config struct {
	// APIKey is the OpenAI API key.
	APIKey string

	// Model is the chat model to use, e.g. gpt-4.
	Model string

	// BaseURL overrides the API endpoint. Empty uses the OpenAI default.
	BaseURL string

	// RequestsPerSecond caps the outbound request rate. Zero disables
	// rate limiting.
	RequestsPerSecond float64

	// RequestTimeout bounds each completion call. Zero leaves calls
	// bounded only by the caller's context.
	RequestTimeout time.Duration
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// Client is a Completer backed by an OpenAI-compatible chat API.
type Client struct {
	llm     *openai.LLM
	limiter *rate.Limiter
	config  Config
}

// NewClient creates a new OpenAI-backed client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		llm:     model,
		limiter: limiter,
		config:  cfg,
	}, nil
}

// Complete sends the prompt to the model and returns the trimmed completion.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(callCtx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	return strings.TrimSpace(completion), nil
}

// callContext bounds one provider call with the configured request timeout.
// The limiter wait is excluded so queueing does not eat into the budget.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.config.RequestTimeout)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type completionClient interface {
	CreateCompletion(ctx context.Context, request openai.CompletionRequest) (openai.CompletionResponse, error)
}

// OpenAICompleter calls the legacy text completion endpoint.
type OpenAICompleter struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  completionClient
	logger  *slog.Logger
}

func NewOpenAICompleter(apiKey, model string, timeout time.Duration, logger *slog.Logger) *OpenAICompleter {
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAICompleter{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  openai.NewClient(apiKey),
		logger:  logger,
	}
}

// WithBaseURL points the client at another API root, e.g. an httptest server + "/v1".
func (c *OpenAICompleter) WithBaseURL(baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = baseURL
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *OpenAICompleter) Complete(ctx context.Context, message string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}
	return c.send(ctx, openai.CompletionRequest{
		Model:            c.model,
		Prompt:           BuildCollegePrompt(message),
		MaxTokens:        completionMaxTokens,
		Temperature:      completionTemperature,
		TopP:             completionTopP,
		FrequencyPenalty: completionFrequencyPenalty,
		PresencePenalty:  completionPresencePenalty,
	})
}

// Ping sends a tiny prompt to verify credentials and connectivity.
func (c *OpenAICompleter) Ping(ctx context.Context) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}
	return c.send(ctx, openai.CompletionRequest{
		Model:       c.model,
		Prompt:      "Test response",
		MaxTokens:   10,
		Temperature: completionTemperature,
		TopP:        completionTopP,
	})
}

func (c *OpenAICompleter) send(ctx context.Context, req openai.CompletionRequest) (string, error) {
	ctx, cancel := withCallTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", upstreamError("openai request timed out after %s", c.timeout)
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Debug("openai api error", "status", apiErr.HTTPStatusCode, "type", apiErr.Type)
		}
		return "", upstreamError("openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", upstreamError("openai: empty choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

func (c *OpenAICompleter) String() string {
	return fmt.Sprintf("openai:%s", c.model)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiCompleter answers through Google's Gemini API.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*GeminiCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrUnavailable
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model, timeout: timeout, logger: logger}, nil
}

func (c *GeminiCompleter) Close() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return err
	}
	c.logger.Debug("GenAI client closed", "model", c.model)
	return nil
}

// Complete sends the college prompt. Gemini has no frequency or presence
// penalty knobs here; temperature, top-p and output length are applied.
func (c *GeminiCompleter) Complete(ctx context.Context, message string) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}
	return c.generate(ctx, BuildCollegePrompt(message), completionMaxTokens)
}

// Ping sends a tiny prompt to verify credentials and connectivity.
func (c *GeminiCompleter) Ping(ctx context.Context) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}
	return c.generate(ctx, "Test response", 10)
}

func (c *GeminiCompleter) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	ctx, cancel := withCallTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(completionTemperature)
	model.SetTopP(completionTopP)
	model.SetMaxOutputTokens(maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", upstreamError("gemini request timed out after %s", c.timeout)
		}
		return "", upstreamError("gemini request failed: %v", err)
	}
	return geminiText(resp)
}

// geminiText joins the text parts of the first candidate. Non-text parts are skipped.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", upstreamError("gemini returned no candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", upstreamError("gemini candidate has no content")
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(text.String()), nil
}

func (c *GeminiCompleter) String() string {
	return fmt.Sprintf("gemini:%s", c.model)
}

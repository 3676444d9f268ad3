package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bbc.edu.in/college-chatbot/internal/config"
)

var (
	// ErrUnavailable means no completion credential is configured.
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrUpstream wraps every transport, API and timeout failure of a completion call.
	ErrUpstream = errors.New("completion service error")
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "gpt-3.5-turbo-instruct"
	defaultGeminiModel = "gemini-1.5-flash-latest"
)

// Sampling parameters shared by every backend.
const (
	completionTemperature      = 0.7
	completionTopP             = 1.0
	completionFrequencyPenalty = 0.5
	completionPresencePenalty  = 0.5
	completionMaxTokens        = 250
)

// Completer produces a free-text answer for one user message.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

const collegePromptTemplate = `You are a helpful college enquiry chatbot for BBC College (https://bbc.edu.in/).
Provide accurate, helpful information about BBC College.

Important information about BBC College:
- Offers programs like BBA, BCA, MBA and other UG/PG courses
- Located in India
- Has facilities like library, labs, hostel, sports facilities
- Has a placement cell for career opportunities
- Focuses on quality education and holistic development

If you don't know something specific about BBC College, politely say so and suggest
contacting the college directly or visiting their website https://bbc.edu.in/

User question: %s

Helpful response as BBC College chatbot:`

// BuildCollegePrompt embeds the user's message in the fixed institution prompt.
func BuildCollegePrompt(message string) string {
	return fmt.Sprintf(collegePromptTemplate, message)
}

// upstreamError tags err with ErrUpstream while keeping its message.
func upstreamError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}

// NewCompleter builds the backend selected by cfg. It returns ErrUnavailable
// when no credential for the chosen provider is set.
func NewCompleter(ctx context.Context, cfg config.Config, logger *slog.Logger) (Completer, error) {
	provider := cfg.CompletionProvider
	if provider == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			provider = ProviderOpenAI
		case cfg.GeminiAPIKey != "":
			provider = ProviderGemini
		default:
			return nil, ErrUnavailable
		}
	}

	switch provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, ErrUnavailable
		}
		return NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.CompletionModel, cfg.CompletionTimeout, logger), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, ErrUnavailable
		}
		gc, err := NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.CompletionModel, cfg.CompletionTimeout, logger)
		if err != nil {
			return nil, err
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q: supported providers are openai, gemini", provider)
	}
}

func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

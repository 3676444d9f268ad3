package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbc.edu.in/college-chatbot/internal/config"
)

func TestNewCompleterWithoutKeysIsUnavailable(t *testing.T) {
	c, err := NewCompleter(context.Background(), config.Config{}, nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewCompleterPrefersOpenAI(t *testing.T) {
	c, err := NewCompleter(context.Background(), config.Config{
		OpenAIAPIKey:      "sk",
		GeminiAPIKey:      "gm",
		CompletionTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	oc, ok := c.(*OpenAICompleter)
	require.True(t, ok)
	assert.Equal(t, "openai:"+defaultOpenAIModel, oc.String())
}

func TestNewCompleterExplicitProviderNeedsItsKey(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.Config{
		CompletionProvider: ProviderGemini,
		OpenAIAPIKey:       "sk",
	}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.Config{CompletionProvider: "llama", OpenAIAPIKey: "sk"}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestNewGeminiCompleterWithoutKey(t *testing.T) {
	_, err := NewGeminiCompleter(context.Background(), "  ", "", time.Second, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBuildCollegePrompt(t *testing.T) {
	prompt := BuildCollegePrompt("Do you have a hostel?")
	assert.True(t, strings.HasPrefix(prompt, "You are a helpful college enquiry chatbot for BBC College"))
	assert.Contains(t, prompt, "User question: Do you have a hostel?")
	assert.True(t, strings.HasSuffix(prompt, "Helpful response as BBC College chatbot:"))
}

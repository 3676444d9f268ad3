package core

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("  The library is open "),
				genai.Blob{MIMEType: "image/png", Data: []byte{0x89}},
				genai.Text("until 8 PM.\n"),
			}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("second candidate")}}},
		},
	}

	text, err := geminiText(resp)
	require.NoError(t, err)
	assert.Equal(t, "The library is open until 8 PM.", text)
}

func TestGeminiTextNonTextPartsOnly(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}},
		},
	}

	text, err := geminiText(resp)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGeminiTextMissingContent(t *testing.T) {
	tests := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"no parts":      {Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
	}
	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := geminiText(resp)
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "DATABASE_URL", "LOG_LEVEL", "JWT_SECRET", "TOKEN_TTL",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "COMPLETION_PROVIDER", "COMPLETION_MODEL",
		"COMPLETION_TIMEOUT", "ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "college_chatbot.db", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 20*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin@bbc.edu.in", cfg.AdminEmail)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.False(t, cfg.CompletionConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "/tmp/chat.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("COMPLETION_PROVIDER", "OpenAI")
	t.Setenv("COMPLETION_TIMEOUT", "5s")

	cfg := Load()
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "/tmp/chat.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "openai", cfg.CompletionProvider)
	assert.Equal(t, 5*time.Second, cfg.CompletionTimeout)
	assert.True(t, cfg.CompletionConfigured())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("COMPLETION_TIMEOUT", "soon")
	t.Setenv("TOKEN_TTL", "-1h")

	cfg := Load()
	assert.Equal(t, 20*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "bbc-college-secret-key-2023"

type Config struct {
	HTTPPort    string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	TokenTTL  time.Duration

	OpenAIAPIKey       string
	GeminiAPIKey       string
	CompletionProvider string
	CompletionModel    string
	CompletionTimeout  time.Duration

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "college_chatbot.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		OpenAIAPIKey:       strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		GeminiAPIKey:       strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
		CompletionProvider: strings.ToLower(strings.TrimSpace(getEnv("COMPLETION_PROVIDER", ""))),
		CompletionModel:    getEnv("COMPLETION_MODEL", ""),
		CompletionTimeout:  getEnvAsDuration("COMPLETION_TIMEOUT", 20*time.Second),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@bbc.edu.in"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using the built-in development secret")
		cfg.JWTSecret = defaultJWTSecret
	}
	return cfg
}

// CompletionConfigured reports whether any completion credential is present.
func (c Config) CompletionConfigured() bool {
	return c.OpenAIAPIKey != "" || c.GeminiAPIKey != ""
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

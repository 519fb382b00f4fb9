package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/PabloGalante/sequential-thinking/internal/observability"
)

type Provider string

const (
	ProviderMock      Provider = "mock"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderVertex    Provider = "vertex"
)

type Config struct {
	Port string

	LLMProvider Provider
	ModelName   string // empty = adapter default

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	GCPProjectID    string
	GCPLocation     string

	CollaboratorTimeout time.Duration

	LogLevel  slog.Level
	LogFormat string // "json" or "text"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads all env vars and builds the config
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("THINKING_PORT", "8000"),

		LLMProvider: Provider(getEnv("THINKING_LLM_PROVIDER", string(ProviderOpenAI))),
		ModelName:   getEnv("THINKING_MODEL_NAME", ""),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    getEnv("THINKING_GEMINI_API_KEY", ""),
		GCPProjectID:    getEnv("THINKING_GCP_PROJECT", ""),
		GCPLocation:     getEnv("THINKING_GCP_LOCATION", "us-central1"),

		LogFormat: getEnv("THINKING_LOG_FORMAT", "json"),
	}

	timeout, err := time.ParseDuration(getEnv("THINKING_COLLABORATOR_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("THINKING_COLLABORATOR_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("THINKING_COLLABORATOR_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.CollaboratorTimeout = timeout

	level, err := observability.ParseLevel(getEnv("THINKING_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("THINKING_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	switch cfg.LLMProvider {
	case ProviderMock, ProviderOpenAI, ProviderAnthropic:
	case ProviderVertex:
		if cfg.GCPProjectID == "" && cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("vertex provider needs THINKING_GCP_PROJECT or THINKING_GEMINI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown THINKING_LLM_PROVIDER %q", cfg.LLMProvider)
	}

	return cfg, nil
}

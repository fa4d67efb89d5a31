package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig

	// CallTimeout is the deadline applied to every single provider call.
	// Default: 60s.
	CallTimeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CallTimeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Provider-standard key names are honored
// alongside the WIKIQUIZ_-prefixed ones.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.OpenAI.APIKey = firstEnv("WIKIQUIZ_OPENAI_API_KEY", "OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = os.Getenv("WIKIQUIZ_OPENAI_BASE_URL")
	cfg.Gemini.APIKey = firstEnv("WIKIQUIZ_GEMINI_API_KEY", "GEMINI_API_KEY")
	cfg.Anthropic.APIKey = firstEnv("WIKIQUIZ_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	if d := os.Getenv("WIKIQUIZ_LLM_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil && parsed > 0 {
			cfg.CallTimeout = parsed
		}
	}

	return cfg
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// ValidateFor checks that the provider family serving modelID has its
// API key configured.
func (c Config) ValidateFor(modelID string) error {
	entry, ok := modelTable[modelID]
	if !ok {
		return &ErrUnknownModel{Model: modelID}
	}
	switch entry.family {
	case familyOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("WIKIQUIZ_OPENAI_API_KEY is required for model %q", modelID)
		}
	case familyGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("WIKIQUIZ_GEMINI_API_KEY is required for model %q", modelID)
		}
	case familyAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("WIKIQUIZ_ANTHROPIC_API_KEY is required for model %q", modelID)
		}
	}
	return nil
}

package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Retry     RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig also serves OpenRouter, which speaks the same protocol.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Gemini is the
// default because the tutor prompts were tuned against it.
func DefaultConfig() Config {
	return Config{
		Provider:  "gemini",
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from STUDYMATE_* provider variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	envs := []struct {
		key string
		dst *string
	}{
		{"STUDYMATE_LLM_PROVIDER", &cfg.Provider},
		{"STUDYMATE_GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"STUDYMATE_GEMINI_MODEL", &cfg.Gemini.Model},
		{"STUDYMATE_OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"STUDYMATE_OPENAI_MODEL", &cfg.OpenAI.Model},
		{"STUDYMATE_OPENAI_BASE_URL", &cfg.OpenAI.BaseURL},
		{"STUDYMATE_ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"STUDYMATE_ANTHROPIC_MODEL", &cfg.Anthropic.Model},
	}
	for _, e := range envs {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}

	// Fall back to the vendors' own key variables.
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Provider == "openrouter" {
		cfg.applyOpenRouter(os.Getenv("OPENROUTER_API_KEY"))
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the first
// provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.applyOpenRouter(k)
		return cfg, true
	}

	return Config{}, false
}

func (c *Config) applyOpenRouter(key string) {
	if key != "" {
		c.OpenAI.APIKey = key
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = openRouterBaseURL
	}
	if c.OpenAI.Model == "" || c.OpenAI.Model == DefaultConfig().OpenAI.Model {
		c.OpenAI.Model = "google/gemini-2.5-flash"
	}
}

// Override sets model, key and base URL on the selected provider. Empty
// values leave the current setting alone.
func (c *Config) Override(model, apiKey, baseURL string) {
	var m, k, u *string
	switch c.Provider {
	case "gemini":
		m, k, u = &c.Gemini.Model, &c.Gemini.APIKey, &c.Gemini.BaseURL
	case "openai", "openrouter":
		m, k, u = &c.OpenAI.Model, &c.OpenAI.APIKey, &c.OpenAI.BaseURL
	case "anthropic":
		m, k, u = &c.Anthropic.Model, &c.Anthropic.APIKey, &c.Anthropic.BaseURL
	default:
		return
	}
	setIf(m, model)
	setIf(k, apiKey)
	setIf(u, baseURL)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "gemini":
		key = c.Gemini.APIKey
	case "openai", "openrouter":
		key = c.OpenAI.APIKey
	case "anthropic":
		key = c.Anthropic.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	return nil
}

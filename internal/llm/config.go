package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration. Field tags are read by
// the application config loader (YAML keys and env overrides).
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider" env:"KOTOBA_LLM_PROVIDER" env-default:"openai"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single generation call. Zero disables it.
	Timeout time.Duration `yaml:"timeout" env:"KOTOBA_LLM_TIMEOUT" env-default:"120s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"KOTOBA_ANTHROPIC_API_KEY"`
	Model  string `yaml:"model" env:"KOTOBA_ANTHROPIC_MODEL" env-default:"claude-haiku"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"KOTOBA_OPENAI_API_KEY"`
	Model   string `yaml:"model" env:"KOTOBA_OPENAI_MODEL" env-default:"gpt-5-nano"`
	BaseURL string `yaml:"base_url" env:"KOTOBA_OPENAI_BASE_URL"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"KOTOBA_GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"KOTOBA_GEMINI_MODEL" env-default:"gemini-flash"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key" env:"KOTOBA_OPENROUTER_API_KEY"`
	Model   string `yaml:"model" env:"KOTOBA_OPENROUTER_MODEL" env-default:"google/gemini-2.0-flash-exp"`
	BaseURL string `yaml:"base_url" env:"KOTOBA_OPENROUTER_BASE_URL"`
}

// RetryConfig configures retry behavior for transient failures.
// The curation passes never retry a batch themselves; one attempt is the
// default so a failed batch is simply left for the next run.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"KOTOBA_LLM_RETRY_ATTEMPTS" env-default:"1"`
	InitialWait time.Duration `yaml:"initial_wait" env:"KOTOBA_LLM_RETRY_INITIAL_WAIT" env-default:"1s"`
	MaxWait     time.Duration `yaml:"max_wait" env:"KOTOBA_LLM_RETRY_MAX_WAIT" env-default:"10s"`
	Multiplier  float64       `yaml:"multiplier" env:"KOTOBA_LLM_RETRY_MULTIPLIER" env-default:"2"`
}

// DefaultConfig returns a Config with the same defaults as the env-default
// tags, for callers that do not go through the config loader.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-5-nano",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 120 * time.Second,
	}
}

// Discover fills in an API key from the standard vendor env vars when the
// selected provider has none configured. If the selected provider still has
// no key, the first provider whose standard key is set (OpenAI → Gemini →
// Anthropic → OpenRouter) is selected instead. Returns false when no key
// could be found.
func (c *Config) Discover() bool {
	if c.Provider == "mock" || c.hasKey() {
		return true
	}

	if k := os.Getenv(standardKeyEnv(c.Provider)); k != "" {
		c.setKey(c.Provider, k)
		return true
	}

	for _, p := range []string{"openai", "gemini", "anthropic", "openrouter"} {
		if k := os.Getenv(standardKeyEnv(p)); k != "" {
			c.Provider = p
			c.setKey(p, k)
			return true
		}
	}
	return false
}

func standardKeyEnv(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	}
	return ""
}

func (c *Config) hasKey() bool {
	switch c.Provider {
	case "openai":
		return c.OpenAI.APIKey != ""
	case "gemini":
		return c.Gemini.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	}
	return false
}

func (c *Config) setKey(provider, key string) {
	switch provider {
	case "openai":
		c.OpenAI.APIKey = key
	case "gemini":
		c.Gemini.APIKey = key
	case "anthropic":
		c.Anthropic.APIKey = key
	case "openrouter":
		c.OpenRouter.APIKey = key
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("KOTOBA_ANTHROPIC_API_KEY (or ANTHROPIC_API_KEY) is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("KOTOBA_OPENAI_API_KEY (or OPENAI_API_KEY) is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("KOTOBA_GEMINI_API_KEY (or GEMINI_API_KEY) is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("KOTOBA_OPENROUTER_API_KEY (or OPENROUTER_API_KEY) is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm retry max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

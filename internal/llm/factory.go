package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/store"
)

// NewProvider builds the configured provider and decorates it so a call
// passes retry, then logging, then the per-call timeout. Events are
// persisted to events when it is non-nil. The mock provider is returned
// bare.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *logger.Logger) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}

	base, err := newVendorProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := WithTimeout(base, cfg.Timeout)
	p = WithLogging(p, cfg.Provider, events, log)
	return WithRetry(p, cfg.Retry, log), nil
}

func newVendorProvider(ctx context.Context, cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}

package llm

import (
	"context"
	"fmt"

	"leedsbot-backend/internal/logger"
)

type Config struct {
	Provider  string // "openai" | "gemini" | "anthropic"
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig
}

// NewProvider builds the configured provider wrapped with logging. It
// returns a nil Provider and no error when the selected provider has no API
// key: model-backed features then run on their canned fallbacks.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (Provider, func(), error) {
	var (
		base  Provider
		close = func() {}
		err   error
	)

	switch cfg.Provider {
	case "", "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, close, nil
		}
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, close, nil
		}
		var g *GeminiProvider
		g, err = NewGeminiProvider(ctx, cfg.Gemini)
		if err == nil {
			base, close = g, g.Close
		}
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, close, nil
		}
		base, err = NewAnthropicProvider(cfg.Anthropic)
	default:
		return nil, close, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, close, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, log), close, nil
}

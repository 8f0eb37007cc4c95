package llm

import (
	"context"
	"fmt"
	"net/http"
)

// NewBaseProvider creates the unwrapped Provider selected by cfg.
func NewBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiProvider(cfg.Gemini, &http.Client{}), nil
	case ProviderGeminiSDK:
		p, err := NewGenAIProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
		}
		return p, nil
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.Anthropic), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI), nil
	case ProviderOpenRouter:
		return NewOpenRouterProvider(cfg.OpenRouter), nil
	case ProviderMock:
		return NewDemoProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// NewProvider creates a Provider from configuration, wrapped with retry and,
// when rec is non-nil, journal middleware.
func NewProvider(ctx context.Context, cfg Config, rec Recorder) (Provider, error) {
	base, err := NewBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// caller → retry → journal → base: every attempt is journaled.
	p := base
	if rec != nil {
		p = WithJournal(p, cfg.Provider, rec)
	}
	return WithRetry(p, cfg.Retry), nil
}

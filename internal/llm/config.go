package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all model provider configuration.
type Config struct {
	// Provider selects which provider to use.
	// Values: "gemini", "gemini-sdk", "anthropic", "openai", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single analysis request
	// (including retries). Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini configuration shared by the REST and SDK
// providers.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-001"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures caller-side retry of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Provider names.
const (
	ProviderGemini     = "gemini"
	ProviderGeminiSDK  = "gemini-sdk"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Providers lists the supported provider names.
var Providers = []string{
	ProviderGemini, ProviderGeminiSDK, ProviderAnthropic,
	ProviderOpenAI, ProviderOpenRouter, ProviderMock,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ApplyEnv overlays SCRIBE_* environment variables onto cfg.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("SCRIBE_LLM_PROVIDER"); p != "" {
		c.Provider = p
	}

	if k := os.Getenv("SCRIBE_ANTHROPIC_API_KEY"); k != "" {
		c.Anthropic.APIKey = k
	}
	if m := os.Getenv("SCRIBE_ANTHROPIC_MODEL"); m != "" {
		c.Anthropic.Model = m
	}

	if k := os.Getenv("SCRIBE_OPENAI_API_KEY"); k != "" {
		c.OpenAI.APIKey = k
	}
	if m := os.Getenv("SCRIBE_OPENAI_MODEL"); m != "" {
		c.OpenAI.Model = m
	}
	if u := os.Getenv("SCRIBE_OPENAI_BASE_URL"); u != "" {
		c.OpenAI.BaseURL = u
	}

	if k := os.Getenv("SCRIBE_GEMINI_API_KEY"); k != "" {
		c.Gemini.APIKey = k
	}
	if m := os.Getenv("SCRIBE_GEMINI_MODEL"); m != "" {
		c.Gemini.Model = m
	}
	if u := os.Getenv("SCRIBE_GEMINI_BASE_URL"); u != "" {
		c.Gemini.BaseURL = u
	}

	if k := os.Getenv("SCRIBE_OPENROUTER_API_KEY"); k != "" {
		c.OpenRouter.APIKey = k
	}
	if m := os.Getenv("SCRIBE_OPENROUTER_MODEL"); m != "" {
		c.OpenRouter.Model = m
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// Discover fills the selected provider's key from the vendor's standard
// environment variable when none is configured. If no provider was chosen
// explicitly and the default has no key, it switches to the first provider
// whose standard key is set (Gemini → OpenAI → Anthropic → OpenRouter).
// It reports whether cfg ends up with a usable credential.
func (c *Config) Discover(explicit bool) bool {
	vendor := map[string]string{
		ProviderGemini:     "GEMINI_API_KEY",
		ProviderGeminiSDK:  "GEMINI_API_KEY",
		ProviderOpenAI:     "OPENAI_API_KEY",
		ProviderAnthropic:  "ANTHROPIC_API_KEY",
		ProviderOpenRouter: "OPENROUTER_API_KEY",
	}
	if c.HasCredential() {
		return true
	}
	if env, ok := vendor[c.Provider]; ok {
		if k := os.Getenv(env); k != "" {
			c.setKey(c.Provider, k)
			return true
		}
	}
	if explicit {
		return false
	}
	for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
		if k := os.Getenv(vendor[p]); k != "" {
			c.Provider = p
			c.setKey(p, k)
			return true
		}
	}
	return false
}

// HasCredential reports whether the selected provider has a key, or needs
// none.
func (c Config) HasCredential() bool {
	switch c.Provider {
	case ProviderGemini, ProviderGeminiSDK:
		return c.Gemini.APIKey != ""
	case ProviderAnthropic:
		return c.Anthropic.APIKey != ""
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey != ""
	case ProviderMock:
		return true
	}
	return false
}

func (c *Config) setKey(provider, key string) {
	switch provider {
	case ProviderGemini, ProviderGeminiSDK:
		c.Gemini.APIKey = key
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
}

// Validate checks that the provider is known and the retry settings are
// sane. A missing key is not a validation error: the provider reports
// ErrMissingCredential when asked to generate.
func (c Config) Validate() error {
	known := false
	for _, p := range Providers {
		if c.Provider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// CredentialHint names the environment variable that supplies the key for
// the selected provider.
func (c Config) CredentialHint() string {
	switch c.Provider {
	case ProviderGemini, ProviderGeminiSDK:
		return "SCRIBE_GEMINI_API_KEY (or GEMINI_API_KEY)"
	case ProviderAnthropic:
		return "SCRIBE_ANTHROPIC_API_KEY (or ANTHROPIC_API_KEY)"
	case ProviderOpenAI:
		return "SCRIBE_OPENAI_API_KEY (or OPENAI_API_KEY)"
	case ProviderOpenRouter:
		return "SCRIBE_OPENROUTER_API_KEY (or OPENROUTER_API_KEY)"
	}
	return ""
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

//go:generate mockgen -source=provider.go -destination=mock/completer_mock.go -package=mock

// Completer is the interface that all text-completion backends implement.
type Completer interface {
	// Complete sends one prompt and returns the raw completion text.
	// Every failure is an apperr.KindUnavailable error.
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
	// Name returns the provider name.
	Name() string
}

// Config holds the configuration needed to create a completion provider.
type Config struct {
	Provider string // ollama | compatible | openai | anthropic | gemini
	APIKey   string
	BaseURL  string // required for compatible, defaults for ollama
	Model    string
}

// Provider names.
const (
	ProviderOllama     = "ollama"
	ProviderCompatible = "compatible"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// DefaultOllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama.
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// ollamaAPIKey is sent when none is configured; Ollama ignores it but the
// client requires one.
const ollamaAPIKey = "ollama"

var (
	ErrInvalidProvider = errors.New("invalid provider")
	ErrMissingAPIKey   = errors.New("API key is required")
	ErrMissingBaseURL  = errors.New("base URL is required for compatible provider")
	ErrMissingModel    = errors.New("model is required")
)

// NewProvider creates the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg Config) (Completer, error) {
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	switch cfg.Provider {
	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaBaseURL
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = ollamaAPIKey
		}
		return NewOpenAIProvider(ProviderOllama, apiKey, baseURL, cfg.Model), nil
	case ProviderCompatible:
		if cfg.BaseURL == "" {
			return nil, ErrMissingBaseURL
		}
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAIProvider(ProviderCompatible, cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAIProvider(ProviderOpenAI, cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, cfg.Provider)
	}
}

// NewProviderOrUnavailable is NewProvider for startup wiring: a provider that
// cannot be built (typically a missing credential) is replaced by one that
// reports unavailable on every call, so the failure surfaces per action.
func NewProviderOrUnavailable(ctx context.Context, cfg Config) Completer {
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		slog.Warn("completion provider not configured", "provider", cfg.Provider, "model", cfg.Model, "error", err)
		return NewUnconfigured(cfg.Provider, err)
	}
	return p
}

// Unconfigured is a Completer whose backend could not be set up.
type Unconfigured struct {
	provider string
	cause    error
}

// Compile-time interface check.
var _ Completer = (*Unconfigured)(nil)

// NewUnconfigured returns a Completer that always fails with cause.
func NewUnconfigured(provider string, cause error) *Unconfigured {
	return &Unconfigured{provider: provider, cause: cause}
}

// Complete never contacts a backend.
func (u *Unconfigured) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return "", apperr.Unavailable(fmt.Sprintf("The %s completion service is not configured", u.provider), u.cause)
}

// Name returns the provider name.
func (u *Unconfigured) Name() string {
	return u.provider
}

// unavailable tags a backend failure at the adapter boundary.
func unavailable(provider string, err error) error {
	return apperr.Unavailable(fmt.Sprintf("The %s completion service is unavailable", provider), err)
}

// errEmptyCompletion is returned when a backend answers with no text.
var errEmptyCompletion = errors.New("empty response: no text returned")

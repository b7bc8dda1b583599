package imagegen

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

// Generator backends.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// Defaults for the Hugging Face backend.
const (
	DefaultHuggingFaceModel = "stabilityai/stable-diffusion-3.5-large"
	DefaultOpenAIModel      = "dall-e-2"
	DefaultWidth            = 512
	DefaultHeight           = 512
)

// generateTimeout bounds one generation call; diffusion models are slow.
const generateTimeout = 120 * time.Second

// Config selects and configures an image backend.
type Config struct {
	Provider string // huggingface | openai
	APIKey   string
	BaseURL  string
	Model    string
	Width    int
	Height   int
}

// NewGenerator creates the backend named by cfg.Provider. A missing
// credential is not an error here: the returned generator reports
// unavailable when used, without any network call.
func NewGenerator(cfg Config) (Generator, error) {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	switch cfg.Provider {
	case ProviderHuggingFace, "":
		if cfg.Model == "" {
			cfg.Model = DefaultHuggingFaceModel
		}
		if cfg.APIKey == "" {
			slog.Warn("image generation token not set; set HF_TOKEN to enable image generation")
		}
		return NewHuggingFaceGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Width, cfg.Height), nil
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		if cfg.APIKey == "" {
			slog.Warn("image generation API key not set; set IMAGE_API_KEY or OPENAI_API_KEY to enable image generation")
		}
		return NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Width, cfg.Height), nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.Provider)
	}
}

func missingCredential(provider, hint string) error {
	return apperr.New(apperr.KindUnavailable, fmt.Sprintf("Image generation needs an API token for %s. %s", provider, hint))
}

func generationFailed(provider, model string, err error) error {
	return apperr.Unavailable(fmt.Sprintf("Could not generate an image with %q on %s. The token may be invalid, the model may be loading or rate limited, or the service is unreachable.", model, provider), err)
}

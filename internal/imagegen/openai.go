package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check.
var _ Generator = (*OpenAIGenerator)(nil)

// OpenAIGenerator generates images with the OpenAI Images API.
type OpenAIGenerator struct {
	apiKey string
	client openai.Client
	model  string
	size   string
}

// NewOpenAIGenerator creates an OpenAIGenerator.
func NewOpenAIGenerator(apiKey, baseURL, model string, width, height int) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(generateTimeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{
		apiKey: apiKey,
		client: openai.NewClient(opts...),
		model:  model,
		size:   fmt.Sprintf("%dx%d", width, height),
	}
}

// Name returns the backend name.
func (g *OpenAIGenerator) Name() string {
	return ProviderOpenAI
}

// Generate requests one base64-encoded image.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if g.apiKey == "" {
		return nil, missingCredential("OpenAI", "Set IMAGE_API_KEY or OPENAI_API_KEY.")
	}

	slog.Debug("calling OpenAI image generation", "model", g.model, "size", g.size)

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(g.size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, generationFailed(ProviderOpenAI, g.model, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, generationFailed(ProviderOpenAI, g.model, errEmptyImage)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, generationFailed(ProviderOpenAI, g.model, fmt.Errorf("decoding base64 image: %w", err))
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, generationFailed(ProviderOpenAI, g.model, err)
	}
	return img, nil
}

package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Compile-time interface check.
var _ Generator = (*HuggingFaceGenerator)(nil)

// DefaultHuggingFaceBaseURL is the hf-inference provider of the Inference
// Providers router.
const DefaultHuggingFaceBaseURL = "https://router.huggingface.co/hf-inference"

// HuggingFaceGenerator calls the Hugging Face text-to-image inference API.
type HuggingFaceGenerator struct {
	token   string
	baseURL string
	model   string
	width   int
	height  int
	client  *http.Client
}

// NewHuggingFaceGenerator creates a HuggingFaceGenerator. An empty baseURL
// selects DefaultHuggingFaceBaseURL.
func NewHuggingFaceGenerator(token, baseURL, model string, width, height int) *HuggingFaceGenerator {
	if baseURL == "" {
		baseURL = DefaultHuggingFaceBaseURL
	}
	return &HuggingFaceGenerator{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		width:   width,
		height:  height,
		client:  &http.Client{Timeout: generateTimeout},
	}
}

// Name returns the backend name.
func (g *HuggingFaceGenerator) Name() string {
	return ProviderHuggingFace
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type hfError struct {
	Error string `json:"error"`
}

// Generate posts prompt to the model endpoint and validates the returned
// image bytes.
func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if g.token == "" {
		return nil, missingCredential("Hugging Face", "Create one on huggingface.co and set HF_TOKEN.")
	}

	img, err := g.call(ctx, prompt)
	if err != nil {
		return nil, generationFailed(ProviderHuggingFace, g.model, err)
	}
	return img, nil
}

func (g *HuggingFaceGenerator) call(ctx context.Context, prompt string) (*Image, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:     prompt,
		Parameters: hfParameters{Width: g.width, Height: g.height},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := g.baseURL + "/models/" + g.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	slog.Debug("calling Hugging Face text-to-image", "model", g.model, "width", g.width, "height", g.height)
	start := time.Now()

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := readPayload(resp.Body, maxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	img, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	slog.Info("generated image", "provider", ProviderHuggingFace, "model", g.model, "bytes", len(data), "duration", time.Since(start))
	return img, nil
}

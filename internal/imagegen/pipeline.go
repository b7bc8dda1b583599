package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

const imagePromptTmpl = "high-quality, realistic advertising image for %s, emphasizing its best features, an engaging and professional composition, product photography style"

// ImagePrompt builds the generation prompt for an (English) product name.
func ImagePrompt(productName string) string {
	return fmt.Sprintf(imagePromptTmpl, productName)
}

// Result is a generated image together with the text it was made from.
type Result struct {
	Image          *Image
	TranslatedName string
	Prompt         string
}

// Pipeline translates a product name, builds the prompt and generates the
// image. The steps share no state.
type Pipeline struct {
	translator *Translator
	generator  Generator
}

// NewPipeline creates a Pipeline.
func NewPipeline(translator *Translator, generator Generator) *Pipeline {
	return &Pipeline{translator: translator, generator: generator}
}

// FromProductName generates an advertising image for productName.
func (p *Pipeline) FromProductName(ctx context.Context, productName string) (*Result, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, apperr.Validation("Enter a product or service name to generate an image.")
	}

	translated := p.translator.Translate(ctx, productName)
	prompt := ImagePrompt(translated)

	img, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &Result{Image: img, TranslatedName: translated, Prompt: prompt}, nil
}

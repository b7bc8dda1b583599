package imagegen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hoanghai1803/adcraft/internal/ai"
)

// Translator renders Turkish product names in English for image prompts.
// It is best effort: any failure yields the original text.
type Translator struct {
	completer ai.Completer
}

// NewTranslator creates a Translator backed by completer.
func NewTranslator(completer ai.Completer) *Translator {
	return &Translator{completer: completer}
}

// Translate returns the English translation of text, or text itself when
// the translation fails or comes back empty.
func (t *Translator) Translate(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" || t.completer == nil {
		return text
	}

	raw, err := t.completer.Complete(ctx, "", ai.TranslatePrompt(text))
	if err != nil {
		slog.Warn("translation failed, using original text", "provider", t.completer.Name(), "error", err)
		return text
	}

	translated := ai.CleanTranslation(raw)
	if translated == "" {
		return text
	}
	return translated
}

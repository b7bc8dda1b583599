// Package render turns a parsed ad-copy result into the annotated display
// shown to the user: markdown first, then HTML.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hoanghai1803/adcraft/internal/adcopy"
	"github.com/hoanghai1803/adcraft/internal/models"
)

// Notice tells the user that a section produced nothing.
type Notice struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

// Display is the rendered form of one result.
type Display struct {
	Markdown string   `json:"markdown"`
	HTML     string   `json:"html"`
	Notices  []Notice `json:"notices"`
}

var sectionTitles = map[string]string{
	models.SectionHeadlines: "Reklam Başlıkları:",
	models.SectionBody:      "Reklam Gövde Metni:",
	models.SectionCTAs:      "Harekete Geçirici Mesaj (CTA) Önerileri:",
	models.SectionSlogans:   "Slogan Önerileri:",
}

var emptyMessages = map[string]string{
	models.SectionHeadlines: "Başlık oluşturulamadı.",
	models.SectionBody:      "Gövde metni oluşturulamadı.",
	models.SectionCTAs:      "CTA oluşturulamadı.",
	models.SectionSlogans:   "Slogan oluşturulamadı.",
}

// Render builds the display for result. limits supply the maxima quoted in
// over-limit warnings; the flags themselves come from the parser.
func Render(result models.AdCopyResult, limits adcopy.Limits) (Display, error) {
	var (
		b       strings.Builder
		notices []Notice
	)

	section := func(name string, empty bool, write func()) {
		fmt.Fprintf(&b, "#### %s\n\n", sectionTitles[name])
		if empty {
			msg := emptyMessages[name]
			notices = append(notices, Notice{Section: name, Message: msg})
			fmt.Fprintf(&b, "> %s\n\n", msg)
			return
		}
		write()
	}

	section(models.SectionHeadlines, len(result.Headlines) == 0, func() {
		for _, h := range result.Headlines {
			writeItem(&b, h.Text, h.CharCount, h.OverLimit, limits.HeadlineMax)
		}
	})
	section(models.SectionBody, result.Body.Text == "", func() {
		writeItem(&b, result.Body.Text, result.Body.CharCount, result.Body.OverLimit, limits.BodyMax)
	})
	section(models.SectionCTAs, len(result.CTAs) == 0, func() {
		for _, c := range result.CTAs {
			writeItem(&b, c.Text, c.CharCount, false, 0)
		}
	})
	section(models.SectionSlogans, len(result.Slogans) == 0, func() {
		for _, s := range result.Slogans {
			writeItem(&b, s.Text, s.CharCount, false, 0)
		}
	})

	md := b.String()
	html, err := ToHTML(md)
	if err != nil {
		return Display{}, err
	}
	if notices == nil {
		notices = []Notice{}
	}
	return Display{Markdown: md, HTML: html, Notices: notices}, nil
}

// writeItem writes one "**text**(N karakter)" paragraph, with the limit
// warning appended when overLimit is set.
func writeItem(b *strings.Builder, text string, count int, overLimit bool, max int) {
	fmt.Fprintf(b, "**%s**(%d karakter)", escapeMarkdown(text), count)
	if overLimit {
		fmt.Fprintf(b, " - **UYARI: %d karakter limitini aşıyor!**", max)
	}
	b.WriteString("\n\n")
}

// ToHTML converts markdown to HTML. Raw HTML in the source is not rendered.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
)

// escapeMarkdown keeps model text literal inside the generated markdown.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

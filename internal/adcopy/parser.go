package adcopy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hoanghai1803/adcraft/internal/models"
)

const bullet = "-"

// Options configure a Parser. Zero-valued Markers fall back to
// DefaultMarkers.
type Options struct {
	Markers          Markers
	Limits           Limits
	Artifacts        []string
	ArtifactPatterns []*regexp.Regexp
}

// Parser splits a completion into the four ad-copy sections. It never fails:
// anything it cannot recognise resolves to an empty section.
type Parser struct {
	markers   Markers
	limits    Limits
	artifacts []string
	patterns  []*regexp.Regexp
}

// NewParser creates a Parser from opts.
func NewParser(opts Options) *Parser {
	markers := opts.Markers
	if markers == (Markers{}) {
		markers = DefaultMarkers
	}
	return &Parser{
		markers:   markers,
		limits:    opts.Limits,
		artifacts: opts.Artifacts,
		patterns:  opts.ArtifactPatterns,
	}
}

// NewTemplateParser creates a Parser that strips the artifacts of t plus any
// extra literals and patterns.
func NewTemplateParser(t *Template, extra []string, extraPatterns []*regexp.Regexp) *Parser {
	return NewParser(Options{
		Markers:          t.Markers,
		Limits:           t.Limits,
		Artifacts:        append(t.BodyArtifacts(), extra...),
		ArtifactPatterns: append(t.BodyArtifactPatterns(), extraPatterns...),
	})
}

// Parse parses raw with the default markers and template artifacts.
func Parse(raw string, limits Limits) models.AdCopyResult {
	return NewTemplateParser(NewTemplate(limits), nil, nil).Parse(raw)
}

// Parse splits raw into headlines, body, CTAs and slogans, counts characters
// and annotates headlines and body that exceed their limits.
func (p *Parser) Parse(raw string) models.AdCopyResult {
	sections := newScanner(raw, p.markers).run()

	result := models.AdCopyResult{
		Headlines: parseList(sections[SectionHeadlines]),
		Body:      p.parseBody(sections[SectionBody]),
		CTAs:      parseList(sections[SectionCTAs]),
		Slogans:   parseList(sections[SectionSlogans]),
	}

	// CTAs and slogans are counted but have no limit.
	for i := range result.Headlines {
		result.Headlines[i].OverLimit = exceeds(result.Headlines[i].CharCount, p.limits.HeadlineMax)
	}
	result.Body.OverLimit = exceeds(result.Body.CharCount, p.limits.BodyMax)

	return result
}

// Limits returns the limits the parser annotates against.
func (p *Parser) Limits() Limits {
	return p.limits
}

// CharCount counts user-perceptible characters (code points), not bytes.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

func exceeds(count, max int) bool {
	return max > 0 && count > max
}

// parseList keeps the dash-bulleted lines of a section, in order. A bare
// "-" still counts as an item, with empty text.
func parseList(section string) []models.AdCopyItem {
	items := []models.AdCopyItem{}
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, bullet) {
			continue
		}
		text := strings.TrimSpace(strings.Trim(trimmed, "- "))
		items = append(items, models.AdCopyItem{Text: text, CharCount: CharCount(text)})
	}
	return items
}

// parseBody removes echoed template text and keeps the first non-blank line.
func (p *Parser) parseBody(section string) models.BodyText {
	text := section
	for _, a := range p.artifacts {
		if a != "" {
			text = strings.ReplaceAll(text, a, "")
		}
	}
	for _, re := range p.patterns {
		text = re.ReplaceAllString(text, "")
	}

	text = firstNonBlankLine(text)
	return models.BodyText{Text: text, CharCount: CharCount(text)}
}

func firstNonBlankLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

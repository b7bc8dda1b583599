package ai

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hoanghai1803/adcraft/internal/models"
)

var strictPolicy = bluemonday.StrictPolicy()

// ParseSiteInfo parses the JSON object a site-analysis completion is
// expected to contain. Any failure yields the empty SiteInfo; it never
// panics. Missing fields stay empty, so partial results survive.
func ParseSiteInfo(raw string) models.SiteInfo {
	var fields map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &fields); err != nil {
		return models.SiteInfo{}
	}

	return models.SiteInfo{
		ProductName:        sanitize(stringField(fields["product_name"])),
		ProductDescription: sanitize(stringField(fields["product_description"])),
		Keywords:           sanitize(stringField(fields["keywords"])),
	}
}

// stringField accepts a string or a list of strings; models occasionally
// return keywords as an array.
func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// sanitize removes any markup the model copied from the page.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// CleanTranslation keeps the first line of a translation completion and
// drops an echoed "English:" label.
func CleanTranslation(raw string) string {
	text := strings.TrimSpace(raw)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if after, found := strings.CutPrefix(text, "English:"); found {
		text = strings.TrimSpace(after)
	}
	return text
}

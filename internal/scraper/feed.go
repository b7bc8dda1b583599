package scraper

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// maxFeedItems bounds how many entries of a feed contribute text.
const maxFeedItems = 20

// isFeed reports whether a response is an RSS, Atom or JSON feed, judged by
// content type first and by sniffing the body otherwise.
func isFeed(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") || strings.Contains(ct, "feed+json") {
		return true
	}
	if strings.Contains(ct, "html") {
		return false
	}
	return gofeed.DetectFeedType(bytes.NewReader(body)) != gofeed.FeedTypeUnknown
}

// extractFeed turns a feed into a page: the feed title and description,
// then the title and description of each item.
func extractFeed(body []byte) (Page, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parsing feed: %w", err)
	}

	var b strings.Builder
	for i, item := range feed.Items {
		if i >= maxFeedItems {
			break
		}
		if item.Title != "" {
			b.WriteString(strings.TrimSpace(item.Title))
			b.WriteString("\n")
		}
		if desc := stripHTML(item.Description); desc != "" {
			b.WriteString(desc)
			b.WriteString("\n")
		}
	}

	return Page{
		Title:           strings.TrimSpace(feed.Title),
		MetaDescription: stripHTML(feed.Description),
		Text:            collapseText(b.String()),
	}, nil
}

// stripHTML removes HTML tags from s and unescapes HTML entities.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(clean))
}

package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// extractHTML pulls the title, meta description and visible text out of an
// HTML document. Readability metadata fills a missing title or description.
func extractHTML(body []byte, pageURL *url.URL) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parsing HTML: %w", err)
	}

	page := Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.MetaDescription = strings.TrimSpace(content)
	}

	doc.Find("script, style, noscript").Remove()
	page.Text = collapseText(doc.Text())

	if page.Title == "" || page.MetaDescription == "" || page.Text == "" {
		applyReadability(&page, body, pageURL)
	}
	return page, nil
}

// applyReadability fills empty fields from the readability article. A
// readability failure leaves the page as it is.
func applyReadability(page *Page, body []byte, pageURL *url.URL) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return
	}
	if page.Title == "" {
		page.Title = strings.TrimSpace(article.Title)
	}
	if page.MetaDescription == "" {
		page.MetaDescription = strings.TrimSpace(article.Excerpt)
	}
	if page.Text == "" {
		page.Text = collapseText(article.TextContent)
	}
}

// collapseText trims every line, splits lines on double spaces into phrases
// and joins the non-empty phrases with newlines.
func collapseText(text string) string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

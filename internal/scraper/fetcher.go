// Package scraper fetches a web page and reduces it to bounded plain text
// plus its title and meta description.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxChars is the text cap applied before analysis.
	DefaultMaxChars = 3000

	maxBodyBytes = 5 << 20
)

// Page is the extracted content of one URL.
type Page struct {
	URL             string
	Title           string
	MetaDescription string
	Text            string
	Truncated       bool
}

// Fetcher downloads pages with a bounded timeout and a browser-like
// User-Agent.
type Fetcher struct {
	client   *http.Client
	maxChars int
}

// NewFetcher creates a Fetcher. Non-positive arguments fall back to
// DefaultTimeout and DefaultMaxChars.
func NewFetcher(timeout time.Duration, maxChars int) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
		maxChars: maxChars,
	}
}

// userAgentTransport wraps an http.RoundTripper to inject browser headers
// on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7")
	return t.base.RoundTrip(req)
}

// Fetch downloads pageURL and extracts its content. Failures are transport
// errors wrapping a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (Page, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page{}, transportError(&FetchError{Reason: ReasonConnection, URL: pageURL, Err: err})
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, transportError(&FetchError{Reason: classify(err), URL: pageURL, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return Page{}, transportError(&FetchError{Reason: ReasonHTTPStatus, URL: pageURL, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, transportError(&FetchError{Reason: classify(err), URL: pageURL, Err: fmt.Errorf("reading body: %w", err)})
	}

	var page Page
	if isFeed(resp.Header.Get("Content-Type"), body) {
		page, err = extractFeed(body)
	} else {
		page, err = extractHTML(body, resp.Request.URL)
	}
	if err != nil {
		return Page{}, transportError(&FetchError{Reason: ReasonParse, URL: pageURL, Err: err})
	}

	page.URL = pageURL
	page.Text, page.Truncated = truncate(page.Text, f.maxChars)

	slog.Info("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"chars", utf8.RuneCountInString(page.Text),
		"truncated", page.Truncated,
		"duration", time.Since(start),
	)
	return page, nil
}

// truncate caps s at maxChars characters and appends "..." when it cut.
func truncate(s string, maxChars int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s, false
	}
	return string(runes[:maxChars]) + "...", true
}

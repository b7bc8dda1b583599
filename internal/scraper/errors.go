package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

// Reason distinguishes fetch failures for messaging. Callers otherwise
// handle every reason the same way.
type Reason string

const (
	ReasonConnection Reason = "connection"
	ReasonTimeout    Reason = "timeout"
	ReasonHTTPStatus Reason = "http_status"
	ReasonParse      Reason = "parse"
)

// FetchError describes why a page could not be fetched.
type FetchError struct {
	Reason     Reason
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Reason == ReasonHTTPStatus {
		return fmt.Sprintf("fetching %q: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %q: %s: %v", e.URL, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for the failure reason.
func (e *FetchError) Message() string {
	switch e.Reason {
	case ReasonConnection:
		return "Could not connect to the website. Check the URL and your internet connection, and make sure the site is reachable."
	case ReasonTimeout:
		return "The website did not respond in time. It may be slow to load or unreachable."
	case ReasonHTTPStatus:
		return fmt.Sprintf("The website returned HTTP %d. Check the URL.", e.StatusCode)
	default:
		return "The website content could not be processed. Its structure may differ from what was expected."
	}
}

// transportError tags a FetchError so it crosses package boundaries as a
// transport failure.
func transportError(fe *FetchError) error {
	return apperr.Wrap(apperr.KindTransport, fe.Message(), fe)
}

// classify maps a client error to a connection or timeout reason.
func classify(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonConnection
}

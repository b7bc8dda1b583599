package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

const loadTimeout = 30 * time.Second

// Loader downloads an image from a URL and checks that it decodes.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{client: &http.Client{Timeout: loadTimeout}, maxBytes: maxImageBytes}
}

// Load downloads imageURL. Network failures and undecodable payloads are
// unavailable errors with distinct messages.
func (l *Loader) Load(ctx context.Context, imageURL string) (*Image, error) {
	data, err := l.download(ctx, imageURL)
	if err != nil {
		return nil, apperr.Unavailable("Could not reach the URL or download the image. Check the URL and your internet connection.", err)
	}

	img, err := decodeImage(data)
	if err != nil {
		return nil, apperr.Unavailable("The downloaded file could not be opened as an image, or its format is not supported.", err)
	}
	return img, nil
}

func (l *Loader) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetching %q: HTTP %d", imageURL, resp.StatusCode)
	}

	data, err := readPayload(resp.Body, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", imageURL, err)
	}
	return data, nil
}

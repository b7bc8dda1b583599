// Package imagegen produces an advertising image for a product, either by
// generating one from text or by loading one from a URL.
package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

//go:generate mockgen -source=image.go -destination=mock/generator_mock.go -package=mock

// Generator turns a text prompt into an image.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
	Name() string
}

// Image is a decoded-and-validated image payload.
type Image struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

const maxImageBytes = 20 << 20

var (
	errEmptyImage    = errors.New("empty image payload")
	errImageTooLarge = errors.New("image payload too large")
)

// readPayload reads at most limit bytes from r and fails on a longer payload.
func readPayload(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", errImageTooLarge, limit)
	}
	return data, nil
}

// decodeImage checks that data is a PNG, JPEG or GIF image and records its
// format and dimensions.
func decodeImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return &Image{
		Data:        data,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

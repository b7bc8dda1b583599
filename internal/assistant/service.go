// Package assistant orchestrates one user action at a time: ad-copy
// generation, site analysis, and image generation or loading.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/hoanghai1803/adcraft/internal/adcopy"
	"github.com/hoanghai1803/adcraft/internal/ai"
	"github.com/hoanghai1803/adcraft/internal/apperr"
	"github.com/hoanghai1803/adcraft/internal/imagegen"
	"github.com/hoanghai1803/adcraft/internal/models"
	"github.com/hoanghai1803/adcraft/internal/render"
	"github.com/hoanghai1803/adcraft/internal/scraper"
	"github.com/hoanghai1803/adcraft/internal/storage"
)

//go:generate mockgen -source=service.go -destination=mock/deps_mock.go -package=mock

// PageFetcher fetches and extracts a web page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (scraper.Page, error)
}

// ImagePipeline generates an image from a product name.
type ImagePipeline interface {
	FromProductName(ctx context.Context, productName string) (*imagegen.Result, error)
}

// ImageLoader downloads an image from a URL.
type ImageLoader interface {
	Load(ctx context.Context, imageURL string) (*imagegen.Image, error)
}

// RecordStore persists generation records.
type RecordStore interface {
	Save(ctx context.Context, rec models.OutputRecord) (string, error)
	List(ctx context.Context) ([]storage.Entry, error)
	Get(ctx context.Context, name string) (*models.OutputRecord, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Generator ai.Completer // ad-copy completions
	Analyzer  ai.Completer // site analysis completions
	Template  *adcopy.Template
	Parser    *adcopy.Parser
	Fetcher   PageFetcher
	Images    ImagePipeline
	Loader    ImageLoader
	Store     RecordStore
}

// Service runs the user actions. It holds no per-request state.
type Service struct {
	generator ai.Completer
	analyzer  ai.Completer
	template  *adcopy.Template
	parser    *adcopy.Parser
	fetcher   PageFetcher
	images    ImagePipeline
	loader    ImageLoader
	store     RecordStore
}

// New creates a Service.
func New(d Deps) *Service {
	return &Service{
		generator: d.Generator,
		analyzer:  d.Analyzer,
		template:  d.Template,
		parser:    d.Parser,
		fetcher:   d.Fetcher,
		images:    d.Images,
		loader:    d.Loader,
		store:     d.Store,
	}
}

// Generation is the outcome of a successful ad-copy generation.
type Generation struct {
	Request       models.GenerationRequest `json:"request"`
	Result        models.AdCopyResult      `json:"result"`
	Display       render.Display           `json:"display"`
	RecordName    string                   `json:"record_name"`
	EmptySections []string                 `json:"empty_sections"`
}

// Generate validates req, asks the model for ad copy, parses and renders it,
// and saves the record. Validation failures happen before any network call;
// a completion failure persists nothing.
func (s *Service) Generate(ctx context.Context, req models.GenerationRequest) (*Generation, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	start := time.Now()
	raw, err := s.generator.Complete(ctx, "", s.template.Render(req))
	if err != nil {
		slog.Error("ad copy completion failed", "provider", s.generator.Name(), "error", err)
		return nil, asUnavailable(err, "The ad copy could not be generated. Make sure the completion service is running and the model is available.")
	}

	result := s.parser.Parse(raw)

	display, err := render.Render(result, s.parser.Limits())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "The generated ad copy could not be displayed", err)
	}

	name, err := s.store.Save(ctx, models.OutputRecord{
		RequestParameters: req,
		GeneratedContent:  result,
		RawLLMResponse:    raw,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "The generated ad copy could not be saved", err)
	}

	empty := result.EmptySections()
	if empty == nil {
		empty = []string{}
	}
	slog.Info("generated ad copy",
		"product", req.ProductName,
		"headlines", len(result.Headlines),
		"ctas", len(result.CTAs),
		"slogans", len(result.Slogans),
		"empty_sections", empty,
		"record", name,
		"duration", time.Since(start),
	)

	return &Generation{
		Request:       req,
		Result:        result,
		Display:       display,
		RecordName:    name,
		EmptySections: empty,
	}, nil
}

// Analysis is the outcome of a site analysis.
type Analysis struct {
	URL             string          `json:"url"`
	Title           string          `json:"title"`
	MetaDescription string          `json:"meta_description"`
	Truncated       bool            `json:"truncated"`
	Info            models.SiteInfo `json:"info"`
}

// AnalyzeSite fetches pageURL and extracts product details from it. Partial
// extraction is a success; nothing at all is a malformed-output error.
func (s *Service) AnalyzeSite(ctx context.Context, pageURL string) (*Analysis, error) {
	pageURL, err := normalizeURL(pageURL, "Enter a website URL to analyze.")
	if err != nil {
		return nil, err
	}

	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		slog.Warn("site fetch failed", "url", pageURL, "error", err)
		return nil, err
	}
	if strings.TrimSpace(page.Text) == "" {
		return nil, apperr.New(apperr.KindTransport, "No text could be extracted from the website.")
	}

	content := ai.SiteAnalysisContent(page.Title, page.MetaDescription, page.Text)
	raw, err := s.analyzer.Complete(ctx, "", ai.SiteAnalysisPrompt(content))
	if err != nil {
		slog.Error("site analysis completion failed", "provider", s.analyzer.Name(), "error", err)
		return nil, asUnavailable(err, "The website could not be analyzed. Make sure the completion service is running and the analysis model is available.")
	}

	info := ai.ParseSiteInfo(raw)
	if info.Empty() {
		slog.Warn("site analysis returned no usable fields", "url", pageURL, "response", raw)
		return nil, apperr.New(apperr.KindMalformedOutput, "Could not extract product information from the website. The model response was not in the expected format.")
	}

	return &Analysis{
		URL:             pageURL,
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Truncated:       page.Truncated,
		Info:            info,
	}, nil
}

// GenerateImage creates an advertising image for productName.
func (s *Service) GenerateImage(ctx context.Context, productName string) (*imagegen.Result, error) {
	res, err := s.images.FromProductName(ctx, productName)
	if err != nil {
		return nil, asUnavailable(err, "The image could not be generated.")
	}
	return res, nil
}

// LoadImage downloads an image the user points at.
func (s *Service) LoadImage(ctx context.Context, imageURL string) (*imagegen.Image, error) {
	imageURL, err := normalizeURL(imageURL, "Enter an image URL to load.")
	if err != nil {
		return nil, err
	}

	img, err := s.loader.Load(ctx, imageURL)
	if err != nil {
		return nil, asUnavailable(err, "The image could not be loaded.")
	}
	return img, nil
}

// ListOutputs returns the stored records, newest first.
func (s *Service) ListOutputs(ctx context.Context) ([]storage.Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "The saved records could not be listed", err)
	}
	return entries, nil
}

// GetOutput returns one stored record.
func (s *Service) GetOutput(ctx context.Context, name string) (*models.OutputRecord, error) {
	rec, err := s.store.Get(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Wrap(apperr.KindNotFound, "Record not found", err)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "The record could not be read", err)
	}
	return rec, nil
}

// Options describes the choices and limits the input form offers.
type Options struct {
	Platforms        []models.Platform `json:"platforms"`
	Tones            []models.Tone     `json:"tones"`
	MinItemCount     int               `json:"min_item_count"`
	MaxItemCount     int               `json:"max_item_count"`
	DefaultItemCount int               `json:"default_item_count"`
	HeadlineMaxChars int               `json:"headline_max_chars"`
	BodyMaxChars     int               `json:"body_max_chars"`
}

// Options returns the form options.
func (s *Service) Options() Options {
	limits := s.parser.Limits()
	return Options{
		Platforms:        models.Platforms,
		Tones:            models.Tones,
		MinItemCount:     models.MinItemCount,
		MaxItemCount:     models.MaxItemCount,
		DefaultItemCount: models.DefaultItemCount,
		HeadlineMaxChars: limits.HeadlineMax,
		BodyMaxChars:     limits.BodyMax,
	}
}

// asUnavailable keeps tagged errors as they are and tags anything else as
// unavailable with message.
func asUnavailable(err error, message string) error {
	var tagged *apperr.Error
	if errors.As(err, &tagged) {
		return err
	}
	return apperr.Unavailable(message, err)
}

// normalizeURL trims raw, adds https:// when no scheme was typed and checks
// that the result is an absolute http(s) URL.
func normalizeURL(raw, emptyMessage string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.Validation(emptyMessage)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.Validation("Enter a valid http or https URL.")
	}
	return u.String(), nil
}

package handlers

import (
	"context"

	"github.com/hoanghai1803/adcraft/internal/assistant"
	"github.com/hoanghai1803/adcraft/internal/imagegen"
	"github.com/hoanghai1803/adcraft/internal/models"
	"github.com/hoanghai1803/adcraft/internal/storage"
)

// stubAssistant is a hand-rolled Assistant whose results are set per test.
// It records the last request it received.
type stubAssistant struct {
	options assistant.Options

	generation *assistant.Generation
	analysis   *assistant.Analysis
	imageRes   *imagegen.Result
	image      *imagegen.Image
	entries    []storage.Entry
	record     *models.OutputRecord
	err        error

	lastRequest models.GenerationRequest
	lastURL     string
	lastName    string
	calls       int
}

var _ Assistant = (*stubAssistant)(nil)

func (s *stubAssistant) Options() assistant.Options {
	return s.options
}

func (s *stubAssistant) Generate(_ context.Context, req models.GenerationRequest) (*assistant.Generation, error) {
	s.calls++
	s.lastRequest = req
	return s.generation, s.err
}

func (s *stubAssistant) AnalyzeSite(_ context.Context, pageURL string) (*assistant.Analysis, error) {
	s.calls++
	s.lastURL = pageURL
	return s.analysis, s.err
}

func (s *stubAssistant) GenerateImage(_ context.Context, productName string) (*imagegen.Result, error) {
	s.calls++
	s.lastName = productName
	return s.imageRes, s.err
}

func (s *stubAssistant) LoadImage(_ context.Context, imageURL string) (*imagegen.Image, error) {
	s.calls++
	s.lastURL = imageURL
	return s.image, s.err
}

func (s *stubAssistant) ListOutputs(context.Context) ([]storage.Entry, error) {
	s.calls++
	return s.entries, s.err
}

func (s *stubAssistant) GetOutput(_ context.Context, name string) (*models.OutputRecord, error) {
	s.calls++
	s.lastName = name
	return s.record, s.err
}

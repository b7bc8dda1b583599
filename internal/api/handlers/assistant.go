package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hoanghai1803/adcraft/internal/assistant"
	"github.com/hoanghai1803/adcraft/internal/imagegen"
	"github.com/hoanghai1803/adcraft/internal/models"
	"github.com/hoanghai1803/adcraft/internal/storage"
)

// Assistant is the set of user actions the handlers expose.
type Assistant interface {
	Options() assistant.Options
	Generate(ctx context.Context, req models.GenerationRequest) (*assistant.Generation, error)
	AnalyzeSite(ctx context.Context, pageURL string) (*assistant.Analysis, error)
	GenerateImage(ctx context.Context, productName string) (*imagegen.Result, error)
	LoadImage(ctx context.Context, imageURL string) (*imagegen.Image, error)
	ListOutputs(ctx context.Context) ([]storage.Entry, error)
	GetOutput(ctx context.Context, name string) (*models.OutputRecord, error)
}

// GetOptions handles GET /api/options. It returns the platforms, tones,
// item count bounds and character limits the form offers.
func GetOptions(svc Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Options())
	}
}

// AnalyzeSite handles POST /api/analyze. On success the extracted fields
// replace the product name, description and keywords of the caller's form
// state.
func AnalyzeSite(svc Assistant, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeAppError(w, err)
			return
		}

		analysis, err := svc.AnalyzeSite(r.Context(), body.URL)
		if err != nil {
			writeAppError(w, err)
			return
		}

		id := sessions.ID(w, r)
		form := sessions.Update(id, func(f *models.FormState) {
			f.ApplySiteInfo(analysis.Info)
		})

		writeJSON(w, http.StatusOK, map[string]any{
			"analysis": analysis,
			"form":     form,
		})
	}
}

// generateBody accepts keywords either as a list or as the comma-separated
// string typed into the form.
type generateBody struct {
	models.GenerationRequest
	KeywordText string `json:"keyword_text"`
}

// Generate handles POST /api/generate. The submitted text fields are kept in
// the caller's form state whether or not generation succeeds.
func Generate(svc Assistant, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body generateBody
		if err := decodeJSON(w, r, &body); err != nil {
			writeAppError(w, err)
			return
		}

		req := body.GenerationRequest
		if len(req.Keywords) == 0 && body.KeywordText != "" {
			req.Keywords = models.SplitKeywords(body.KeywordText)
		}

		id := sessions.ID(w, r)
		sessions.Update(id, func(f *models.FormState) {
			f.ProductName = strings.TrimSpace(req.ProductName)
			f.ProductDescription = strings.TrimSpace(req.ProductDescription)
			f.TargetAudience = strings.TrimSpace(req.TargetAudience)
			f.Keywords = req.KeywordString()
		})

		gen, err := svc.Generate(r.Context(), req)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, gen)
	}
}

// imageResponse carries an image as a data URL.
type imageResponse struct {
	DataURL        string `json:"data_url"`
	ContentType    string `json:"content_type"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	TranslatedName string `json:"translated_name,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
}

func newImageResponse(img *imagegen.Image) imageResponse {
	return imageResponse{
		DataURL:     "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
		ContentType: img.ContentType,
		Width:       img.Width,
		Height:      img.Height,
	}
}

// GenerateImage handles POST /api/images/generate.
func GenerateImage(svc Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductName string `json:"product_name"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeAppError(w, err)
			return
		}

		res, err := svc.GenerateImage(r.Context(), body.ProductName)
		if err != nil {
			writeAppError(w, err)
			return
		}

		resp := newImageResponse(res.Image)
		resp.TranslatedName = res.TranslatedName
		resp.Prompt = res.Prompt
		slog.Info("generated image", "product", body.ProductName, "bytes", len(res.Image.Data))
		writeJSON(w, http.StatusOK, resp)
	}
}

// LoadImage handles POST /api/images/load.
func LoadImage(svc Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeAppError(w, err)
			return
		}

		img, err := svc.LoadImage(r.Context(), body.URL)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newImageResponse(img))
	}
}

// ListOutputs handles GET /api/outputs. It returns the saved records,
// newest first.
func ListOutputs(svc Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListOutputs(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}

		if entries == nil {
			entries = []storage.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GetOutput handles GET /api/outputs/{name}.
func GetOutput(svc Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := urlParam(r, "name")
		if err != nil {
			writeAppError(w, err)
			return
		}

		rec, err := svc.GetOutput(r.Context(), name)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

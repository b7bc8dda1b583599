package assistant_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hoanghai1803/adcraft/internal/adcopy"
	aimock "github.com/hoanghai1803/adcraft/internal/ai/mock"
	"github.com/hoanghai1803/adcraft/internal/apperr"
	"github.com/hoanghai1803/adcraft/internal/assistant"
	"github.com/hoanghai1803/adcraft/internal/assistant/mock"
	"github.com/hoanghai1803/adcraft/internal/imagegen"
	"github.com/hoanghai1803/adcraft/internal/models"
	"github.com/hoanghai1803/adcraft/internal/scraper"
	"github.com/hoanghai1803/adcraft/internal/storage"
)

const modelResponse = `**1. Reklam Başlıkları (3 adet):**
- Yeni Kahve
- Sabahın Enerjisi
- Taze Çekirdek

**2. Reklam Gövde Metni (1 adet):**
Her sabah taze kahve keyfi sizi bekliyor.

**3. Harekete Geçirici Mesaj (Call to Action - CTA) Önerileri (3 adet):**
- Hemen Sipariş Ver
- Şimdi Dene
- Keşfet

**4. Slogan Önerileri (3 adet):**
- Kahvenin En Tazesi
- Güne Güzel Başla
- Her Yudumda Keyif
`

type fixture struct {
	generator *aimock.MockCompleter
	analyzer  *aimock.MockCompleter
	fetcher   *mock.MockPageFetcher
	images    *mock.MockImagePipeline
	loader    *mock.MockImageLoader
	store     *mock.MockRecordStore
	svc       *assistant.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		generator: aimock.NewMockCompleter(ctrl),
		analyzer:  aimock.NewMockCompleter(ctrl),
		fetcher:   mock.NewMockPageFetcher(ctrl),
		images:    mock.NewMockImagePipeline(ctrl),
		loader:    mock.NewMockImageLoader(ctrl),
		store:     mock.NewMockRecordStore(ctrl),
	}
	f.generator.EXPECT().Name().Return("ollama").AnyTimes()
	f.analyzer.EXPECT().Name().Return("ollama").AnyTimes()

	tmpl := adcopy.NewTemplate(adcopy.DefaultLimits)
	f.svc = assistant.New(assistant.Deps{
		Generator: f.generator,
		Analyzer:  f.analyzer,
		Template:  tmpl,
		Parser:    adcopy.NewTemplateParser(tmpl, nil, nil),
		Fetcher:   f.fetcher,
		Images:    f.images,
		Loader:    f.loader,
		Store:     f.store,
	})
	return f
}

func validRequest() models.GenerationRequest {
	return models.GenerationRequest{
		ProductName:        "Kahve",
		ProductDescription: "Taze çekilmiş kahve",
		TargetAudience:     "Kahve severler",
		Platform:           models.PlatformGeneral,
		Tone:               models.ToneFriendly,
		Keywords:           []string{"kahve", "taze"},
		NumHeadlines:       3,
		NumCTAs:            3,
		NumSlogans:         3,
	}
}

func TestService_Generate(t *testing.T) {
	f := newFixture(t)

	var prompt string
	f.generator.EXPECT().
		Complete(gomock.Any(), "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, p string) (string, error) {
			prompt = p
			return modelResponse, nil
		})

	var saved models.OutputRecord
	f.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.OutputRecord) (string, error) {
			saved = rec
			return "reklam_metni_20250101_120000.json", nil
		})

	gen, err := f.svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	require.Contains(t, prompt, "Kahve")
	require.Contains(t, prompt, "kahve, taze")

	require.Len(t, gen.Result.Headlines, 3)
	require.Equal(t, "Yeni Kahve", gen.Result.Headlines[0].Text)
	require.Equal(t, "Her sabah taze kahve keyfi sizi bekliyor.", gen.Result.Body.Text)
	require.Len(t, gen.Result.CTAs, 3)
	require.Len(t, gen.Result.Slogans, 3)
	require.Empty(t, gen.EmptySections)
	require.Equal(t, "reklam_metni_20250101_120000.json", gen.RecordName)
	require.Contains(t, gen.Display.Markdown, "**Yeni Kahve**(10 karakter)")
	require.NotEmpty(t, gen.Display.HTML)

	require.Equal(t, modelResponse, saved.RawLLMResponse)
	require.Equal(t, "Kahve", saved.RequestParameters.ProductName)
	require.Equal(t, gen.Result, saved.GeneratedContent)
}

func TestService_Generate_NormalizesRequest(t *testing.T) {
	f := newFixture(t)

	f.generator.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return(modelResponse, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return("rec.json", nil)

	req := validRequest()
	req.ProductName = "  Kahve  "
	req.Platform = ""
	req.Tone = ""
	req.NumHeadlines = 0

	gen, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "Kahve", gen.Request.ProductName)
	require.Equal(t, models.PlatformGeneral, gen.Request.Platform)
	require.Equal(t, models.ToneProfessional, gen.Request.Tone)
	require.Equal(t, models.DefaultItemCount, gen.Request.NumHeadlines)
}

func TestService_Generate_ValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.GenerationRequest)
	}{
		{"missing product name", func(r *models.GenerationRequest) { r.ProductName = "   " }},
		{"missing description", func(r *models.GenerationRequest) { r.ProductDescription = "" }},
		{"missing audience", func(r *models.GenerationRequest) { r.TargetAudience = "" }},
		{"unknown platform", func(r *models.GenerationRequest) { r.Platform = "LinkedIn" }},
		{"unknown tone", func(r *models.GenerationRequest) { r.Tone = "Sert" }},
		{"too many headlines", func(r *models.GenerationRequest) { r.NumHeadlines = 11 }},
		{"negative slogans", func(r *models.GenerationRequest) { r.NumSlogans = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No Complete or Save expectations: any call fails the test.
			f := newFixture(t)

			req := validRequest()
			tt.mutate(&req)

			_, err := f.svc.Generate(context.Background(), req)
			require.Error(t, err)
			require.Equal(t, apperr.KindValidation, apperr.KindOf(err), "expected validation error, got %v", err)
		})
	}
}

func TestService_Generate_CompletionFailureSavesNothing(t *testing.T) {
	f := newFixture(t)

	f.generator.EXPECT().
		Complete(gomock.Any(), "", gomock.Any()).
		Return("", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused"))

	_, err := f.svc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	require.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
	require.NotContains(t, apperr.Message(err), "127.0.0.1")
}

func TestService_Generate_KeepsTaggedCompletionError(t *testing.T) {
	f := newFixture(t)

	tagged := apperr.Unavailable("The completion service is busy", nil)
	f.generator.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return("", tagged)

	_, err := f.svc.Generate(context.Background(), validRequest())
	require.ErrorIs(t, err, tagged)
	require.Equal(t, "The completion service is busy", apperr.Message(err))
}

func TestService_Generate_ReportsEmptySections(t *testing.T) {
	f := newFixture(t)

	f.generator.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return("Üzgünüm, yardımcı olamam.", nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return("rec.json", nil)

	gen, err := f.svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, []string{
		models.SectionHeadlines, models.SectionBody, models.SectionCTAs, models.SectionSlogans,
	}, gen.EmptySections)
	require.Len(t, gen.Display.Notices, 4)
}

func TestService_Generate_SaveFailure(t *testing.T) {
	f := newFixture(t)

	f.generator.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return(modelResponse, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))

	_, err := f.svc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	require.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestService_AnalyzeSite(t *testing.T) {
	f := newFixture(t)

	f.fetcher.EXPECT().
		Fetch(gomock.Any(), "https://example.com/urun").
		Return(scraper.Page{
			URL:             "https://example.com/urun",
			Title:           "Kahve Dükkanı",
			MetaDescription: "En taze kahve",
			Text:            "Taze çekilmiş kahve çekirdekleri.",
		}, nil)

	var prompt string
	f.analyzer.EXPECT().
		Complete(gomock.Any(), "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, p string) (string, error) {
			prompt = p
			return "Sonuç:\n```json\n" + `{"product_name": "Kahve", "product_description": "Taze kahve", "keywords": ["kahve", "taze"]}` + "\n```", nil
		})

	got, err := f.svc.AnalyzeSite(context.Background(), "  example.com/urun ")
	require.NoError(t, err)
	require.Contains(t, prompt, "Taze çekilmiş kahve çekirdekleri.")
	require.Equal(t, "https://example.com/urun", got.URL)
	require.Equal(t, "Kahve Dükkanı", got.Title)
	require.Equal(t, models.SiteInfo{
		ProductName:        "Kahve",
		ProductDescription: "Taze kahve",
		Keywords:           "kahve, taze",
	}, got.Info)
}

func TestService_AnalyzeSite_PartialIsSuccess(t *testing.T) {
	f := newFixture(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(scraper.Page{Text: "metin"}, nil)
	f.analyzer.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return(`{"product_name": "Kahve"}`, nil)

	got, err := f.svc.AnalyzeSite(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "Kahve", got.Info.ProductName)
	require.Empty(t, got.Info.ProductDescription)
}

func TestService_AnalyzeSite_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com", "http://"} {
		t.Run(raw, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.AnalyzeSite(context.Background(), raw)
			require.Equal(t, apperr.KindValidation, apperr.KindOf(err), "got %v", err)
		})
	}
}

func TestService_AnalyzeSite_FetchFailure(t *testing.T) {
	f := newFixture(t)

	fetchErr := apperr.Wrap(apperr.KindTransport, "The website took too long to respond.", context.DeadlineExceeded)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(scraper.Page{}, fetchErr)

	_, err := f.svc.AnalyzeSite(context.Background(), "https://slow.example.com")
	require.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	require.Equal(t, "The website took too long to respond.", apperr.Message(err))
}

func TestService_AnalyzeSite_NoText(t *testing.T) {
	f := newFixture(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(scraper.Page{Title: "Boş"}, nil)

	_, err := f.svc.AnalyzeSite(context.Background(), "https://example.com")
	require.Equal(t, apperr.KindTransport, apperr.KindOf(err))
}

func TestService_AnalyzeSite_MalformedOutput(t *testing.T) {
	f := newFixture(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(scraper.Page{Text: "metin"}, nil)
	f.analyzer.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return("Bu sayfada ürün yok.", nil)

	_, err := f.svc.AnalyzeSite(context.Background(), "https://example.com")
	require.Equal(t, apperr.KindMalformedOutput, apperr.KindOf(err))
}

func TestService_AnalyzeSite_CompletionFailure(t *testing.T) {
	f := newFixture(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(scraper.Page{Text: "metin"}, nil)
	f.analyzer.EXPECT().Complete(gomock.Any(), "", gomock.Any()).Return("", errors.New("model not found"))

	_, err := f.svc.AnalyzeSite(context.Background(), "https://example.com")
	require.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestService_GenerateImage(t *testing.T) {
	f := newFixture(t)

	want := &imagegen.Result{
		Image:          &imagegen.Image{ContentType: "image/png", Width: 512, Height: 512},
		TranslatedName: "coffee",
		Prompt:         imagegen.ImagePrompt("coffee"),
	}
	f.images.EXPECT().FromProductName(gomock.Any(), "Kahve").Return(want, nil)

	got, err := f.svc.GenerateImage(context.Background(), "Kahve")
	require.NoError(t, err)
	require.Same(t, want, got)

	f.images.EXPECT().FromProductName(gomock.Any(), "Kahve").Return(nil, errors.New("boom"))
	_, err = f.svc.GenerateImage(context.Background(), "Kahve")
	require.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestService_LoadImage(t *testing.T) {
	f := newFixture(t)

	img := &imagegen.Image{ContentType: "image/jpeg", Width: 10, Height: 10}
	f.loader.EXPECT().Load(gomock.Any(), "https://cdn.example.com/a.jpg").Return(img, nil)

	got, err := f.svc.LoadImage(context.Background(), " https://cdn.example.com/a.jpg ")
	require.NoError(t, err)
	require.Same(t, img, got)

	_, err = f.svc.LoadImage(context.Background(), "")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	loadErr := apperr.Unavailable("The image could not be opened as an image.", errors.New("unknown format"))
	f.loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, loadErr)
	_, err = f.svc.LoadImage(context.Background(), "https://cdn.example.com/b.txt")
	require.Equal(t, "The image could not be opened as an image.", apperr.Message(err))
}

func TestService_Outputs(t *testing.T) {
	f := newFixture(t)

	entries := []storage.Entry{{Name: "reklam_metni_20250101_120000.json", CreatedAt: time.Now(), Size: 10}}
	f.store.EXPECT().List(gomock.Any()).Return(entries, nil)

	got, err := f.svc.ListOutputs(context.Background())
	require.NoError(t, err)
	require.Equal(t, entries, got)

	rec := &models.OutputRecord{RawLLMResponse: "raw"}
	f.store.EXPECT().Get(gomock.Any(), "reklam_metni_20250101_120000.json").Return(rec, nil)
	gotRec, err := f.svc.GetOutput(context.Background(), "reklam_metni_20250101_120000.json")
	require.NoError(t, err)
	require.Same(t, rec, gotRec)

	f.store.EXPECT().Get(gomock.Any(), "missing.json").Return(nil, storage.ErrNotFound)
	_, err = f.svc.GetOutput(context.Background(), "missing.json")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.True(t, strings.Contains(err.Error(), "not found"))
}

func TestService_Options(t *testing.T) {
	f := newFixture(t)

	opts := f.svc.Options()
	require.Equal(t, models.Platforms, opts.Platforms)
	require.Equal(t, models.Tones, opts.Tones)
	require.Equal(t, 1, opts.MinItemCount)
	require.Equal(t, 10, opts.MaxItemCount)
	require.Equal(t, 3, opts.DefaultItemCount)
	require.Equal(t, 30, opts.HeadlineMaxChars)
	require.Equal(t, 90, opts.BodyMaxChars)
}

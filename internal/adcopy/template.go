// Package adcopy builds the ad-copy prompt and turns the free-text completion
// it produces back into typed sections.
//
// The prompt and the parser share one contract: four literal section markers
// in a fixed order (headlines, body, CTAs, slogans), dash-bulleted list items,
// and the placeholder wording that sometimes leaks back into the body.
package adcopy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hoanghai1803/adcraft/internal/models"
)

const sectionCount = 4

// Section indexes into a Markers array.
const (
	SectionHeadlines = iota
	SectionBody
	SectionCTAs
	SectionSlogans
)

// Markers are the literal substrings that open each section, in order.
type Markers [sectionCount]string

// DefaultMarkers match the headings emitted by the default template.
var DefaultMarkers = Markers{
	"**1. Reklam Başlıkları",
	"**2. Reklam Gövde Metni",
	"**3. Harekete Geçirici Mesaj",
	"**4. Slogan Önerileri",
}

// Limits are the character maxima checked against headlines and the body.
type Limits struct {
	HeadlineMax int
	BodyMax     int
}

// DefaultLimits mirror the limits most ad platforms enforce for short copy.
var DefaultLimits = Limits{HeadlineMax: 30, BodyMax: 90}

const bodyPlaceholder = "[Gövde Metni]"

const bodyInstructionTmpl = "Ürünün/hizmetin temel özelliklerini ve faydalarını vurgulayan, **KESİNLİKLE %d karakteri geçmeyen** tek bir reklam gövde metni oluştur."

const bodyInstructionPlainTmpl = "Ürünün/hizmetin temel özelliklerini ve faydalarını vurgulayan, %d karakteri geçmeyen tek bir reklam gövde metni oluştur."

// countSuffixPattern matches an echoed "(3 adet):" heading suffix. A numeric
// count needs the trailing colon so quantities in ad copy survive; the
// unfilled "({num_headlines} adet)" form never appears in real copy.
var countSuffixPattern = regexp.MustCompile(`[ \t]*\(\s*(?:\d+\s*adet\s*\)[ \t]*:|\{\{?\w+\}?\}\s*adet\s*\)(?:[ \t]*:)?)(?:\*\*)?`)

const adCopyTmpl = `Sen bir reklam metni yazarı asistanısın. Aşağıdaki bilgilere dayanarak yaratıcı ve etkili reklam metinleri oluştur.
Lütfen tüm sayısal (adet) ve karakter (uzunluk) sınırlamalarına **KESİNLİKLE** uyun.
Lütfen sadece reklam metinlerini ve ilgili başlıkları/sloganları üret, başka açıklama veya giriş/çıkış cümlesi ekleme.
Her bir maddeyi yeni bir satırda ve madde işareti (-) ile başlat.

Ürün/Hizmet Adı: %[1]s
Ürün/Hizmet Açıklaması: %[2]s
Hedef Kitle: %[3]s
Reklam Platformu: %[4]s
Marka Tonu: %[5]s
Anahtar Kelimeler: %[6]s

---
Görev: Yukarıdaki bilgilere göre, aşağıdaki formatta reklam metinleri oluştur:

%[10]s (%[7]d adet):**
Kesinlikle ve yalnızca %[7]d adet farklı ve ilgi çekici reklam başlığı oluştur. Her başlık **KESİNLİKLE %[14]d karakteri geçmemelidir.**
- [Başlık 1]
- [Başlık 2]
...
- [Başlık %[7]d]

%[11]s (1 adet):**
%[15]s
[Gövde Metni]

%[12]s (Call to Action - CTA) Önerileri (%[8]d adet):**
Kesinlikle ve yalnızca %[8]d adet farklı ve etkili harekete geçirici mesaj (CTA) önerisi oluştur.
- [CTA 1]
- [CTA 2]
...
- [CTA %[8]d]

%[13]s (%[9]d adet):**
Kesinlikle ve yalnızca %[9]d adet farklı ve akılda kalıcı slogan önerisi oluştur.
- [Slogan 1]
- [Slogan 2]
...
- [Slogan %[9]d]
`

// Template renders the ad-copy prompt for a request.
type Template struct {
	Markers Markers
	Limits  Limits
}

// NewTemplate returns a template using the default markers.
func NewTemplate(limits Limits) *Template {
	return &Template{Markers: DefaultMarkers, Limits: limits}
}

// Render fills the template with the request fields and the configured
// character maxima.
func (t *Template) Render(req models.GenerationRequest) string {
	return fmt.Sprintf(adCopyTmpl,
		req.ProductName,
		req.ProductDescription,
		req.TargetAudience,
		req.Platform,
		req.Tone,
		req.KeywordString(),
		req.NumHeadlines,
		req.NumCTAs,
		req.NumSlogans,
		t.Markers[SectionHeadlines],
		t.Markers[SectionBody],
		t.Markers[SectionCTAs],
		t.Markers[SectionSlogans],
		t.Limits.HeadlineMax,
		t.bodyInstruction(),
	)
}

func (t *Template) bodyInstruction() string {
	return fmt.Sprintf(bodyInstructionTmpl, t.Limits.BodyMax)
}

// BodyArtifacts returns the literal template text that can leak into the
// body section when the model echoes its instructions.
func (t *Template) BodyArtifacts() []string {
	return []string{
		t.bodyInstruction(),
		fmt.Sprintf(bodyInstructionPlainTmpl, t.Limits.BodyMax),
		bodyPlaceholder,
	}
}

// BodyArtifactPatterns returns the patterns stripped from the body on top of
// the literal artifacts.
func (t *Template) BodyArtifactPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{countSuffixPattern}
}

// CompilePatterns compiles user-supplied artifact patterns.
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling artifact pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

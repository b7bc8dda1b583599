package models

import (
	"fmt"
	"strings"
)

// Platform is the advertising channel the copy is written for.
type Platform string

const (
	PlatformGeneral   Platform = "Genel"
	PlatformGoogleAds Platform = "Google Ads"
	PlatformMeta      Platform = "Facebook/Instagram"
	PlatformTwitter   Platform = "Twitter/X"
	PlatformEmail     Platform = "E-posta Pazarlaması"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformGeneral,
	PlatformGoogleAds,
	PlatformMeta,
	PlatformTwitter,
	PlatformEmail,
}

// Tone is the brand voice requested from the model.
type Tone string

const (
	ToneProfessional Tone = "Profesyonel"
	ToneFriendly     Tone = "Samimi"
	ToneHumorous     Tone = "Mizahi"
	TonePersuasive   Tone = "İkna Edici"
	ToneInformative  Tone = "Bilgilendirici"
	ToneCreative     Tone = "Yaratıcı"
)

// Tones lists every supported tone in display order.
var Tones = []Tone{
	ToneProfessional,
	ToneFriendly,
	ToneHumorous,
	TonePersuasive,
	ToneInformative,
	ToneCreative,
}

// Bounds for the per-section item counts.
const (
	MinItemCount     = 1
	MaxItemCount     = 10
	DefaultItemCount = 3
)

// GenerationRequest carries everything the prompt template needs for one
// ad-copy generation.
type GenerationRequest struct {
	ProductName        string   `json:"product_name"`
	ProductDescription string   `json:"product_description"`
	TargetAudience     string   `json:"target_audience"`
	Platform           Platform `json:"ad_platform"`
	Tone               Tone     `json:"tone_of_voice"`
	Keywords           []string `json:"keywords"`
	NumHeadlines       int      `json:"num_headlines"`
	NumCTAs            int      `json:"num_ctas"`
	NumSlogans         int      `json:"num_slogans"`
}

// Normalize trims free-text fields, drops empty keywords and fills in the
// default platform, tone and counts for zero values.
func (r *GenerationRequest) Normalize() {
	r.ProductName = strings.TrimSpace(r.ProductName)
	r.ProductDescription = strings.TrimSpace(r.ProductDescription)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)

	keywords := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	r.Keywords = keywords

	if r.Platform == "" {
		r.Platform = PlatformGeneral
	}
	if r.Tone == "" {
		r.Tone = ToneProfessional
	}
	if r.NumHeadlines == 0 {
		r.NumHeadlines = DefaultItemCount
	}
	if r.NumCTAs == 0 {
		r.NumCTAs = DefaultItemCount
	}
	if r.NumSlogans == 0 {
		r.NumSlogans = DefaultItemCount
	}
}

// Validate reports the first required field that is missing or out of range.
func (r *GenerationRequest) Validate() error {
	switch {
	case r.ProductName == "":
		return fmt.Errorf("product_name is required")
	case r.ProductDescription == "":
		return fmt.Errorf("product_description is required")
	case r.TargetAudience == "":
		return fmt.Errorf("target_audience is required")
	}

	if !validPlatform(r.Platform) {
		return fmt.Errorf("invalid ad_platform %q", r.Platform)
	}
	if !validTone(r.Tone) {
		return fmt.Errorf("invalid tone_of_voice %q", r.Tone)
	}

	counts := []struct {
		field string
		value int
	}{
		{"num_headlines", r.NumHeadlines},
		{"num_ctas", r.NumCTAs},
		{"num_slogans", r.NumSlogans},
	}
	for _, c := range counts {
		if c.value < MinItemCount || c.value > MaxItemCount {
			return fmt.Errorf("invalid %s %d: must be between %d and %d", c.field, c.value, MinItemCount, MaxItemCount)
		}
	}
	return nil
}

// KeywordString joins the keywords the way the user typed them.
func (r *GenerationRequest) KeywordString() string {
	return strings.Join(r.Keywords, ", ")
}

// SplitKeywords splits a comma-separated keyword string, trimming each entry
// and dropping empty ones. Order is preserved.
func SplitKeywords(s string) []string {
	keywords := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}

func validPlatform(p Platform) bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

func validTone(t Tone) bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

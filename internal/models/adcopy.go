package models

// AdCopyItem is a single parsed headline, CTA or slogan.
type AdCopyItem struct {
	Text      string `json:"text"`
	CharCount int    `json:"char_count"`

	// OverLimit is a display annotation only; it is never persisted.
	OverLimit bool `json:"-"`
}

// BodyText is the single free-text body of the ad.
type BodyText struct {
	Text      string `json:"text"`
	CharCount int    `json:"char_count"`
	OverLimit bool   `json:"-"`
}

// AdCopyResult is the structured form of one model completion.
type AdCopyResult struct {
	Headlines []AdCopyItem `json:"headlines"`
	Body      BodyText     `json:"body"`
	CTAs      []AdCopyItem `json:"ctas"`
	Slogans   []AdCopyItem `json:"slogans"`
}

// Section names used in notices and API responses.
const (
	SectionHeadlines = "headlines"
	SectionBody      = "body"
	SectionCTAs      = "ctas"
	SectionSlogans   = "slogans"
)

// EmptySections returns the names of sections that produced no content, in
// section order.
func (r *AdCopyResult) EmptySections() []string {
	var empty []string
	if len(r.Headlines) == 0 {
		empty = append(empty, SectionHeadlines)
	}
	if r.Body.Text == "" {
		empty = append(empty, SectionBody)
	}
	if len(r.CTAs) == 0 {
		empty = append(empty, SectionCTAs)
	}
	if len(r.Slogans) == 0 {
		empty = append(empty, SectionSlogans)
	}
	return empty
}

// OutputRecord is the JSON document written once per successful generation.
type OutputRecord struct {
	RequestParameters GenerationRequest `json:"request_parameters"`
	GeneratedContent  AdCopyResult      `json:"generated_content"`
	RawLLMResponse    string            `json:"raw_llm_response"`
}

package models

// SiteInfo holds product details extracted from a website. Every field is
// the empty string when extraction fails.
type SiteInfo struct {
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	Keywords           string `json:"keywords"`
}

// Empty reports whether nothing at all was extracted. A partially filled
// SiteInfo counts as a success.
func (s SiteInfo) Empty() bool {
	return s.ProductName == "" && s.ProductDescription == "" && s.Keywords == ""
}

// FormState is the pre-fill state of the input form, carried between user
// actions.
type FormState struct {
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	TargetAudience     string `json:"target_audience"`
	Keywords           string `json:"keywords"`
}

// ApplySiteInfo overwrites the extracted fields of the form state.
func (f *FormState) ApplySiteInfo(info SiteInfo) {
	f.ProductName = info.ProductName
	f.ProductDescription = info.ProductDescription
	f.Keywords = info.Keywords
}

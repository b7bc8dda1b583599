package ai

import (
	"fmt"
	"strings"
)

const siteAnalysisPromptTmpl = `Aşağıdaki web sitesi içeriğini analiz et ve bana aşağıdaki bilgileri JSON formatında döndür.
Sadece JSON çıktısı ver, başka hiçbir açıklama veya ek metin içerme.
Ürün/hizmet adı, açıklaması ve anahtar kelimeler ana web sayfasından çıkarılmalıdır.
Anahtar kelimeler 5-7 adet olmalı ve virgülle ayrılmış olmalıdır.

Web Sitesi İçeriği:
%s

JSON Çıktısı Formatı:
{
    "product_name": "...",
    "product_description": "...",
    "keywords": "anahtar1, anahtar2, ..."
}`

const translatePromptTmpl = "Please translate the following Turkish text to English, provide only the translated text and nothing else:\nTurkish: %s\nEnglish:"

// SiteAnalysisContent assembles the text sent for site analysis from the
// fetched page parts.
func SiteAnalysisContent(title, metaDescription, text string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "Başlık: %s\n", title)
	}
	if metaDescription != "" {
		fmt.Fprintf(&b, "Açıklama: %s\n", metaDescription)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(text)
	return b.String()
}

// SiteAnalysisPrompt builds the prompt that asks for product_name,
// product_description and keywords as a JSON object.
func SiteAnalysisPrompt(content string) string {
	return fmt.Sprintf(siteAnalysisPromptTmpl, content)
}

// TranslatePrompt builds the Turkish to English translation prompt.
func TranslatePrompt(text string) string {
	return fmt.Sprintf(translatePromptTmpl, text)
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks. When prose
// surrounds the object, the outermost {...} span is returned.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if after, found := strings.CutPrefix(s, "```json"); found {
		s = after
	} else if after, found := strings.CutPrefix(s, "```"); found {
		s = after
	}
	if before, found := strings.CutSuffix(strings.TrimSpace(s), "```"); found {
		s = before
	}

	s = strings.TrimSpace(s)
	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// Package providers supplies the OCR, translation, and about-generation
// capabilities the pipeline depends on. The Anthropic-backed variants are
// used when an API key is configured; otherwise deterministic offline
// stubs keep the pipeline runnable without network access.
package providers

import (
	"fmt"
	"image"
	"os"

	"github.com/jjanczyszyn/cards/internal/about"
	"github.com/jjanczyszyn/cards/internal/ocr"
	"github.com/jjanczyszyn/cards/internal/translation"
)

// StubOCRText is the marker text the offline OCR stub returns. The
// pipeline treats it as "no text extracted".
const StubOCRText = "[OCR not available]"

// Set bundles the three capabilities the pipeline needs.
type Set struct {
	OCR        ocr.Provider
	Translator translation.Translator
	About      about.Generator
}

// FromEnvironment selects provider implementations at startup: the
// Anthropic API when ANTHROPIC_API_KEY is set, offline stubs otherwise.
func FromEnvironment() *Set {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return &Set{
			OCR:        &StubOCR{},
			Translator: &PassthroughTranslator{},
			About:      &StubAboutGenerator{},
		}
	}
	client := newAnthropicClient(apiKey)
	return &Set{
		OCR:        &AnthropicOCR{client: client},
		Translator: &AnthropicTranslator{client: client},
		About:      &AnthropicAboutGenerator{client: client},
	}
}

// StubOCR is the offline OCR provider; it extracts nothing.
type StubOCR struct{}

// Recognize implements ocr.Provider.
func (p *StubOCR) Recognize(img image.Image) (ocr.Result, error) {
	return ocr.Result{Text: StubOCRText, Confidence: 0}, nil
}

// PassthroughTranslator tags text with the target language instead of
// translating it.
type PassthroughTranslator struct{}

// Translate implements translation.Translator.
func (p *PassthroughTranslator) Translate(text, targetLang string) (string, error) {
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}

// StubAboutGenerator returns a fixed deck description.
type StubAboutGenerator struct{}

// Generate implements about.Generator.
func (p *StubAboutGenerator) Generate(cardTexts []string, language string) (string, error) {
	return about.DefaultAbout, nil
}

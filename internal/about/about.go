// Package about resolves the bilingual description of a deck, preferring
// author-provided about files and falling back to generated summaries.
package about

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jjanczyszyn/cards/internal/translation"
)

// Generator produces a short deck summary from sample card texts in the
// given language.
type Generator interface {
	Generate(cardTexts []string, language string) (string, error)
}

// TranslateFunc translates text into a target language.
type TranslateFunc func(text, targetLang string) (string, error)

// DefaultAbout is used when a deck has no about files and no card text to
// summarize.
const DefaultAbout = "A collection of cards for reflection and conversation."

// LoadAboutTexts reads about texts from a deck directory. Preference
// order: the about.en.txt + about.es.txt pair, then a single about.txt
// whose language is auto-detected. Either or both results may be empty.
func LoadAboutTexts(deckDir string) (en, es string, err error) {
	read := func(name string) (string, error) {
		data, err := os.ReadFile(filepath.Join(deckDir, name))
		if os.IsNotExist(err) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", name, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if en, err = read("about.en.txt"); err != nil {
		return "", "", err
	}
	if es, err = read("about.es.txt"); err != nil {
		return "", "", err
	}

	if en == "" && es == "" {
		text, err := read("about.txt")
		if err != nil {
			return "", "", err
		}
		if text != "" {
			if translation.DetectLanguage([]string{text}) == "es" {
				es = text
			} else {
				en = text
			}
		}
	}

	return en, es, nil
}

// GenerateAboutText summarizes a deck from its card texts in the given
// language, or returns the default summary when there is nothing to
// summarize.
func GenerateAboutText(cardTexts []string, language string, generator Generator) (string, error) {
	if len(cardTexts) == 0 {
		return DefaultAbout, nil
	}
	return generator.Generate(cardTexts, language)
}

// ResolveAbout produces the (english, spanish) about texts for a deck:
// loaded from files when present, with the missing side translated, or
// generated from card texts and then translated.
func ResolveAbout(deckDir string, cardTexts []string, sourceLang string, translate TranslateFunc, generator Generator) (string, string, error) {
	en, es, err := LoadAboutTexts(deckDir)
	if err != nil {
		return "", "", err
	}

	switch {
	case en != "" && es != "":
		return en, es, nil
	case en != "":
		es, err = translate(en, "es")
		return en, es, err
	case es != "":
		en, err = translate(es, "en")
		return en, es, err
	}

	generated, err := GenerateAboutText(cardTexts, sourceLang, generator)
	if err != nil {
		return "", "", err
	}
	if sourceLang == "en" {
		es, err = translate(generated, "es")
		return generated, es, err
	}
	en, err = translate(generated, "en")
	return en, generated, err
}

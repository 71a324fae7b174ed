// Package translation keeps card text bilingual: it detects the source
// language of a deck and fills in the missing English or Spanish side
// through a pluggable translator, caching every translation on disk.
package translation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Translator translates text into a target language ("en" or "es").
type Translator interface {
	Translate(text, targetLang string) (string, error)
}

// Cache is a directory-backed store of translations keyed by
// (text hash, target language). Values are plain UTF-8 text files.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating translation cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(textHash, targetLang string) string {
	return filepath.Join(c.dir, textHash+"_"+targetLang+".txt")
}

// Get returns the cached translation, or ("", false) on a miss.
func (c *Cache) Get(textHash, targetLang string) (string, bool, error) {
	data, err := os.ReadFile(c.path(textHash, targetLang))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading translation cache entry: %w", err)
	}
	return string(data), true, nil
}

// Put stores a translation.
func (c *Cache) Put(textHash, targetLang, translated string) error {
	if err := os.WriteFile(c.path(textHash, targetLang), []byte(translated), 0644); err != nil {
		return fmt.Errorf("error writing translation cache entry: %w", err)
	}
	return nil
}

// TextHash returns the cache key for a source text.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// spanishIndicators are common Spanish words used by the language
// detection heuristic.
var spanishIndicators = map[string]bool{
	"que": true, "de": true, "el": true, "la": true, "los": true,
	"las": true, "un": true, "una": true, "es": true, "en": true,
	"por": true, "con": true, "para": true, "como": true, "tu": true,
	"te": true, "mi": true, "su": true, "nos": true,
}

// DetectLanguage classifies text samples as primarily English ("en") or
// Spanish ("es") using a word-frequency heuristic: more than 15% Spanish
// indicator words means Spanish. Empty input defaults to English.
func DetectLanguage(samples []string) string {
	spanishScore := 0
	totalWords := 0

	for _, sample := range samples {
		for _, word := range strings.Fields(strings.ToLower(sample)) {
			clean := strings.Trim(word, ".,;:!?()\"'")
			totalWords++
			if spanishIndicators[clean] {
				spanishScore++
			}
		}
	}

	if totalWords == 0 {
		return "en"
	}
	if float64(spanishScore)/float64(totalWords) > 0.15 {
		return "es"
	}
	return "en"
}

// Translate translates text to the target language through the cache.
func Translate(text, targetLang string, cache *Cache, translator Translator) (string, error) {
	th := TextHash(text)
	if cached, ok, err := cache.Get(th, targetLang); err != nil {
		return "", err
	} else if ok {
		return cached, nil
	}

	translated, err := translator.Translate(text, targetLang)
	if err != nil {
		return "", err
	}
	if err := cache.Put(th, targetLang, translated); err != nil {
		return "", err
	}
	return translated, nil
}

// EnsureBilingual returns (english, spanish) versions of text, translating
// whichever side the source language does not already cover.
func EnsureBilingual(text, sourceLang string, cache *Cache, translator Translator) (string, string, error) {
	if sourceLang == "en" {
		translated, err := Translate(text, "es", cache, translator)
		if err != nil {
			return "", "", err
		}
		return text, translated, nil
	}
	translated, err := Translate(text, "en", cache, translator)
	if err != nil {
		return "", "", err
	}
	return translated, text, nil
}

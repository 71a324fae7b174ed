// Package pipeline orchestrates the full build: discover decks, segment
// sheets, OCR card crops, classify colors, fill in the missing language,
// resolve about texts, and write the JSON artifacts the website consumes.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jjanczyszyn/cards/internal/about"
	"github.com/jjanczyszyn/cards/internal/classify"
	"github.com/jjanczyszyn/cards/internal/discovery"
	"github.com/jjanczyszyn/cards/internal/imaging"
	"github.com/jjanczyszyn/cards/internal/manifest"
	"github.com/jjanczyszyn/cards/internal/ocr"
	"github.com/jjanczyszyn/cards/internal/providers"
	"github.com/jjanczyszyn/cards/internal/schema"
	"github.com/jjanczyszyn/cards/internal/segmentation"
	"github.com/jjanczyszyn/cards/internal/translation"
)

// ErrNoDecks is returned by Run when discovery finds no image-bearing
// deck directories.
var ErrNoDecks = errors.New("no decks with images found")

// Builder runs the data pipeline over a decks directory.
type Builder struct {
	DecksDir string
	DataDir  string

	OCRCache         *ocr.Cache
	TranslationCache *translation.Cache
	Providers        *providers.Set

	// Progress receives human-readable progress lines; nil disables
	// reporting.
	Progress func(format string, args ...any)
}

func (b *Builder) report(format string, args ...any) {
	if b.Progress != nil {
		b.Progress(format, args...)
	}
}

// Run executes the full pipeline and writes index.json, per-deck data
// files, and the deck manifest under DataDir.
func (b *Builder) Run() error {
	b.report("Discovering decks...")
	index, err := discovery.DiscoverDecks(b.DecksDir)
	if err != nil {
		return err
	}
	leaves := discovery.CollectLeafNodes(index.Decks)
	if len(leaves) == 0 {
		return ErrNoDecks
	}
	b.report("Found %d leaf deck(s)", len(leaves))

	for _, node := range leaves {
		deckData, err := b.processLeafDeck(node)
		if err != nil {
			return fmt.Errorf("error processing deck %s: %w", node.ID, err)
		}
		outputPath := filepath.Join(b.DataDir, filepath.FromSlash(node.DataFile))
		if err := writeJSON(outputPath, deckData); err != nil {
			return err
		}
		b.report("  Wrote %s", outputPath)
	}

	indexPath := filepath.Join(b.DataDir, "index.json")
	if err := writeJSON(indexPath, index); err != nil {
		return err
	}
	b.report("Wrote %s", indexPath)

	m, err := manifest.Generate(b.DecksDir)
	if err != nil {
		return err
	}
	manifestPath := filepath.Join(b.DataDir, manifest.FileName)
	if err := manifest.Write(m, manifestPath); err != nil {
		return err
	}
	b.report("Wrote %s", manifestPath)

	return nil
}

// processLeafDeck builds the output record for one leaf deck: segment
// each sheet, OCR every crop, classify colors, then make the card texts
// and about text bilingual.
func (b *Builder) processLeafDeck(node *schema.DeckNode) (*schema.LeafDeckData, error) {
	deckDir := filepath.Join(b.DecksDir, filepath.FromSlash(node.ID))
	images, err := discovery.ListImages(deckDir)
	if err != nil {
		return nil, err
	}
	b.report("  Processing %s: %d image(s)", node.ID, len(images))

	var cards []schema.Card
	cardIdx := 0

	for _, imgPath := range images {
		bboxes, err := segmentation.SegmentSheet(imgPath, deckDir)
		if err != nil {
			var segErr *segmentation.SegmentationError
			if !errors.As(err, &segErr) {
				return nil, err
			}
			// Documented fallback: treat the whole sheet as a single card.
			b.report("    Warning: %v", err)
			w, h, err := imaging.Dimensions(imgPath)
			if err != nil {
				return nil, err
			}
			bboxes = []segmentation.BBox{{X: 0, Y: 0, W: w, H: h}}
		}

		for _, bbox := range bboxes {
			result, err := ocr.RecognizeCrop(imgPath, bbox, b.OCRCache, b.Providers.OCR)
			if err != nil {
				return nil, err
			}
			if result.Text == "" || result.Text == providers.StubOCRText {
				cardIdx++
				continue
			}

			sheet, err := imaging.Decode(imgPath)
			if err != nil {
				return nil, err
			}
			crop := imaging.Crop(sheet, bbox.X, bbox.Y, bbox.W, bbox.H)

			card, err := schema.NewCard(fmt.Sprintf("%s/%d", node.ID, cardIdx), result.Text, result.Text)
			if err != nil {
				return nil, err
			}
			card.Color = classify.Color(crop)
			cards = append(cards, card)
			cardIdx++
		}
	}

	sourceLang := "en"
	if len(cards) > 0 {
		samples := make([]string, 0, 5)
		for _, c := range cards {
			samples = append(samples, c.TextEN)
			if len(samples) == 5 {
				break
			}
		}
		sourceLang = translation.DetectLanguage(samples)
		b.report("    Detected language: %s", sourceLang)

		for i := range cards {
			en, es, err := translation.EnsureBilingual(cards[i].TextEN, sourceLang, b.TranslationCache, b.Providers.Translator)
			if err != nil {
				return nil, err
			}
			cards[i].TextEN = en
			cards[i].TextES = es
		}
	}

	cardTexts := make([]string, len(cards))
	for i, c := range cards {
		cardTexts[i] = c.TextEN
	}
	translate := func(text, targetLang string) (string, error) {
		return translation.Translate(text, targetLang, b.TranslationCache, b.Providers.Translator)
	}
	aboutEN, aboutES, err := about.ResolveAbout(deckDir, cardTexts, sourceLang, translate, b.Providers.About)
	if err != nil {
		return nil, err
	}

	colors := distinct(cards, func(c schema.Card) string { return c.Color })
	symbols := distinct(cards, func(c schema.Card) string { return c.Symbol })

	if len(cards) == 0 {
		placeholder, err := schema.NewCard(
			node.ID+"/0",
			"(No text extracted from this card)",
			"(No se extrajo texto de esta carta)",
		)
		if err != nil {
			return nil, err
		}
		cards = []schema.Card{placeholder}
	}

	deckData, err := schema.NewLeafDeckData(node.ID, node.Name, cards)
	if err != nil {
		return nil, err
	}
	deckData.AboutEN = aboutEN
	deckData.AboutES = aboutES
	deckData.Colors = colors
	deckData.Symbols = symbols
	return deckData, nil
}

// distinct collects the sorted set of non-empty values of one card field.
func distinct(cards []schema.Card, field func(schema.Card) string) []string {
	seen := map[string]bool{}
	for _, c := range cards {
		if v := field(c); v != "" {
			seen[v] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// writeJSON marshals v as indented JSON into path, creating parent
// directories as needed.
func writeJSON(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jjanczyszyn/cards/internal/ocr"
	"github.com/jjanczyszyn/cards/internal/providers"
	"github.com/jjanczyszyn/cards/internal/schema"
	"github.com/jjanczyszyn/cards/internal/translation"
)

type fakeOCR struct {
	text  string
	calls int
}

func (f *fakeOCR) Recognize(img image.Image) (ocr.Result, error) {
	f.calls++
	return ocr.Result{Text: f.text, Confidence: 0.9}, nil
}

type fakeTranslator struct{}

func (fakeTranslator) Translate(text, targetLang string) (string, error) {
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}

type fakeAbout struct{}

func (fakeAbout) Generate(cardTexts []string, language string) (string, error) {
	return "a test deck", nil
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
}

func newTestBuilder(t *testing.T, decksDir, dataDir string, ocrProvider ocr.Provider) *Builder {
	t.Helper()
	ocrCache, err := ocr.NewCache(filepath.Join(t.TempDir(), "ocr"))
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	translationCache, err := translation.NewCache(filepath.Join(t.TempDir(), "translation"))
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	return &Builder{
		DecksDir:         decksDir,
		DataDir:          dataDir,
		OCRCache:         ocrCache,
		TranslationCache: translationCache,
		Providers: &providers.Set{
			OCR:        ocrProvider,
			Translator: fakeTranslator{},
			About:      fakeAbout{},
		},
	}
}

func TestRunNoDecks(t *testing.T) {
	b := newTestBuilder(t, t.TempDir(), t.TempDir(), &fakeOCR{})
	if err := b.Run(); !errors.Is(err, ErrNoDecks) {
		t.Fatalf("expected ErrNoDecks, got %v", err)
	}
}

func TestRunGridDeck(t *testing.T) {
	decks := t.TempDir()
	data := t.TempDir()
	deckDir := filepath.Join(decks, "questions")
	writePNG(t, filepath.Join(deckDir, "sheet.png"), 200, 200)
	if err := os.WriteFile(filepath.Join(deckDir, "deck.config.json"), []byte(`{"grid": [2, 2]}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	provider := &fakeOCR{text: "What makes you happy"}
	b := newTestBuilder(t, decks, data, provider)
	if err := b.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if provider.calls != 4 {
		t.Errorf("OCR called %d times, want 4 (one per grid cell)", provider.calls)
	}

	payload, err := os.ReadFile(filepath.Join(data, "decks", "questions.json"))
	if err != nil {
		t.Fatalf("deck data file not written: %v", err)
	}
	var deckData schema.LeafDeckData
	if err := json.Unmarshal(payload, &deckData); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(deckData.Cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(deckData.Cards))
	}
	first := deckData.Cards[0]
	if first.ID != "questions/0" {
		t.Errorf("card id = %q, want questions/0", first.ID)
	}
	if first.TextEN != "What makes you happy" {
		t.Errorf("text_en = %q", first.TextEN)
	}
	if first.TextES != "[es] What makes you happy" {
		t.Errorf("text_es = %q", first.TextES)
	}
	if first.Color == "" {
		t.Error("cards must carry a classified color")
	}
	if deckData.AboutEN != "a test deck" {
		t.Errorf("about_en = %q", deckData.AboutEN)
	}
	if deckData.AboutES != "[es] a test deck" {
		t.Errorf("about_es = %q", deckData.AboutES)
	}
	if len(deckData.Colors) == 0 {
		t.Error("deck must list its distinct colors")
	}

	if _, err := os.Stat(filepath.Join(data, "index.json")); err != nil {
		t.Errorf("index.json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(data, "deck-manifest.json")); err != nil {
		t.Errorf("deck-manifest.json not written: %v", err)
	}
}

func TestRunFallsBackToWholeSheet(t *testing.T) {
	decks := t.TempDir()
	data := t.TempDir()
	writePNG(t, filepath.Join(decks, "plain", "sheet.png"), 120, 80)

	provider := &fakeOCR{text: "Only card"}
	b := newTestBuilder(t, decks, data, provider)
	if err := b.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("OCR called %d times, want 1 (whole sheet as one card)", provider.calls)
	}

	payload, err := os.ReadFile(filepath.Join(data, "decks", "plain.json"))
	if err != nil {
		t.Fatalf("deck data file not written: %v", err)
	}
	var deckData schema.LeafDeckData
	if err := json.Unmarshal(payload, &deckData); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(deckData.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(deckData.Cards))
	}
}

func TestRunPlaceholderWhenNoTextExtracted(t *testing.T) {
	decks := t.TempDir()
	data := t.TempDir()
	writePNG(t, filepath.Join(decks, "blank", "sheet.png"), 50, 50)

	b := newTestBuilder(t, decks, data, &fakeOCR{text: ""})
	if err := b.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	payload, err := os.ReadFile(filepath.Join(data, "decks", "blank.json"))
	if err != nil {
		t.Fatalf("deck data file not written: %v", err)
	}
	var deckData schema.LeafDeckData
	if err := json.Unmarshal(payload, &deckData); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(deckData.Cards) != 1 {
		t.Fatalf("expected the placeholder card, got %d cards", len(deckData.Cards))
	}
	if deckData.Cards[0].TextEN != "(No text extracted from this card)" {
		t.Errorf("placeholder text_en = %q", deckData.Cards[0].TextEN)
	}
	if deckData.Cards[0].TextES != "(No se extrajo texto de esta carta)" {
		t.Errorf("placeholder text_es = %q", deckData.Cards[0].TextES)
	}
}

func TestRunUsesAboutFiles(t *testing.T) {
	decks := t.TempDir()
	data := t.TempDir()
	deckDir := filepath.Join(decks, "described")
	writePNG(t, filepath.Join(deckDir, "sheet.png"), 50, 50)
	if err := os.WriteFile(filepath.Join(deckDir, "about.en.txt"), []byte("Hand written about"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := newTestBuilder(t, decks, data, &fakeOCR{text: "Card"})
	if err := b.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	payload, err := os.ReadFile(filepath.Join(data, "decks", "described.json"))
	if err != nil {
		t.Fatalf("deck data file not written: %v", err)
	}
	var deckData schema.LeafDeckData
	if err := json.Unmarshal(payload, &deckData); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if deckData.AboutEN != "Hand written about" {
		t.Errorf("about_en = %q, want the file content", deckData.AboutEN)
	}
	if deckData.AboutES != "[es] Hand written about" {
		t.Errorf("about_es = %q, want the translated file content", deckData.AboutES)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jjanczyszyn/cards/internal/config"
	"github.com/jjanczyszyn/cards/internal/ocr"
	"github.com/jjanczyszyn/cards/internal/pipeline"
	"github.com/jjanczyszyn/cards/internal/providers"
	"github.com/jjanczyszyn/cards/internal/translation"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the deck data artifacts from sheet images",
	Long: `Build runs the full data pipeline: it discovers decks, segments their
sheet images into cards, extracts and translates card text, and writes
index.json, per-deck JSON files, and the deck manifest to the data directory.

OCR, translation, and about-text generation use the Anthropic API when
ANTHROPIC_API_KEY is set, and offline stubs otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfg.DecksDir); os.IsNotExist(err) {
			fmt.Printf("Error: %s directory not found.\n", cfg.DecksDir)
			fmt.Println("Place your deck images in ./decks/ and try again.")
			return fmt.Errorf("decks directory not found: %s", cfg.DecksDir)
		}

		ocrCache, err := ocr.NewCache(cfg.OCRCacheDir())
		if err != nil {
			return err
		}
		translationCache, err := translation.NewCache(cfg.TranslationCacheDir())
		if err != nil {
			return err
		}

		builder := &pipeline.Builder{
			DecksDir:         cfg.DecksDir,
			DataDir:          cfg.DataDir,
			OCRCache:         ocrCache,
			TranslationCache: translationCache,
			Providers:        providers.FromEnvironment(),
			Progress: func(format string, args ...any) {
				fmt.Printf(format+"\n", args...)
			},
		}

		if err := builder.Run(); err != nil {
			if errors.Is(err, pipeline.ErrNoDecks) {
				fmt.Println("No decks with images found.")
			}
			return err
		}

		color.Green("Done!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cards",
	Short: "Tool for building bilingual card deck data from sheet photos",
	Long: `Cards converts photographed sheets of physical cards into a bilingual,
structured JSON dataset for a static website. It discovers deck directories,
splits sheet images into per-card regions, extracts text via OCR, and produces
per-deck JSON files plus a navigable index and a staleness manifest.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jjanczyszyn/cards/internal/config"
	"github.com/jjanczyszyn/cards/internal/manifest"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check committed deck data for staleness",
	Long: `Check compares the current deck directories against the committed
deck-manifest.json and reports decks whose generated data is out of date.
It exits non-zero when anything is stale, so it can gate CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfg.DecksDir); os.IsNotExist(err) {
			fmt.Printf("No local %s directory found. Skipping staleness check.\n", cfg.DecksDir)
			fmt.Println("(This is expected in CI where source images are not available.)")
			return nil
		}

		result, err := manifest.CheckStaleness(cfg.DecksDir, cfg.DataDir)
		if err != nil {
			return err
		}

		if result.IsFresh() {
			color.Green("All deck data is up to date.")
			return nil
		}

		printStalenessReport(result)
		fmt.Println()
		fmt.Println("Run 'cards build' to regenerate artifacts.")
		return fmt.Errorf("deck data is stale")
	},
}

// printStalenessReport renders the per-deck findings; as a table on a
// terminal, as plain lines otherwise.
func printStalenessReport(result *manifest.StalenessResult) {
	rows := [][2]string{}
	for _, id := range result.NewDecks {
		rows = append(rows, [2]string{id, "new, needs processing"})
	}
	for _, id := range result.ChangedDecks {
		rows = append(rows, [2]string{id, "changed, needs reprocessing"})
	}
	for _, id := range result.RemovedDecks {
		rows = append(rows, [2]string{id, "removed, still in manifest"})
	}
	for _, id := range result.MissingDataFiles {
		rows = append(rows, [2]string{id, "data file missing"})
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, row := range rows {
			fmt.Printf("STALE: %s: %s\n", row[0], row[1])
		}
		return
	}

	color.Red("Deck data is stale:")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Deck", "Status"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.Render()
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jjanczyszyn/cards/internal/config"
	"github.com/jjanczyszyn/cards/internal/discovery"
	"github.com/jjanczyszyn/cards/internal/schema"
	"github.com/spf13/cobra"
)

// decksCmd represents the decks command group
var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Inspect the deck directories the pipeline would process",
}

// decksListCmd represents the decks ls command
var decksListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List discovered decks as a tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		index, err := discovery.DiscoverDecks(cfg.DecksDir)
		if err != nil {
			return err
		}

		if len(index.Decks) == 0 {
			fmt.Printf("No decks found under %s.\n", cfg.DecksDir)
			fmt.Println("You can add decks by creating directories of sheet images there.")
			return nil
		}

		for _, node := range index.Decks {
			printNode(node, 0)
		}

		leaves := discovery.CollectLeafNodes(index.Decks)
		fmt.Printf("\n%d leaf deck(s)\n", len(leaves))
		return nil
	},
}

// printNode prints one tree node and recurses into its children.
func printNode(node *schema.DeckNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if node.IsLeaf {
		fmt.Printf("%s%s (%s) -> %s\n", indent, color.CyanString(node.Name), node.ID, node.DataFile)
	} else {
		fmt.Printf("%s%s (%s)\n", indent, node.Name, node.ID)
	}
	for _, child := range node.Children {
		printNode(child, depth+1)
	}
}

func init() {
	RootCmd.AddCommand(decksCmd)
	decksCmd.AddCommand(decksListCmd)
}

// Package discovery scans the deck directory tree and builds the deck index.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jjanczyszyn/cards/internal/schema"
)

// SupportedImageExtensions lists the sheet image formats the pipeline
// recognizes, lowercase with leading dot.
var SupportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
}

// IsImageFile reports whether a file name has a supported image extension.
func IsImageFile(name string) bool {
	return SupportedImageExtensions[strings.ToLower(filepath.Ext(name))]
}

// DeckIDToFilename converts a deck id (path-like) to its JSON data file
// path under decks/.
func DeckIDToFilename(deckID string) string {
	return "decks/" + strings.ReplaceAll(deckID, "/", "--") + ".json"
}

// dirNameToDisplay converts a directory name to a display name.
func dirNameToDisplay(name string) string {
	s := strings.ReplaceAll(name, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// hasImages reports whether a directory directly contains any supported
// image files.
func hasImages(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if !entry.IsDir() && IsImageFile(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// ListImages returns the supported image files directly inside a deck
// directory, sorted by name ascending.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, entry := range entries {
		if !entry.IsDir() && IsImageFile(entry.Name()) {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// buildTree recursively builds a DeckNode for a directory. It returns nil
// when the directory and all of its descendants contain no images, so
// image-free subtrees are pruned rather than emitted as empty nodes.
func buildTree(dir, basePath string) (*schema.DeckNode, error) {
	rel, err := filepath.Rel(basePath, dir)
	if err != nil {
		return nil, err
	}
	deckID := filepath.ToSlash(rel)
	displayName := dirNameToDisplay(filepath.Base(dir))

	hasOwnImages, err := hasImages(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	// os.ReadDir already sorts by name; the output order relies on it.
	var children []*schema.DeckNode
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child, err := buildTree(filepath.Join(dir, entry.Name()), basePath)
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}

	if !hasOwnImages && len(children) == 0 {
		return nil, nil
	}

	dataFile := ""
	if hasOwnImages {
		dataFile = DeckIDToFilename(deckID)
	}
	return schema.NewDeckNode(deckID, displayName, hasOwnImages, dataFile, children)
}

// DiscoverDecks discovers all decks under decksDir and returns the deck
// tree index. A nonexistent root yields an empty index, not an error.
func DiscoverDecks(decksDir string) (*schema.DeckTreeIndex, error) {
	info, err := os.Stat(decksDir)
	if err != nil || !info.IsDir() {
		return &schema.DeckTreeIndex{Decks: []*schema.DeckNode{}}, nil
	}

	entries, err := os.ReadDir(decksDir)
	if err != nil {
		return nil, err
	}

	topLevel := []*schema.DeckNode{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		node, err := buildTree(filepath.Join(decksDir, entry.Name()), decksDir)
		if err != nil {
			return nil, err
		}
		if node != nil {
			topLevel = append(topLevel, node)
		}
	}

	return &schema.DeckTreeIndex{Decks: topLevel}, nil
}

// CollectLeafNodes returns every leaf node in the tree, in discovery order.
func CollectLeafNodes(nodes []*schema.DeckNode) []*schema.DeckNode {
	var result []*schema.DeckNode
	for _, node := range nodes {
		if node.IsLeaf {
			result = append(result, node)
		}
		if len(node.Children) > 0 {
			result = append(result, CollectLeafNodes(node.Children)...)
		}
	}
	return result
}

// Package schema defines the JSON artifacts produced by the pipeline and
// consumed by the website frontend.
package schema

import (
	"fmt"
	"strings"
)

// Card is a single card with bilingual text and optional categories.
type Card struct {
	ID     string `json:"id"`
	TextEN string `json:"text_en"`
	TextES string `json:"text_es"`
	Color  string `json:"color,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// NewCard builds a Card, rejecting blank ids.
func NewCard(id, textEN, textES string) (Card, error) {
	if strings.TrimSpace(id) == "" {
		return Card{}, fmt.Errorf("card id must not be empty")
	}
	return Card{ID: id, TextEN: textEN, TextES: textES}, nil
}

// LeafDeckData is the full data for a leaf deck, written as an individual
// JSON file under decks/.
type LeafDeckData struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cards   []Card   `json:"cards"`
	AboutEN string   `json:"about_en,omitempty"`
	AboutES string   `json:"about_es,omitempty"`
	Colors  []string `json:"colors,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

// NewLeafDeckData builds a LeafDeckData, rejecting empty card lists.
func NewLeafDeckData(id, name string, cards []Card) (*LeafDeckData, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("deck id must not be empty")
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("deck %s must contain at least one card", id)
	}
	return &LeafDeckData{ID: id, Name: name, Cards: cards}, nil
}

// DeckNode is a node in the deck selection tree (index.json). A node may
// be both a leaf (has its own images) and a branch (has children); the two
// flags are independent.
type DeckNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	IsLeaf   bool        `json:"is_leaf"`
	DataFile string      `json:"data_file,omitempty"`
	Children []*DeckNode `json:"children,omitempty"`
}

// NewDeckNode builds a DeckNode, enforcing that leaf nodes carry a data file.
func NewDeckNode(id, name string, isLeaf bool, dataFile string, children []*DeckNode) (*DeckNode, error) {
	if isLeaf && dataFile == "" {
		return nil, fmt.Errorf("leaf node %s must have a data_file", id)
	}
	return &DeckNode{ID: id, Name: name, IsLeaf: isLeaf, DataFile: dataFile, Children: children}, nil
}

// DeckTreeIndex is the top-level index.json listing the full deck tree.
type DeckTreeIndex struct {
	Decks []*DeckNode `json:"decks"`
}

// DeckManifestEntry is one entry in the deck manifest tracking source
// fingerprints.
type DeckManifestEntry struct {
	DeckID      string `json:"deck_id"`
	Fingerprint string `json:"fingerprint"`
	DataFile    string `json:"data_file"`
}

// NewDeckManifestEntry builds a manifest entry, rejecting missing fields.
func NewDeckManifestEntry(deckID, fingerprint, dataFile string) (DeckManifestEntry, error) {
	if deckID == "" {
		return DeckManifestEntry{}, fmt.Errorf("manifest entry is missing deck_id")
	}
	if fingerprint == "" {
		return DeckManifestEntry{}, fmt.Errorf("manifest entry for %s is missing fingerprint", deckID)
	}
	if dataFile == "" {
		return DeckManifestEntry{}, fmt.Errorf("manifest entry for %s is missing data_file", deckID)
	}
	return DeckManifestEntry{DeckID: deckID, Fingerprint: fingerprint, DataFile: dataFile}, nil
}

// DeckManifest tracks all leaf decks and their source fingerprints. It is
// the persisted baseline for staleness detection.
type DeckManifest struct {
	Entries []DeckManifestEntry `json:"entries"`
}

// Package manifest computes deck content fingerprints and detects stale
// generated data.
//
// Each leaf deck gets a SHA-256 fingerprint over its content-bearing files
// (sheet images plus the config and about files). The fingerprints are
// persisted as deck-manifest.json alongside the generated data and compared
// against a fresh scan to decide what needs regenerating.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/jjanczyszyn/cards/internal/discovery"
	"github.com/jjanczyszyn/cards/internal/schema"
)

// FileName is the manifest artifact committed alongside generated data.
const FileName = "deck-manifest.json"

// fingerprintExtras are the non-image files that contribute to a deck's
// fingerprint.
var fingerprintExtras = map[string]bool{
	"deck.config.json": true,
	"about.txt":        true,
	"about.en.txt":     true,
	"about.es.txt":     true,
}

// ComputeDeckFingerprint computes a SHA-256 fingerprint over a leaf deck
// directory. It hashes (name, content) of every directly contained image
// and extras file, sorted by name so the digest is independent of
// filesystem iteration order. Other files never affect the digest, and
// subdirectories are not traversed.
func ComputeDeckFingerprint(deckDir string) (string, error) {
	entries, err := os.ReadDir(deckDir)
	if err != nil {
		return "", fmt.Errorf("error reading deck directory %s: %w", deckDir, err)
	}

	var relevant []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if discovery.IsImageFile(name) || fingerprintExtras[name] {
			relevant = append(relevant, name)
		}
	}
	sort.Strings(relevant)

	h := sha256.New()
	for _, name := range relevant {
		h.Write([]byte(name))
		f, err := os.Open(filepath.Join(deckDir, name))
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", name, err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("error hashing %s: %w", name, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Generate discovers all leaf decks under decksDir and fingerprints each
// one into a fresh manifest.
func Generate(decksDir string) (*schema.DeckManifest, error) {
	index, err := discovery.DiscoverDecks(decksDir)
	if err != nil {
		return nil, err
	}

	m := &schema.DeckManifest{Entries: []schema.DeckManifestEntry{}}
	for _, node := range discovery.CollectLeafNodes(index.Decks) {
		fp, err := ComputeDeckFingerprint(filepath.Join(decksDir, filepath.FromSlash(node.ID)))
		if err != nil {
			return nil, err
		}
		entry, err := schema.NewDeckManifestEntry(node.ID, fp, discovery.DeckIDToFilename(node.ID))
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, entry)
	}
	return m, nil
}

// Load reads a persisted manifest. A missing file yields an empty
// manifest, not an error: the baseline simply does not exist yet.
func Load(path string) (*schema.DeckManifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &schema.DeckManifest{Entries: []schema.DeckManifestEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading manifest %s: %w", path, err)
	}
	var m schema.DeckManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Write persists a manifest as indented JSON, creating parent directories
// as needed.
func Write(m *schema.DeckManifest, path string) error {
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating manifest directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("error writing manifest %s: %w", path, err)
	}
	return nil
}

// StalenessResult classifies decks by how they differ from the committed
// baseline.
type StalenessResult struct {
	NewDecks         []string
	ChangedDecks     []string
	RemovedDecks     []string
	MissingDataFiles []string
}

// IsFresh reports whether the generated data matches current deck content.
func (r *StalenessResult) IsFresh() bool {
	return len(r.NewDecks) == 0 &&
		len(r.ChangedDecks) == 0 &&
		len(r.RemovedDecks) == 0 &&
		len(r.MissingDataFiles) == 0
}

// CheckStaleness compares the current deck state under decksDir against
// the manifest committed in dataDir. Missing data files are only reported
// for decks whose fingerprint still matches; new and changed decks imply
// regeneration anyway.
func CheckStaleness(decksDir, dataDir string) (*StalenessResult, error) {
	current, err := Generate(decksDir)
	if err != nil {
		return nil, err
	}
	committed, err := Load(filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}

	committedByID := make(map[string]schema.DeckManifestEntry, len(committed.Entries))
	for _, e := range committed.Entries {
		committedByID[e.DeckID] = e
	}
	currentIDs := make(map[string]bool, len(current.Entries))

	result := &StalenessResult{}
	for _, entry := range current.Entries {
		currentIDs[entry.DeckID] = true
		prev, ok := committedByID[entry.DeckID]
		switch {
		case !ok:
			result.NewDecks = append(result.NewDecks, entry.DeckID)
		case entry.Fingerprint != prev.Fingerprint:
			result.ChangedDecks = append(result.ChangedDecks, entry.DeckID)
		default:
			if _, err := os.Stat(filepath.Join(dataDir, filepath.FromSlash(entry.DataFile))); os.IsNotExist(err) {
				result.MissingDataFiles = append(result.MissingDataFiles, entry.DeckID)
			}
		}
	}

	for _, e := range committed.Entries {
		if !currentIDs[e.DeckID] {
			result.RemovedDecks = append(result.RemovedDecks, e.DeckID)
		}
	}

	return result, nil
}

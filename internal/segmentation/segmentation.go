// Package segmentation splits sheet images into individual card regions.
//
// Region geometry comes from an optional per-deck deck.config.json, either
// as explicit bounding boxes or as a rows×cols grid. There is no heuristic
// detection: a sheet without configuration is an explicit error that
// callers must handle.
package segmentation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jjanczyszyn/cards/internal/imaging"
)

// ConfigFileName is the per-deck segmentation config file.
const ConfigFileName = "deck.config.json"

// BBox is a pixel rectangle within a sheet image.
type BBox struct {
	X int
	Y int
	W int
	H int
}

// SegmentationError reports that a sheet could not be segmented because no
// usable configuration was found.
type SegmentationError struct {
	Image   string
	DeckDir string
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("could not automatically segment %q: please provide a %s in %q with either a 'grid' (e.g. [3, 3]) or explicit 'bboxes' definitions",
		e.Image, ConfigFileName, e.DeckDir)
}

// DeckConfig is the segmentation hint loaded from deck.config.json.
type DeckConfig struct {
	Grid      []int   // [rows, cols]
	BBoxes    []BBox  // explicit regions, authoritative when present
	SymbolROI *[4]int // (x, y, w, h)
}

// rawDeckConfig mirrors the on-disk JSON shape.
type rawDeckConfig struct {
	Grid      []int   `json:"grid"`
	BBoxes    [][]int `json:"bboxes"`
	SymbolROI []int   `json:"symbolRoi"`
}

// LoadDeckConfig loads deck.config.json from a deck directory. A missing
// file is not an error; it returns (nil, nil).
func LoadDeckConfig(deckDir string) (*DeckConfig, error) {
	configPath := filepath.Join(deckDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", configPath, err)
	}

	var raw rawDeckConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", configPath, err)
	}

	config := &DeckConfig{}
	if raw.Grid != nil {
		if len(raw.Grid) != 2 {
			return nil, fmt.Errorf("error parsing %s: grid must have 2 elements [rows, cols], got %d", configPath, len(raw.Grid))
		}
		if raw.Grid[0] <= 0 || raw.Grid[1] <= 0 {
			return nil, fmt.Errorf("error parsing %s: grid values must be positive, got [%d, %d]", configPath, raw.Grid[0], raw.Grid[1])
		}
		config.Grid = []int{raw.Grid[0], raw.Grid[1]}
	}
	for _, b := range raw.BBoxes {
		if len(b) != 4 {
			return nil, fmt.Errorf("error parsing %s: bbox entries must have 4 elements, got %d", configPath, len(b))
		}
		config.BBoxes = append(config.BBoxes, BBox{X: b[0], Y: b[1], W: b[2], H: b[3]})
	}
	if len(raw.SymbolROI) == 4 {
		config.SymbolROI = &[4]int{raw.SymbolROI[0], raw.SymbolROI[1], raw.SymbolROI[2], raw.SymbolROI[3]}
	}
	return config, nil
}

// ComputeGridBBoxes partitions a width×height image into a rows×cols grid
// of equal cells, emitted row-major. Cell size uses floor division, so
// residual pixels at the right and bottom edges are dropped.
func ComputeGridBBoxes(rows, cols, width, height int) []BBox {
	cellW := width / cols
	cellH := height / rows
	bboxes := make([]BBox, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			bboxes = append(bboxes, BBox{
				X: col * cellW,
				Y: row * cellH,
				W: cellW,
				H: cellH,
			})
		}
	}
	return bboxes
}

// SegmentSheet resolves a sheet image into card bounding boxes. Explicit
// bboxes from the deck config are returned verbatim; otherwise a grid
// config partitions the image; otherwise a *SegmentationError is returned.
func SegmentSheet(imagePath, deckDir string) ([]BBox, error) {
	config, err := LoadDeckConfig(deckDir)
	if err != nil {
		return nil, err
	}

	if config != nil && len(config.BBoxes) > 0 {
		return config.BBoxes, nil
	}

	if config != nil && len(config.Grid) == 2 {
		width, height, err := imaging.Dimensions(imagePath)
		if err != nil {
			return nil, err
		}
		return ComputeGridBBoxes(config.Grid[0], config.Grid[1], width, height), nil
	}

	return nil, &SegmentationError{Image: filepath.Base(imagePath), DeckDir: deckDir}
}

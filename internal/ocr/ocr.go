// Package ocr extracts card text from sheet crops, caching results by
// content hash so expensive provider calls are never repeated for
// unchanged images.
package ocr

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/jjanczyszyn/cards/internal/imaging"
	"github.com/jjanczyszyn/cards/internal/segmentation"
)

// Result is the outcome of OCR on a single card crop.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Provider recognizes text in a card crop. Implementations may call a
// remote API or run offline; failures propagate to the caller untouched.
type Provider interface {
	Recognize(img image.Image) (Result, error)
}

// Cache is a directory-backed store of OCR results keyed by content hash.
// Entries are write-once JSON files; there is no locking, the pipeline is
// a single-process batch job.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating OCR cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached result for key, or (nil, nil) on a miss.
func (c *Cache) Get(key string) (*Result, error) {
	data, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading OCR cache entry %s: %w", key, err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("error parsing OCR cache entry %s: %w", key, err)
	}
	return &r, nil
}

// Put stores a result under key.
func (c *Cache) Put(key string, r Result) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error encoding OCR cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(key), payload, 0644); err != nil {
		return fmt.Errorf("error writing OCR cache entry %s: %w", key, err)
	}
	return nil
}

// CropKey computes a hash uniquely identifying a card crop, derived from
// the sheet file content and the bounding box.
func CropKey(imagePath string, bbox segmentation.BBox) (string, error) {
	content, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", imagePath, err)
	}
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "%d,%d,%d,%d", bbox.X, bbox.Y, bbox.W, bbox.H)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RecognizeCrop OCRs one card crop, consulting the cache first. The crop
// is only decoded on a cache miss.
func RecognizeCrop(imagePath string, bbox segmentation.BBox, cache *Cache, provider Provider) (Result, error) {
	key, err := CropKey(imagePath, bbox)
	if err != nil {
		return Result{}, err
	}

	if cached, err := cache.Get(key); err != nil {
		return Result{}, err
	} else if cached != nil {
		return *cached, nil
	}

	sheet, err := imaging.Decode(imagePath)
	if err != nil {
		return Result{}, err
	}
	crop := imaging.Crop(sheet, bbox.X, bbox.Y, bbox.W, bbox.H)

	result, err := provider.Recognize(crop)
	if err != nil {
		return Result{}, err
	}
	if err := cache.Put(key, result); err != nil {
		return Result{}, err
	}
	return result, nil
}

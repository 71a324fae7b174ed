// Package imaging decodes sheet images and extracts card crops.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Decode opens and decodes a sheet image. HEIC sheets are discovered and
// fingerprinted elsewhere but have no registered decoder, so decoding one
// fails here with the format error from the image package.
func Decode(imagePath string) (image.Image, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", imagePath, err)
	}
	return img, nil
}

// Dimensions returns the width and height of an image without decoding
// its pixel data.
func Dimensions(imagePath string) (int, int, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read dimensions of %s: %w", imagePath, err)
	}
	return config.Width, config.Height, nil
}

// Crop extracts the rectangle (x, y, w, h) from an image as a standalone
// image with its origin at (0, 0).
func Crop(img image.Image, x, y, w, h int) image.Image {
	rect := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for yy := 0; yy < rect.Dy(); yy++ {
		for xx := 0; xx < rect.Dx(); xx++ {
			out.Set(xx, yy, img.At(rect.Min.X+xx, rect.Min.Y+yy))
		}
	}
	return out
}

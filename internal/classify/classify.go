// Package classify assigns a named palette color to card crops based on
// their dominant color.
package classify

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// hsv is a color with H in 0-360, S and V in 0-100.
type hsv struct {
	h, s, v float64
}

// paletteEntry pairs a color name with its representative HSV value.
type paletteEntry struct {
	name string
	hsv  hsv
}

// palette is ordered so exact distance ties always resolve to the same
// name.
var palette = []paletteEntry{
	{"red", hsv{0, 80, 70}},
	{"orange", hsv{30, 80, 70}},
	{"yellow", hsv{55, 80, 70}},
	{"green", hsv{120, 70, 60}},
	{"blue", hsv{230, 70, 60}},
	{"purple", hsv{280, 60, 55}},
	{"pink", hsv{330, 60, 70}},
	{"white", hsv{0, 0, 95}},
	{"black", hsv{0, 0, 10}},
	{"gray", hsv{0, 0, 50}},
}

// dominantColor averages all pixels of a 50x50 downscale.
func dominantColor(img image.Image) colorful.Color {
	small := resize.Resize(50, 50, img, resize.Bilinear)
	bounds := small.Bounds()

	var rSum, gSum, bSum float64
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(small.At(x, y))
			if !ok {
				continue
			}
			rSum += c.R
			gSum += c.G
			bSum += c.B
			count++
		}
	}
	if count == 0 {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return colorful.Color{
		R: rSum / float64(count),
		G: gSum / float64(count),
		B: bSum / float64(count),
	}
}

// hsvDistance compares two HSV colors with circular hue handling. Colors
// with low saturation are near-gray, where hue is meaningless and value
// dominates.
func hsvDistance(a, b hsv) float64 {
	if a.s < 15 || b.s < 15 {
		return math.Abs(a.v-b.v) + math.Abs(a.s-b.s)*0.5
	}

	hueDiff := math.Abs(a.h - b.h)
	if hueDiff > 180 {
		hueDiff = 360 - hueDiff
	}
	return hueDiff + math.Abs(a.s-b.s)*0.5 + math.Abs(a.v-b.v)*0.3
}

// closest returns the palette name nearest to a sample.
func closest(sample hsv) string {
	bestName := "gray"
	bestDist := math.Inf(1)
	for _, entry := range palette {
		if d := hsvDistance(sample, entry.hsv); d < bestDist {
			bestDist = d
			bestName = entry.name
		}
	}
	return bestName
}

// Color classifies the dominant color of an image into a named palette
// color.
func Color(img image.Image) string {
	h, s, v := dominantColor(img).Hsv()
	return closest(hsv{h: h, s: s * 100, v: v * 100})
}

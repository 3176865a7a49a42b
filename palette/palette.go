/*
Package palette reduces frames to a small indexed palette.

Images that already use no more colors than requested keep their exact
colors; anything else is quantized with a median cut and then mapped to the
nearest palette entry without dithering, so the same input always gives the
same output.
*/
package palette

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// MaxColors is the largest palette an indexed PNG can hold
const MaxColors = 256

var errBadColors = errors.New("palette: colors must be between 1 and 256")

func countColors(m image.Image) map[color.NRGBA]int {
	b := m.Bounds()
	colors := make(map[color.NRGBA]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)]++
		}
	}
	return colors
}

// Unique colors sorted by frequency, most frequent first, with ties broken
// on the color value so the order is stable
func uniqueColors(m image.Image) color.Palette {
	h := countColors(m)
	keys := make([]color.NRGBA, 0, len(h))
	for c := range h {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if h[keys[i]] != h[keys[j]] {
			return h[keys[i]] > h[keys[j]]
		}
		return packed(keys[i]) < packed(keys[j])
	})
	p := make(color.Palette, 0, len(keys))
	for _, c := range keys {
		p = append(p, c)
	}
	return p
}

func packed(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Reduce returns a copy of m using at most n colors.
func Reduce(m image.Image, n int) (*image.Paletted, error) {
	if n < 1 || n > MaxColors {
		return nil, errBadColors
	}

	b := m.Bounds()

	p := uniqueColors(m)
	if len(p) > n {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

package palette

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 4), uint8(y * 4), uint8((x + y) * 2), 0xff})
		}
	}
	return m
}

func TestReduceKeepsExactColors(t *testing.T) {
	colors := []color.NRGBA{
		{0xff, 0x00, 0x00, 0xff},
		{0x00, 0xff, 0x00, 0xff},
		{0x00, 0x00, 0xff, 0xff},
		{0x00, 0x00, 0x00, 0x00},
	}
	m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetNRGBA(x, y, colors[(x/2)%len(colors)])
		}
	}

	pm, err := Reduce(m, 16)
	require.NoError(t, err)
	assert.Len(t, pm.Palette, len(colors))

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, colors[(x/2)%len(colors)], color.NRGBAModel.Convert(pm.At(x, y)))
		}
	}
}

func TestReduceQuantizes(t *testing.T) {
	m := gradient(64, 64)

	pm, err := Reduce(m, 8)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(pm.Palette), 8)
	assert.Equal(t, image.Rect(0, 0, 64, 64), pm.Bounds())
}

func TestReduceDeterministic(t *testing.T) {
	m := gradient(32, 32)

	a, err := Reduce(m, 16)
	require.NoError(t, err)
	b, err := Reduce(m, 16)
	require.NoError(t, err)

	assert.Equal(t, a.Palette, b.Palette)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestReduceOffsetOrigin(t *testing.T) {
	m := gradient(32, 32).SubImage(image.Rect(8, 8, 24, 24))

	pm, err := Reduce(m, 4)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), pm.Bounds())
}

func TestReduceBadColors(t *testing.T) {
	m := gradient(4, 4)

	for _, n := range []int{0, -1, MaxColors + 1} {
		_, err := Reduce(m, n)
		assert.Error(t, err, n)
	}
}

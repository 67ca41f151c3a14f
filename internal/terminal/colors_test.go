package terminal

import (
	"testing"

	"github.com/hinshun/vt10x"
	"github.com/stretchr/testify/assert"
)

func TestPaletteColorANSI16(t *testing.T) {
	assert.Equal(t, RGB{0, 0, 0}, paletteColor(0))
	assert.Equal(t, RGB{205, 49, 49}, paletteColor(1))
	assert.Equal(t, RGB{255, 255, 255}, paletteColor(15))
}

func TestPaletteColorCube(t *testing.T) {
	// index 16 is the cube origin: r=g=b=0
	assert.Equal(t, RGB{0, 0, 0}, paletteColor(16))
	// index 231 is the cube's brightest corner: r=g=b=5 -> 255
	assert.Equal(t, RGB{255, 255, 255}, paletteColor(231))
	// index 196 => i=180, r=5,g=0,b=0 => pure red
	assert.Equal(t, RGB{255, 0, 0}, paletteColor(196))
}

func TestPaletteColorGreyscale(t *testing.T) {
	assert.Equal(t, RGB{8, 8, 8}, paletteColor(232))
	assert.Equal(t, RGB{238, 238, 238}, paletteColor(255))
}

func TestDim(t *testing.T) {
	assert.Equal(t, RGB{170, 170, 170}, dim(RGB{255, 255, 255}))
	assert.Equal(t, RGB{0, 0, 0}, dim(RGB{0, 0, 0}))
}

func TestResolveColorDefault(t *testing.T) {
	assert.Equal(t, DefaultFG, resolveColor(vt10x.DefaultFG, DefaultFG, false))
	assert.Equal(t, DefaultBG, resolveColor(vt10x.DefaultBG, DefaultBG, false))
}

func TestResolveColorTrueColor(t *testing.T) {
	c := vt10x.Color((10 << 16) | (20 << 8) | 30)
	assert.Equal(t, RGB{10, 20, 30}, resolveColor(c, DefaultFG, false))
}

func TestResolveColorFaint(t *testing.T) {
	got := resolveColor(vt10x.Color(7), DefaultFG, true)
	assert.Equal(t, dim(ansi16[7]), got)
}

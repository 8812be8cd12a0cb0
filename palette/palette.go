/*
Package palette implements the fixed eight colour table used by densecode
images and the nearest-colour classifier used when reading them back.

Each symbol value indexes one fully saturated RGB colour:

	0 black    (0, 0, 0)
	1 red      (255, 0, 0)
	2 green    (0, 255, 0)
	3 blue     (0, 0, 255)
	4 yellow   (255, 255, 0)
	5 magenta  (255, 0, 255)
	6 cyan     (0, 255, 255)
	7 white    (255, 255, 255)

Black and white double as the marker colours.
*/
package palette

import (
	"image/color"

	"github.com/bodgit/densecode/symbol"
)

// Size is the number of entries in the palette.
const Size = symbol.Max + 1

const (
	// Black is the symbol rendered as black.
	Black symbol.Symbol = 0
	// White is the symbol rendered as white.
	White symbol.Symbol = 7
)

var colors = [Size]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// Color returns the colour for symbol s.
func Color(s symbol.Symbol) color.RGBA {
	return colors[s&symbol.Max]
}

// Palette returns a new color.Palette holding the eight colours in symbol
// order, suitable for an image.Paletted.
func Palette() color.Palette {
	p := make(color.Palette, Size)
	for i, c := range colors {
		p[i] = c
	}
	return p
}

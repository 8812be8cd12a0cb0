/*
Package tile renders a densecode grid as a raster image.

Every logical cell becomes a solid 8 by 8 tile of its palette colour. There is
no anti-aliasing or blending; each pixel of a tile is identical, which keeps
the colour readable after blur or resampling.
*/
package tile

import (
	"image"

	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/palette"
)

// Size is the width and height of a tile in pixels.
const Size = 8

// Render returns g as a paletted image of g.Side*Size pixels square.
func Render(g *layout.Grid) *image.Paletted {
	px := g.Side * Size
	m := image.NewPaletted(image.Rect(0, 0, px, px), palette.Palette())

	for ty := 0; ty < g.Side; ty++ {
		// Build one row of pixels for this row of tiles
		row := m.Pix[ty*Size*m.Stride : ty*Size*m.Stride+px]
		for tx := 0; tx < g.Side; tx++ {
			s := uint8(g.At(tx, ty))
			for x := 0; x < Size; x++ {
				row[tx*Size+x] = s
			}
		}

		// Then repeat it for the remaining rows of the tile
		for y := 1; y < Size; y++ {
			i := (ty*Size + y) * m.Stride
			copy(m.Pix[i:i+px], row)
		}
	}

	return m
}

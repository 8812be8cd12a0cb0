package tile

import (
	"testing"

	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/palette"
	"github.com/bodgit/densecode/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	payload := make([]symbol.Symbol, 20)
	for i := range payload {
		payload[i] = symbol.Symbol(i % palette.Size)
	}

	n, err := layout.Side(len(payload), 0)
	require.Nil(t, err)
	g := layout.Place(n, payload)

	m := Render(g)
	b := m.Bounds()
	assert.Equal(t, n*Size, b.Dx())
	assert.Equal(t, n*Size, b.Dy())

	// Every pixel of every tile is the colour of its cell
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			want := g.At(x/Size, y/Size)
			if !assert.Equal(t, uint8(want), m.ColorIndexAt(x, y), "pixel (%d, %d)", x, y) {
				return
			}
		}
	}

	assert.Equal(t, palette.Color(palette.Black), m.At(0, 0))
	assert.Equal(t, palette.Color(palette.White), m.At(Size, 0))
}

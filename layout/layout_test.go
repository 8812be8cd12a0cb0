package layout

import (
	"image"
	"testing"

	"github.com/bodgit/densecode/palette"
	"github.com/bodgit/densecode/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide(t *testing.T) {
	tables := []struct {
		symbols int
		want    int
	}{
		{0, 6},
		{1, 7},
		{13, 7},
		{14, 8},
		{35, 9},
		{45, 9},
		{46, 10},
		{1000, 33},
		{1 << 20, 1025},
	}

	for _, table := range tables {
		n, err := Side(table.symbols, 0)
		require.Nil(t, err)
		assert.Equal(t, table.want, n, "symbols = %d", table.symbols)
		assert.GreaterOrEqual(t, Capacity(n), table.symbols)
		if n > MinSide {
			assert.Less(t, Capacity(n-1), table.symbols)
		}
	}
}

func TestSideTooLarge(t *testing.T) {
	_, err := Side(1000, 32)
	assert.ErrorIs(t, err, ErrTooLarge)

	n, err := Side(1000, 33)
	require.Nil(t, err)
	assert.Equal(t, 33, n)
}

func TestMarkers(t *testing.T) {
	for _, n := range []int{6, 7, 12} {
		markers := Markers(n)
		assert.Len(t, markers, MarkerCells)

		count := 0
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if IsMarker(n, x, y) {
					count++
				}
			}
		}
		assert.Equal(t, MarkerCells, count)

		for _, p := range markers {
			assert.True(t, IsMarker(n, p.X, p.Y))
		}
	}

	// Every corner starts black and alternates
	n := 10
	for _, origin := range []image.Point{{0, 0}, {7, 0}, {0, 7}, {7, 7}} {
		assert.Equal(t, palette.Black, MarkerSymbol(n, origin.X, origin.Y))
		assert.Equal(t, palette.White, MarkerSymbol(n, origin.X+1, origin.Y))
		assert.Equal(t, palette.Black, MarkerSymbol(n, origin.X+1, origin.Y+1))
		assert.Equal(t, palette.White, MarkerSymbol(n, origin.X+2, origin.Y+1))
		assert.Equal(t, palette.Black, MarkerSymbol(n, origin.X+2, origin.Y+2))
	}
}

func TestCells(t *testing.T) {
	assert.Empty(t, Cells(5))
	assert.Empty(t, Cells(6))

	cells := Cells(7)
	require.Len(t, cells, Capacity(7))
	assert.Equal(t, []image.Point{{3, 0}, {3, 1}, {3, 2}}, cells[:3])
	assert.Equal(t, image.Point{0, 3}, cells[3])
	assert.Equal(t, image.Point{6, 3}, cells[9])
	assert.Equal(t, image.Point{3, 6}, cells[len(cells)-1])

	// Row-major and never a marker
	for i, p := range cells {
		assert.False(t, IsMarker(7, p.X, p.Y))
		if i > 0 {
			q := cells[i-1]
			assert.True(t, p.Y > q.Y || (p.Y == q.Y && p.X > q.X))
		}
	}
}

func TestPlace(t *testing.T) {
	header := []symbol.Symbol{1, 2, 3}
	payload := []symbol.Symbol{4, 5, 6, 7}

	n, err := Side(len(header)+len(payload), 0)
	require.Nil(t, err)

	g := Place(n, header, payload)
	assert.Equal(t, n, g.Side)
	assert.Len(t, g.Cells, n*n)

	data := g.Data()
	require.Len(t, data, Capacity(n))
	assert.Equal(t, []symbol.Symbol{1, 2, 3, 4, 5, 6, 7}, data[:7])
	for _, s := range data[7:] {
		assert.Equal(t, symbol.Symbol(0), s)
	}

	for _, p := range Markers(n) {
		assert.Equal(t, MarkerSymbol(n, p.X, p.Y), g.At(p.X, p.Y))
	}
}

package layout

import (
	"github.com/bodgit/densecode/symbol"
)

// Grid is a square grid of symbols stored row by row.
type Grid struct {
	Side  int
	Cells []symbol.Symbol
}

// Place builds a grid of side n holding the markers, then the symbols from
// each of the given runs in order, then zero symbols in any cells left
// over. Symbols that do not fit are dropped, so n should come from Side.
func Place(n int, runs ...[]symbol.Symbol) *Grid {
	g := &Grid{
		Side:  n,
		Cells: make([]symbol.Symbol, n*n),
	}

	for _, p := range Markers(n) {
		g.Cells[p.Y*n+p.X] = MarkerSymbol(n, p.X, p.Y)
	}

	cells := Cells(n)
	i := 0
	for _, run := range runs {
		for _, s := range run {
			if i == len(cells) {
				return g
			}
			p := cells[i]
			g.Cells[p.Y*n+p.X] = s
			i++
		}
	}

	return g
}

// At returns the symbol in cell (x, y).
func (g *Grid) At(x, y int) symbol.Symbol {
	return g.Cells[y*g.Side+x]
}

// Data returns every data symbol in traversal order, including padding.
func (g *Grid) Data() []symbol.Symbol {
	cells := Cells(g.Side)
	s := make([]symbol.Symbol, len(cells))
	for i, p := range cells {
		s[i] = g.At(p.X, p.Y)
	}
	return s
}

/*
Package layout describes the logical grid of a densecode image.

The grid is N by N cells. A 3 by 3 marker block sits in each corner; every
marker is the same black and white checkerboard, starting with black in its
top-left cell. All other cells carry data and are visited in row-major
order, skipping the markers. That traversal is the only mapping between
symbol index and cell position, and both the encoder and decoder use it.
*/
package layout

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/bodgit/densecode/palette"
	"github.com/bodgit/densecode/symbol"
)

const (
	// MarkerSize is the width and height of each corner marker in cells.
	MarkerSize = 3
	// MarkerCells is the number of cells occupied by all four markers.
	MarkerCells = 4 * MarkerSize * MarkerSize
	// MinSide is the smallest grid in which the markers do not overlap.
	MinSide = 2 * MarkerSize
	// DefaultMaxSide bounds the grid side when no other limit is given.
	// At 8 pixels per cell this is a 32768 by 32768 pixel image.
	DefaultMaxSide = 4096
)

// ErrTooLarge is returned when a grid would exceed the maximum side.
var ErrTooLarge = errors.New("layout: input too large")

// Capacity returns the number of data cells in a grid of side n.
func Capacity(n int) int {
	return n*n - MarkerCells
}

// Side returns the smallest grid side with room for the given number of
// symbols. If limit is zero or less DefaultMaxSide applies.
func Side(symbols, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultMaxSide
	}

	n := int(math.Ceil(math.Sqrt(float64(symbols + MarkerCells))))
	for n > MinSide && Capacity(n-1) >= symbols {
		n--
	}
	for Capacity(n) < symbols {
		n++
	}
	if n < MinSide {
		n = MinSide
	}

	if n > limit {
		return 0, fmt.Errorf("%w: %d symbols need a %d cell grid, limit is %d", ErrTooLarge, symbols, n, limit)
	}

	return n, nil
}

// marker returns the position of (x, y) within its corner marker.
func marker(n, x, y int) (int, int, bool) {
	switch {
	case x < MarkerSize:
	case x >= n-MarkerSize:
		x -= n - MarkerSize
	default:
		return 0, 0, false
	}
	switch {
	case y < MarkerSize:
	case y >= n-MarkerSize:
		y -= n - MarkerSize
	default:
		return 0, 0, false
	}
	return x, y, true
}

// IsMarker reports whether cell (x, y) of a grid of side n is a marker cell.
func IsMarker(n, x, y int) bool {
	_, _, ok := marker(n, x, y)
	return ok
}

// MarkerSymbol returns the expected symbol of marker cell (x, y).
func MarkerSymbol(n, x, y int) symbol.Symbol {
	mx, my, _ := marker(n, x, y)
	if (mx+my)%2 == 0 {
		return palette.Black
	}
	return palette.White
}

// Cells returns the data cell positions of a grid of side n in traversal
// order.
func Cells(n int) []image.Point {
	if n < MinSide {
		return nil
	}

	cells := make([]image.Point, 0, Capacity(n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !IsMarker(n, x, y) {
				cells = append(cells, image.Pt(x, y))
			}
		}
	}
	return cells
}

// Markers returns the marker cell positions of a grid of side n.
func Markers(n int) []image.Point {
	cells := make([]image.Point, 0, MarkerCells)
	for _, y := range []int{0, n - MarkerSize} {
		for _, x := range []int{0, n - MarkerSize} {
			for dy := 0; dy < MarkerSize; dy++ {
				for dx := 0; dx < MarkerSize; dx++ {
					cells = append(cells, image.Pt(x+dx, y+dy))
				}
			}
		}
	}
	return cells
}

/*
Package scan recovers the grid of a densecode image and reads its cells.

The top-left marker is found by measuring the first black and white runs
along the top row and left column of the image, which gives the cell pitch
in each direction and from that the grid side. A capture that is not exactly
8 pixels per cell is resampled to that size. All four markers must then read
back as the expected checkerboard before any data cell is trusted.

The image is assumed to be a near axis-aligned capture that fills the frame;
there is no perspective correction.
*/
package scan

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/palette"
	"github.com/bodgit/densecode/symbol"
	"github.com/bodgit/densecode/tile"
	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
)

// ErrAlignment is returned when the markers cannot be found or the image
// dimensions do not fit a grid.
var ErrAlignment = errors.New("scan: alignment failure")

// Scanner holds the settings used to read an image.
type Scanner struct {
	// Threshold is the colour distance limit passed to the classifier.
	Threshold float64
	// MaxSide is the largest grid side accepted.
	MaxSide int
	// Denoise applies a 3x3 median filter before reading.
	Denoise bool
	// Calibrate adjusts the palette to the colours found in the image.
	Calibrate bool
}

// Code is a located grid ready to be read.
type Code struct {
	// Side is the grid side in cells.
	Side int
	// Pitch is the measured size of a cell in the source image.
	Pitch float64

	m          image.Image
	classifier *palette.Classifier
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8+g>>8+b>>8 < 3*0x80
}

// pitch walks from the top-left pixel in direction (dx, dy) across the
// first black and first white marker cells and returns their mean length.
func pitch(m image.Image, dx, dy int) (float64, error) {
	b := m.Bounds()
	p := b.Min

	dark := 0
	for p.In(b) && isDark(m.At(p.X, p.Y)) {
		dark++
		p = p.Add(image.Pt(dx, dy))
	}

	light := 0
	for p.In(b) && !isDark(m.At(p.X, p.Y)) {
		light++
		p = p.Add(image.Pt(dx, dy))
	}

	if dark == 0 || light == 0 || !p.In(b) {
		return 0, fmt.Errorf("%w: no marker in top-left corner", ErrAlignment)
	}

	return float64(dark+light) / 2, nil
}

func denoise(m image.Image) image.Image {
	g := gift.New(gift.Median(3, false))
	dst := image.NewRGBA(g.Bounds(m.Bounds()))
	g.Draw(dst, m)
	return dst
}

// Scan locates the grid in m and checks its markers.
func (s *Scanner) Scan(m image.Image) (*Code, error) {
	if m.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrAlignment)
	}

	if s.Denoise {
		m = denoise(m)
	}

	b := m.Bounds()

	px, err := pitch(m, 1, 0)
	if err != nil {
		return nil, err
	}
	py, err := pitch(m, 0, 1)
	if err != nil {
		return nil, err
	}

	nx := int(math.Round(float64(b.Dx()) / px))
	ny := int(math.Round(float64(b.Dy()) / py))
	if nx != ny {
		return nil, fmt.Errorf("%w: %dx%d pixels is %dx%d cells, not square", ErrAlignment, b.Dx(), b.Dy(), nx, ny)
	}
	n := nx
	if n < layout.MinSide {
		return nil, fmt.Errorf("%w: grid side %d is below minimum %d", ErrAlignment, n, layout.MinSide)
	}

	limit := s.MaxSide
	if limit <= 0 {
		limit = layout.DefaultMaxSide
	}
	if n > limit {
		return nil, fmt.Errorf("%w: grid side %d exceeds limit %d", layout.ErrTooLarge, n, limit)
	}

	// Resample anything that isn't exactly one tile per cell
	size := n * tile.Size
	if b.Dx() != size || b.Dy() != size {
		m = resize.Resize(uint(size), uint(size), m, resize.NearestNeighbor)
	}

	c := &Code{
		Side:       n,
		Pitch:      (px + py) / 2,
		m:          m,
		classifier: palette.NewClassifier(s.Threshold),
	}

	if s.Calibrate {
		c.classifier.Calibrate(m)
	}

	if err := c.verify(); err != nil {
		return nil, err
	}

	return c, nil
}

// sample averages the central pixels of cell (x, y).
func (c *Code) sample(x, y int) color.RGBA {
	const (
		lo = tile.Size / 4
		hi = tile.Size - lo
	)

	o := c.m.Bounds().Min
	x0, y0 := o.X+x*tile.Size, o.Y+y*tile.Size

	var r, g, b uint32
	for py := y0 + lo; py < y0+hi; py++ {
		for px := x0 + lo; px < x0+hi; px++ {
			cr, cg, cb, _ := c.m.At(px, py).RGBA()
			r += cr >> 8
			g += cg >> 8
			b += cb >> 8
		}
	}

	const count = (hi - lo) * (hi - lo)
	return color.RGBA{uint8(r / count), uint8(g / count), uint8(b / count), 0xff}
}

func (c *Code) verify() error {
	for _, p := range layout.Markers(c.Side) {
		want := layout.MarkerSymbol(c.Side, p.X, p.Y)
		got, err := c.classifier.Classify(c.sample(p.X, p.Y))
		if err != nil || got != want {
			return fmt.Errorf("%w: marker cell (%d, %d) does not match", ErrAlignment, p.X, p.Y)
		}
	}
	return nil
}

// DataCells returns the number of data cells in the grid.
func (c *Code) DataCells() int {
	return layout.Capacity(c.Side)
}

// Symbols reads the first n data cells in traversal order, or all of them
// if n is negative.
func (c *Code) Symbols(n int) ([]symbol.Symbol, error) {
	cells := layout.Cells(c.Side)
	if n >= 0 && n < len(cells) {
		cells = cells[:n]
	}

	s := make([]symbol.Symbol, len(cells))
	for i, p := range cells {
		v, err := c.classifier.Classify(c.sample(p.X, p.Y))
		if err != nil {
			return nil, fmt.Errorf("cell (%d, %d): %w", p.X, p.Y, err)
		}
		s[i] = v
	}

	return s, nil
}

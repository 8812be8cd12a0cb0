package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/bodgit/densecode/symbol"
	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultThreshold is the default maximum Euclidean RGB distance between an
// observed colour and its nearest palette entry.
const DefaultThreshold = 100

// ErrUnreadable is returned when an observed colour is too far from every
// palette entry to be classified.
var ErrUnreadable = errors.New("palette: unreadable cell")

// Classifier maps observed colours back to symbols.
type Classifier struct {
	threshold float64
	ref       [Size]color.RGBA
}

// NewClassifier returns a Classifier that rejects colours further than
// threshold from their nearest palette entry. A threshold of zero or less
// selects DefaultThreshold.
func NewClassifier(threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{
		threshold: threshold,
		ref:       colors,
	}
}

// Threshold returns the distance threshold in use.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Reference returns the colour currently matched to symbol s. This is the
// palette colour unless the classifier has been calibrated.
func (c *Classifier) Reference(s symbol.Symbol) color.RGBA {
	return c.ref[s&symbol.Max]
}

func rgb(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}

func distance(r1, g1, b1 int, c color.RGBA) float64 {
	dr, dg, db := r1-int(c.R), g1-int(c.G), b1-int(c.B)
	return math.Sqrt(float64(dr*dr + dg*dg + db*db))
}

func (c *Classifier) nearest(r, g, b int) (symbol.Symbol, float64) {
	best, bestDist := symbol.Symbol(0), math.Inf(1)
	for i, ref := range c.ref {
		if d := distance(r, g, b, ref); d < bestDist {
			best, bestDist = symbol.Symbol(i), d
		}
	}
	return best, bestDist
}

// Classify returns the symbol whose reference colour is nearest to o.
func (c *Classifier) Classify(o color.Color) (symbol.Symbol, error) {
	r, g, b := rgb(o)
	s, d := c.nearest(r, g, b)
	if d > c.threshold {
		return 0, fmt.Errorf("%w: rgb(%d, %d, %d) is %.1f from nearest colour", ErrUnreadable, r, g, b, d)
	}
	return s, nil
}

// Calibrate adjusts the reference colours to the colours actually present
// in m, which helps with captures under tinted or dim lighting. The image is
// reduced to at most Size colours by median cut and each palette entry
// adopts the closest reduced colour lying within half the threshold of it.
// Entries with no such colour keep their current reference.
func (c *Classifier) Calibrate(m image.Image) {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, Size), m)

	limit := c.threshold / 2
	for i, ref := range colors {
		bestDist := limit
		for _, o := range p {
			r, g, b := rgb(o)
			if d := distance(r, g, b, ref); d <= bestDist {
				bestDist = d
				c.ref[i] = color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}
			}
		}
	}
}

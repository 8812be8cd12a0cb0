/*
Package densecode is a library for storing arbitrary data as a square colour
image and recovering it again.

Data is optionally compressed, prefixed with a 13 byte header carrying the
sizes and a CRC-32, split into 3-bit symbols and laid out on a grid of
logical pixels, each drawn as an 8 by 8 block in one of eight colours. A 3 by
3 checkerboard marker in each corner lets the decoder find the grid again.

There is no error correction. A damaged image is detected by the checksum
and rejected; it is never returned as if it were valid.
*/
package densecode

import (
	"io/ioutil"
	"log"

	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/palette"
	"github.com/bodgit/densecode/scan"
)

// Codec encodes data as images and decodes images back to data. The zero
// value is not usable; create one with New. A Codec holds no state between
// calls and may be used from multiple goroutines.
type Codec struct {
	// Compress enables zlib compression of the payload.
	Compress bool
	// Threshold is the maximum colour distance accepted when reading a
	// cell.
	Threshold float64
	// MaxSide is the largest grid side that will be written or read.
	MaxSide int
	// Denoise median filters images before reading them.
	Denoise bool
	// Calibrate adjusts the palette to the colours present in an image
	// before reading it.
	Calibrate bool

	logger *log.Logger
}

// New returns a Codec with compression enabled and the default threshold
// and size limit. Progress is written to logger, which may be nil.
func New(logger *log.Logger) *Codec {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Codec{
		Compress:  true,
		Threshold: palette.DefaultThreshold,
		MaxSide:   layout.DefaultMaxSide,
		logger:    logger,
	}
}

func (c *Codec) scanner() *scan.Scanner {
	return &scan.Scanner{
		Threshold: c.Threshold,
		MaxSide:   c.MaxSide,
		Denoise:   c.Denoise,
		Calibrate: c.Calibrate,
	}
}

// Logger returns the logger progress is written to.
func (c *Codec) Logger() *log.Logger {
	return c.logger
}

package densecode

import (
	"fmt"
	"image"
	"math"

	"github.com/bodgit/densecode/crc32"
	"github.com/bodgit/densecode/deflate"
	"github.com/bodgit/densecode/header"
	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/symbol"
	"github.com/bodgit/densecode/tile"
)

// HeaderSymbols is the number of data cells taken by the header. The
// payload starts in the cell after it.
const HeaderSymbols = (header.Size*8 + symbol.Bits - 1) / symbol.Bits

// Info describes an encoded image.
type Info struct {
	header.Header

	// Width and Height are the image size in pixels.
	Width, Height int
	// Side is the grid side in cells.
	Side int
	// Pitch is the size of a cell in pixels.
	Pitch float64
	// DataCells is the number of cells available to the header and payload.
	DataCells int
}

// Capacity returns the largest payload in bytes the grid can hold.
func (i *Info) Capacity() int {
	return capacity(i.DataCells)
}

// Efficiency returns the number of bits of original data carried per data
// cell.
func (i *Info) Efficiency() float64 {
	if i.DataCells == 0 {
		return 0
	}
	return float64(i.OriginalSize) * 8 / float64(i.DataCells)
}

// Used returns the fraction of data cells holding header or payload.
func (i *Info) Used() float64 {
	if i.DataCells == 0 {
		return 0
	}
	return float64(HeaderSymbols+symbol.Count(int(i.CompressedSize))) / float64(i.DataCells)
}

func capacity(cells int) int {
	if cells < HeaderSymbols {
		return 0
	}
	return (cells - HeaderSymbols) * symbol.Bits / 8
}

// Encode returns b drawn as a densecode image along with a description of
// the image.
func (c *Codec) Encode(b []byte) (*image.Paletted, *Info, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return nil, nil, fmt.Errorf("%w: %d bytes does not fit the header", ErrInputTooLarge, len(b))
	}

	h := header.Header{
		OriginalSize: uint32(len(b)),
		CRC:          crc32.Checksum(b),
	}

	payload := b
	if c.Compress {
		z, err := deflate.Compress(b)
		if err != nil {
			return nil, nil, err
		}
		if len(z) < len(b) {
			c.logger.Printf("Compression: %d → %d bytes (%.1f%%)\n", len(b), len(z), 100*float64(len(z))/float64(len(b)))
			payload = z
			h.Flags |= header.Compressed
		} else {
			c.logger.Printf("Compression: %d → %d bytes, storing uncompressed\n", len(b), len(z))
		}
	}
	h.CompressedSize = uint32(len(payload))

	hb, err := h.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}

	hs, ps := symbol.Pack(hb), symbol.Pack(payload)

	n, err := layout.Side(len(hs)+len(ps), c.MaxSide)
	if err != nil {
		return nil, nil, err
	}

	m := tile.Render(layout.Place(n, hs, ps))

	info := &Info{
		Header:    h,
		Width:     m.Rect.Dx(),
		Height:    m.Rect.Dy(),
		Side:      n,
		Pitch:     tile.Size,
		DataCells: layout.Capacity(n),
	}

	c.logger.Printf("Grid: %dx%d (%.1f%% data)\n", n, n, 100*info.Used())
	c.logger.Printf("Resolution: %dx%d pixels\n", info.Width, info.Height)
	c.logger.Printf("Efficiency: %.2f bits/pixel\n", info.Efficiency())

	return m, info, nil
}

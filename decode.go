package densecode

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/densecode/crc32"
	"github.com/bodgit/densecode/deflate"
	"github.com/bodgit/densecode/header"
	"github.com/bodgit/densecode/scan"
	"github.com/bodgit/densecode/symbol"
)

func (c *Codec) readHeader(code *scan.Code) (*header.Header, error) {
	s, err := code.Symbols(HeaderSymbols)
	if err != nil {
		return nil, err
	}

	b, err := symbol.Unpack(s, header.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: grid has %d data cells, header needs %d", ErrHeaderCorrupt, len(s), HeaderSymbols)
	}

	h := new(header.Header)
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, err
	}

	if err := h.Validate(capacity(code.DataCells())); err != nil {
		return nil, err
	}

	return h, nil
}

// Inspect reads the grid geometry and header of m without decoding the
// payload.
func (c *Codec) Inspect(m image.Image) (*Info, error) {
	code, err := c.scanner().Scan(m)
	if err != nil {
		return nil, err
	}

	h, err := c.readHeader(code)
	if err != nil {
		return nil, err
	}

	return &Info{
		Header:    *h,
		Width:     m.Bounds().Dx(),
		Height:    m.Bounds().Dy(),
		Side:      code.Side,
		Pitch:     code.Pitch,
		DataCells: code.DataCells(),
	}, nil
}

// Decode recovers the data stored in m. Nothing is returned unless the
// restored data matches the checksum in the header.
func (c *Codec) Decode(m image.Image) ([]byte, error) {
	code, err := c.scanner().Scan(m)
	if err != nil {
		return nil, err
	}

	c.logger.Printf("Decoding grid: %dx%d\n", code.Side, code.Side)

	h, err := c.readHeader(code)
	if err != nil {
		return nil, err
	}

	// Only read as far as the payload goes, the rest is padding
	s, err := code.Symbols(HeaderSymbols + symbol.Count(int(h.CompressedSize)))
	if err != nil {
		return nil, err
	}

	b, err := symbol.Unpack(s[HeaderSymbols:], int(h.CompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderCorrupt, err)
	}

	if h.Compressed() {
		if b, err = deflate.Decompress(b, int(h.OriginalSize)); err != nil {
			// A stream that is fine but the wrong length means the sizes
			// in the header are wrong
			if errors.Is(err, deflate.ErrSize) {
				return nil, fmt.Errorf("%w: %w", ErrHeaderCorrupt, err)
			}
			return nil, err
		}
		c.logger.Printf("Decompressed: %d → %d bytes\n", h.CompressedSize, len(b))
	}

	if err := crc32.Verify(b, h.CRC); err != nil {
		return nil, err
	}

	c.logger.Printf("Decoded: %d bytes, CRC %08x OK\n", len(b), h.CRC)

	return b, nil
}

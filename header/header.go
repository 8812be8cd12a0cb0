/*
Package header implements the fixed size header written at the start of the
data cells of every densecode image.

The header is 13 bytes, big-endian:

	offset  size  field
	0       4     compressed size of the payload in bytes
	4       4     original size of the data in bytes
	8       4     CRC-32 (IEEE) of the original data
	12      1     flags, bit 0 set if the payload is compressed

Nothing else marks the end of the data; the sizes alone say how much of the
image is payload and how much is padding.
*/
package header

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the encoded size of a header in bytes.
const Size = 13

// Flags holds the header flag bits.
type Flags uint8

const (
	// Compressed is set when the payload is a zlib stream.
	Compressed Flags = 1 << iota

	knownFlags = Compressed
)

// maxRatio is the largest expansion a deflate stream can achieve.
const maxRatio = 1032

// ErrCorrupt is returned when a header is truncated or inconsistent.
var ErrCorrupt = errors.New("header: corrupt header")

// Header is the metadata stored ahead of the payload. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	CompressedSize uint32
	OriginalSize   uint32
	CRC            uint32
	Flags          Flags
}

// Compressed reports whether the payload is compressed.
func (h *Header) Compressed() bool {
	return h.Flags&Compressed != 0
}

// MarshalBinary encodes the header into binary form and returns the result
func (h *Header) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	b.Grow(Size)

	if err := binary.Write(b, binary.BigEndian, h); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the header from the first Size bytes of b
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < Size {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrCorrupt, Size, len(b))
	}

	if err := binary.Read(bytes.NewReader(b[:Size]), binary.BigEndian, h); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if h.Flags&^knownFlags != 0 {
		return fmt.Errorf("%w: unknown flags %#02x", ErrCorrupt, uint8(h.Flags))
	}

	return nil
}

// Validate checks the size fields against each other and against the
// number of payload bytes the image can actually hold. A payload is only
// ever stored compressed when that makes it smaller.
func (h *Header) Validate(available int) error {
	if int64(h.CompressedSize) > int64(available) {
		return fmt.Errorf("%w: payload of %d bytes exceeds capacity of %d", ErrCorrupt, h.CompressedSize, available)
	}
	if !h.Compressed() && h.CompressedSize != h.OriginalSize {
		return fmt.Errorf("%w: uncompressed payload of %d bytes but original size %d", ErrCorrupt, h.CompressedSize, h.OriginalSize)
	}
	if h.Compressed() && h.CompressedSize >= h.OriginalSize {
		return fmt.Errorf("%w: compressed payload of %d bytes is not smaller than original size %d", ErrCorrupt, h.CompressedSize, h.OriginalSize)
	}
	if h.Compressed() && uint64(h.OriginalSize) > uint64(h.CompressedSize)*maxRatio {
		return fmt.Errorf("%w: %d bytes cannot inflate to %d", ErrCorrupt, h.CompressedSize, h.OriginalSize)
	}
	return nil
}

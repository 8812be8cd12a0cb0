/*
Package symbol converts between byte buffers and the 3-bit symbols carried
by each logical pixel of a densecode image.

Bits are consumed most significant bit first and run across byte
boundaries, so three bytes become exactly eight symbols. When the bit count
is not a multiple of three the final symbol is padded with zero bits. No pad
length is recorded; the reader must already know how many bytes to recover.
*/
package symbol

import "errors"

// Bits is the number of payload bits carried by one symbol.
const Bits = 3

// Max is the largest valid symbol value.
const Max = 1<<Bits - 1

// ErrShort is returned when there are not enough symbols to recover the
// requested number of bytes.
var ErrShort = errors.New("symbol: not enough symbols")

// Symbol is a 3-bit value in the range 0 to 7.
type Symbol uint8

// Count returns the number of symbols needed to carry n bytes.
func Count(n int) int {
	return (n*8 + Bits - 1) / Bits
}

// Pack splits b into 3-bit symbols.
func Pack(b []byte) []Symbol {
	s := make([]Symbol, 0, Count(len(b)))

	var acc uint32
	var bits uint
	for _, c := range b {
		acc = acc<<8 | uint32(c)
		bits += 8
		for bits >= Bits {
			bits -= Bits
			s = append(s, Symbol(acc>>bits&Max))
		}
		acc &= 1<<bits - 1
	}

	// Pad the remaining bits out to a whole symbol
	if bits > 0 {
		s = append(s, Symbol(acc<<(Bits-bits)&Max))
	}

	return s
}

// Unpack reassembles exactly n bytes from s. Any bits left over after the
// nth byte are discarded.
func Unpack(s []Symbol, n int) ([]byte, error) {
	if len(s)*Bits < n*8 {
		return nil, ErrShort
	}

	b := make([]byte, 0, n)

	var acc uint32
	var bits uint
	for _, v := range s {
		if len(b) == n {
			break
		}
		acc = acc<<Bits | uint32(v&Max)
		bits += Bits
		if bits >= 8 {
			bits -= 8
			b = append(b, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}

	return b, nil
}

/*
Package crc32 implements the integrity check stored in a densecode header.

It is the standard IEEE CRC-32, as used by zlib and PNG, computed over the
original data before any compression. It detects corruption but cannot
repair it.
*/
package crc32

import (
	"errors"
	"fmt"
	crc "hash/crc32"
)

// ErrMismatch is returned when restored data does not match its checksum.
var ErrMismatch = errors.New("crc32: checksum mismatch")

var table = crc.MakeTable(crc.IEEE)

// Checksum returns the checksum of data.
func Checksum(data []byte) uint32 {
	return crc.Checksum(data, table)
}

// Verify returns ErrMismatch unless the checksum of data is expected.
func Verify(data []byte, expected uint32) error {
	if actual := Checksum(data); actual != expected {
		return fmt.Errorf("%w: got %08x, expected %08x", ErrMismatch, actual, expected)
	}
	return nil
}

package crc32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tables := []struct {
		in   string
		want uint32
	}{
		{"", 0x00000000},
		{"a", 0xe8b7be43},
		{"123456789", 0xcbf43926},
		{"The quick brown fox jumps over the lazy dog", 0x414fa339},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, Checksum([]byte(table.in)), table.in)
	}
}

func TestVerify(t *testing.T) {
	assert.Nil(t, Verify([]byte("123456789"), 0xcbf43926))
	assert.ErrorIs(t, Verify([]byte("123456780"), 0xcbf43926), ErrMismatch)
}

package deflate

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	random := make([]byte, 4096)
	r.Read(random)

	tables := []struct {
		name string
		in   []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"repetitive", bytes.Repeat([]byte("densecode "), 1000)},
		{"random", random},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			c, err := Compress(table.in)
			require.Nil(t, err)

			d, err := Decompress(c, len(table.in))
			require.Nil(t, err)
			assert.Equal(t, table.in, d)
		})
	}
}

func TestCompressShrinks(t *testing.T) {
	in := bytes.Repeat([]byte("densecode "), 1000)
	c, err := Compress(in)
	require.Nil(t, err)
	assert.Less(t, len(c), len(in)/10)
}

func TestDecompressErrors(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 100)
	c, err := Compress(in)
	require.Nil(t, err)

	corrupt := append([]byte{}, c...)
	corrupt[len(corrupt)/2] ^= 0xff

	tables := []struct {
		name     string
		in       []byte
		expected int
	}{
		{"not zlib", []byte("definitely not zlib"), 10},
		{"truncated", c[:len(c)/2], len(in)},
		{"corrupt", corrupt, len(in)},
		{"too short", c, len(in) + 1},
		{"too long", c, len(in) - 1},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decompress(table.in, table.expected)
			assert.ErrorIs(t, err, ErrDecompress)
		})
	}
}

func TestDecompressSize(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 100)
	c, err := Compress(in)
	require.Nil(t, err)

	tables := []struct {
		name     string
		in       []byte
		expected int
	}{
		{"truncated", c[:len(c)/2], len(in)},
		{"missing checksum", c[:len(c)-2], len(in)},
		{"trailing zeros", append(append([]byte{}, c...), 0, 0, 0), len(in)},
		{"trailing byte", append(append([]byte{}, c...), 0x42), len(in)},
		{"too short", c, len(in) + 1},
		{"too long", c, len(in) - 1},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decompress(table.in, table.expected)
			assert.ErrorIs(t, err, ErrDecompress)
			assert.ErrorIs(t, err, ErrSize)
		})
	}

	_, err = Decompress([]byte("definitely not zlib"), 10)
	assert.ErrorIs(t, err, ErrDecompress)
	assert.NotErrorIs(t, err, ErrSize)
}

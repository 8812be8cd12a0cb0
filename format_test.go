package densecode

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tables := []struct {
		path string
		want Format
		ok   bool
	}{
		{"out", PNG, true},
		{"out.png", PNG, true},
		{"OUT.PNG", PNG, true},
		{"out.bmp", BMP, true},
		{"out.tif", TIFF, true},
		{"out.tiff", TIFF, true},
		{"out.jpg", PNG, false},
	}

	for _, table := range tables {
		f, err := FormatFromPath(table.path)
		if table.ok {
			assert.Nil(t, err, table.path)
			assert.Equal(t, table.want, f, table.path)
		} else {
			assert.NotNil(t, err, table.path)
		}
	}

	assert.Equal(t, ".tif", TIFF.Ext())
	assert.Equal(t, ".bmp", BMP.Ext())
}

func TestWriteReadImage(t *testing.T) {
	in := text(30)
	c := newCodec(true)

	m, _, err := c.Encode(in)
	require.Nil(t, err)

	for _, f := range []Format{PNG, BMP, TIFF} {
		t.Run(f.String(), func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.Nil(t, WriteImage(buf, m, f))

			want := fmt.Sprintf("%X", sha1.Sum(buf.Bytes()))

			got, sum, err := c.ReadImage(bytes.NewReader(buf.Bytes()))
			require.Nil(t, err)
			assert.Equal(t, want, sum)
			assert.Equal(t, m.Bounds(), got.Bounds())

			b, err := c.Decode(got)
			require.Nil(t, err)
			assert.Equal(t, in, b)
		})
	}

	assert.NotNil(t, WriteImage(new(bytes.Buffer), m, Format(99)))
}

func TestReadImageGarbage(t *testing.T) {
	_, _, err := New(nil).ReadImage(bytes.NewReader([]byte("not an image")))
	assert.NotNil(t, err)
}

func TestReadImageTooLarge(t *testing.T) {
	m, info, err := newCodec(false).Encode(random(100, 14))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, WriteImage(buf, m, PNG))

	// Exactly at the limit is fine
	c := New(nil)
	c.MaxSide = info.Side
	_, _, err = c.ReadImage(bytes.NewReader(buf.Bytes()))
	assert.Nil(t, err)

	c.MaxSide = info.Side - 1
	_, _, err = c.ReadImage(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.Equal(t, KindInputTooLarge, KindOf(err))
}

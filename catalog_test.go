package densecode

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "densecode.db")

	cat, err := OpenCatalog(file)
	require.Nil(t, err)
	defer cat.Close()

	c := newCodec(true)

	_, a, err := c.Encode(text(10))
	require.Nil(t, err)
	_, b, err := c.Encode(random(100, 11))
	require.Nil(t, err)

	ida, err := cat.Record("a.txt", "AAAA", a)
	require.Nil(t, err)
	idb, err := cat.Record("b.bin", "BBBB", b)
	require.Nil(t, err)
	assert.NotEqual(t, ida, idb)

	e, err := cat.FindBySHA1("AAAA")
	require.Nil(t, err)
	require.NotNil(t, e)
	assert.Equal(t, ida, e.ID)
	assert.Equal(t, "a.txt", e.Name)
	assert.Equal(t, a.Header, e.Info.Header)
	assert.Equal(t, a.Side, e.Info.Side)
	assert.Equal(t, a.DataCells, e.Info.DataCells)
	assert.Equal(t, a.Pitch, e.Info.Pitch)

	e, err = cat.FindBySHA1("CCCC")
	assert.Nil(t, err)
	assert.Nil(t, e)

	entries, err := cat.FindByCRC(b.CRC)
	require.Nil(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.bin", entries[0].Name)

	// Recording the same image again renames it
	id, err := cat.Record("renamed.bin", "BBBB", b)
	require.Nil(t, err)
	assert.Equal(t, idb, id)

	entries, err = cat.List()
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "renamed.bin", entries[1].Name)
}

func TestCatalogReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "densecode.db")

	_, info, err := newCodec(false).Encode([]byte("hello"))
	require.Nil(t, err)

	cat, err := OpenCatalog(file)
	require.Nil(t, err)
	_, err = cat.Record("hello.txt", "0123", info)
	require.Nil(t, err)
	require.Nil(t, cat.Close())

	cat, err = OpenCatalog(file)
	require.Nil(t, err)
	defer cat.Close()

	entries, err := cat.List()
	require.Nil(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, info.Header, entries[0].Info.Header)
}

package densecode

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/tile"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is a lossless image file format an encoded image can be written
// in.
type Format int

// Supported formats.
const (
	PNG Format = iota
	BMP
	TIFF
)

var errUnknownFormat = errors.New("densecode: unknown image format")

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// Ext returns the usual file extension for f.
func (f Format) Ext() string {
	switch f {
	case TIFF:
		return ".tif"
	default:
		return "." + f.String()
	}
}

// FormatFromPath picks a format from the extension of path, defaulting to
// PNG.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return PNG, fmt.Errorf("%w: %s", errUnknownFormat, filepath.Ext(path))
	}
}

// WriteImage writes m to w in format f.
func WriteImage(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		e := png.Encoder{CompressionLevel: png.BestCompression}
		return e.Encode(w, m)
	case BMP:
		return bmp.Encode(w, m)
	case TIFF:
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errUnknownFormat
	}
}

// ReadImage decodes an image from r in any registered format and returns
// it along with the SHA-1 of the file, in hex. An image too big to hold a
// grid within MaxSide is rejected before its pixels are decoded.
func (c *Codec) ReadImage(r io.Reader) (image.Image, string, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, "", err
	}

	limit := c.MaxSide
	if limit <= 0 {
		limit = layout.DefaultMaxSide
	}
	if px := limit * tile.Size; cfg.Width > px || cfg.Height > px {
		return nil, "", fmt.Errorf("%w: %dx%d pixels exceeds limit of %d", ErrInputTooLarge, cfg.Width, cfg.Height, px)
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", err
	}

	return m, fmt.Sprintf("%X", sha1.Sum(b)), nil
}

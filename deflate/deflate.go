/*
Package deflate wraps the zlib compression applied to densecode payloads.

Compression always runs at the best compression level; image area costs far
more than encoding time.
*/
package deflate

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	// ErrDecompress is returned for any stream that cannot be inflated to
	// exactly the expected bytes.
	ErrDecompress = errors.New("deflate: decompression failed")
	// ErrSize is also wrapped when the stream is well formed as far as it
	// goes but its length, or the length it inflates to, is wrong.
	ErrSize = errors.New("deflate: size mismatch")
)

// Compress returns b as a zlib stream.
func Compress(b []byte) ([]byte, error) {
	buf := new(bytes.Buffer)

	w, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(b); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates the zlib stream in b, which must produce exactly
// expected bytes and end exactly at the end of b.
func Decompress(b []byte, expected int) ([]byte, error) {
	br := bytes.NewReader(b)

	r, err := zlib.NewReader(br)
	if err != nil {
		return nil, wrap(err)
	}
	defer r.Close()

	// Read one byte more than expected to catch overlong streams
	out := new(bytes.Buffer)
	if _, err := io.Copy(out, io.LimitReader(r, int64(expected)+1)); err != nil {
		return nil, wrap(err)
	}

	if out.Len() != expected {
		return nil, fmt.Errorf("%w: %w: got %d bytes, expected %d", ErrDecompress, ErrSize, out.Len(), expected)
	}

	// Run the stream to its end so the checksum trailer is read
	var one [1]byte
	switch _, err := io.ReadFull(r, one[:]); err {
	case io.EOF:
	case nil:
		return nil, fmt.Errorf("%w: %w: more than %d bytes", ErrDecompress, ErrSize, expected)
	default:
		return nil, wrap(err)
	}

	if br.Len() > 0 {
		return nil, fmt.Errorf("%w: %w: %d bytes after end of stream", ErrDecompress, ErrSize, br.Len())
	}

	return out.Bytes(), nil
}

// wrap marks a stream that ran out of input as a size mismatch.
func wrap(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w: truncated stream", ErrDecompress, ErrSize)
	}
	return fmt.Errorf("%w: %v", ErrDecompress, err)
}

package densecode

import (
	"errors"

	"github.com/bodgit/densecode/crc32"
	"github.com/bodgit/densecode/deflate"
	"github.com/bodgit/densecode/header"
	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/palette"
	"github.com/bodgit/densecode/scan"
)

// The errors returned by Encode, Decode and Inspect wrap one of these.
var (
	ErrHeaderCorrupt    = header.ErrCorrupt
	ErrChecksumMismatch = crc32.ErrMismatch
	ErrDecompression    = deflate.ErrDecompress
	ErrAlignment        = scan.ErrAlignment
	ErrUnreadableCell   = palette.ErrUnreadable
	ErrInputTooLarge    = layout.ErrTooLarge
)

// Kind classifies an error for reporting.
type Kind int

// Kinds in exit code order, starting at 1 for anything unrecognised.
const (
	KindOther Kind = iota + 1
	KindHeaderCorrupt
	KindChecksumMismatch
	KindDecompression
	KindAlignment
	KindUnreadableCell
	KindInputTooLarge
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrHeaderCorrupt, KindHeaderCorrupt},
	{ErrChecksumMismatch, KindChecksumMismatch},
	{ErrDecompression, KindDecompression},
	{ErrAlignment, KindAlignment},
	{ErrUnreadableCell, KindUnreadableCell},
	{ErrInputTooLarge, KindInputTooLarge},
}

// KindOf returns the Kind of err, or zero if err is nil.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindOther
}

// ExitCode returns the process exit status to use for err.
func ExitCode(err error) int {
	return int(KindOf(err))
}

func (k Kind) String() string {
	switch k {
	case 0:
		return "none"
	case KindHeaderCorrupt:
		return "header corrupt"
	case KindChecksumMismatch:
		return "checksum mismatch"
	case KindDecompression:
		return "decompression error"
	case KindAlignment:
		return "alignment failure"
	case KindUnreadableCell:
		return "unreadable cell"
	case KindInputTooLarge:
		return "input too large"
	default:
		return "error"
	}
}

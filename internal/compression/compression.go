// Package compression wraps archive streams in an optional compression
// layer and detects it on the way back in.
package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies a whole-archive compression format.
type Algorithm uint8

const (
	None Algorithm = iota
	Gzip
	Zstd
	LZ4
)

// ErrUnknown is returned by Parse for unrecognized algorithm names.
var ErrUnknown = errors.New("unknown compression algorithm")

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Extension returns the conventional file suffix, including the dot.
func (a Algorithm) Extension() string {
	switch a {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// Parse returns the algorithm named s.
func Parse(s string) (Algorithm, error) {
	switch s {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Frame magic numbers.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect identifies the compression of a stream from its leading bytes.
func Detect(prefix []byte) Algorithm {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return Zstd
	case bytes.HasPrefix(prefix, lz4Magic):
		return LZ4
	case bytes.HasPrefix(prefix, gzipMagic):
		return Gzip
	}
	return None
}

// NewWriter wraps w so that written bytes are compressed with a. Closing the
// returned writer flushes the compressor but does not close w.
func NewWriter(w io.Writer, a Algorithm) (io.WriteCloser, error) {
	switch a {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknown, a)
}

// NewReader sniffs the compression of r and returns a reader yielding the
// decompressed stream. Uncompressed input is passed through. The returned
// closer releases decoder resources and does not close r.
func NewReader(r io.Reader) (io.ReadCloser, Algorithm, error) {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}

	a := Detect(prefix)
	switch a {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, a, fmt.Errorf("open gzip stream: %w", err)
		}
		return zr, a, nil
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, a, fmt.Errorf("open zstd stream: %w", err)
		}
		return dec.IOReadCloser(), a, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), a, nil
	}
	return io.NopCloser(br), None, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

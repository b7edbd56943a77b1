package cpio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/meigma/bincpio/core/internal/header"
)

// ValidateHeader reads the first fixed header from r and checks its magic
// number. Fields are read little-endian. It returns ErrTruncatedHeader if r
// holds fewer than HeaderSize bytes and ErrInvalidMagic on a mismatch.
func ValidateHeader(r io.Reader) error {
	var buf [header.Size]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return truncated(err, ErrTruncatedHeader)
	}
	if magic := binary.LittleEndian.Uint16(buf[:2]); magic != header.Magic {
		return fmt.Errorf("%w: %#04x", ErrInvalidMagic, magic)
	}
	return nil
}

// IsHeaderValid reports whether the file at path starts with a complete
// header carrying the old binary magic number. Unreadable files are invalid.
func IsHeaderValid(path string) bool {
	f, err := os.Open(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return false
	}
	defer f.Close()
	return ValidateHeader(f) == nil
}

// IsDataValid reports whether data starts with the old binary magic number.
// Only the first two bytes are inspected.
func IsDataValid(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return binary.LittleEndian.Uint16(data) == header.Magic
}

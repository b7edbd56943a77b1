// Package header packs and unpacks the fixed 26-byte old binary cpio header.
//
// The codec performs field extraction only. Magic checks, trailer detection
// and size validation belong to the callers.
package header

import (
	"encoding/binary"
	"math"
)

const (
	// Size is the length of the fixed header in bytes.
	Size = 26

	// Magic identifies an old binary cpio record.
	Magic uint16 = 0x71C7

	// ModeRegular is the mode emitted for every file record: a regular file
	// with rw-r--r-- style permissions.
	ModeRegular uint16 = 0x81ED

	// TrailerName is the name of the end-of-archive record.
	TrailerName = "TRAILER!!!"

	// TrailerNameSize is the namesize field of the trailer (name plus NUL).
	TrailerNameSize uint16 = uint16(len(TrailerName)) + 1

	// MaxNameLen is the longest name, excluding the NUL, that fits namesize.
	MaxNameLen = math.MaxUint16 - 1

	// MaxFileSize is the largest content length the split size field holds.
	MaxFileSize = math.MaxUint32
)

// Raw holds the thirteen 16-bit header fields as they appear on the wire.
// ModTime and FileSize are stored high half first.
type Raw struct {
	Magic    uint16
	Dev      uint16
	Ino      uint16
	Mode     uint16
	UID      uint16
	GID      uint16
	NLink    uint16
	RDev     uint16
	ModTime  [2]uint16
	NameSize uint16
	FileSize [2]uint16
}

// NewFile returns the header for a regular file record. Non-essential
// fields are zero and mode is always ModeRegular.
func NewFile(mtime, size uint32, nameLen int) Raw {
	return Raw{
		Magic:    Magic,
		Mode:     ModeRegular,
		ModTime:  Split32(mtime),
		NameSize: uint16(nameLen + 1), //nolint:gosec // callers bound nameLen by MaxNameLen
		FileSize: Split32(size),
	}
}

// Trailer returns the end-of-archive header.
func Trailer() Raw {
	return Raw{Magic: Magic, NameSize: TrailerNameSize}
}

// Encode packs h into its wire form using order for every 16-bit field.
func Encode(order binary.ByteOrder, h Raw) [Size]byte {
	var b [Size]byte
	fields := h.fields()
	for i, v := range fields {
		order.PutUint16(b[i*2:], v)
	}
	return b
}

// Decode unpacks a header from b, which must hold at least Size bytes.
func Decode(order binary.ByteOrder, b []byte) Raw {
	_ = b[Size-1]
	u := func(i int) uint16 { return order.Uint16(b[i*2:]) }
	return Raw{
		Magic:    u(0),
		Dev:      u(1),
		Ino:      u(2),
		Mode:     u(3),
		UID:      u(4),
		GID:      u(5),
		NLink:    u(6),
		RDev:     u(7),
		ModTime:  [2]uint16{u(8), u(9)},
		NameSize: u(10),
		FileSize: [2]uint16{u(11), u(12)},
	}
}

func (h Raw) fields() [Size / 2]uint16 {
	return [Size / 2]uint16{
		h.Magic, h.Dev, h.Ino, h.Mode, h.UID, h.GID, h.NLink, h.RDev,
		h.ModTime[0], h.ModTime[1], h.NameSize, h.FileSize[0], h.FileSize[1],
	}
}

// Size returns the recombined content length.
func (h Raw) Size() uint32 {
	return Join32(h.FileSize)
}

// MTime returns the recombined modification time in epoch seconds.
func (h Raw) MTime() uint32 {
	return Join32(h.ModTime)
}

// IsZeroTrailer reports whether h is an all-zero end marker: inode and
// namesize both zero. Archives padded to a block boundary end this way.
func (h Raw) IsZeroTrailer() bool {
	return h.Ino == 0 && h.NameSize == 0
}

// Padding returns the number of zero bytes that follow a field of length n.
// It applies to the name field (namesize) and the content field alike.
func Padding[T ~int | ~int64 | ~uint16 | ~uint32](n T) T {
	return n & 1
}

// Split32 splits v into its high and low halves, high half first.
func Split32(v uint32) [2]uint16 {
	return [2]uint16{uint16(v >> 16), uint16(v & 0xFFFF)} //nolint:gosec // masked
}

// Join32 is the inverse of Split32.
func Join32(halves [2]uint16) uint32 {
	return uint32(halves[0])<<16 | uint32(halves[1])
}

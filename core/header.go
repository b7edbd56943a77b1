package cpio

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meigma/bincpio/core/internal/header"
)

// Format constants of the old binary cpio record.
const (
	// HeaderSize is the length of the fixed record header.
	HeaderSize = header.Size

	// Magic is the magic number that starts every record, the trailer included.
	Magic = header.Magic

	// ModeRegular is the mode written for every file record.
	ModeRegular = header.ModeRegular

	// TrailerName is the name of the end-of-archive record.
	TrailerName = header.TrailerName

	// MaxNameLen is the longest name, in bytes and excluding the NUL, that
	// a record can carry.
	MaxNameLen = header.MaxNameLen

	// MaxFileSize is the largest content length a record can declare.
	MaxFileSize = header.MaxFileSize
)

// Header describes one record of an archive.
//
// Writer uses only Name, Size and ModTime. Every other field is populated by
// Reader from the wire and ignored when writing: records are always written
// with ModeRegular and zero device, inode, owner and link fields.
type Header struct {
	Name    string    // archive name, NUL stripped
	Size    int64     // content length in bytes
	ModTime time.Time // modification time, second precision

	Mode     uint16
	Dev      uint16
	Inode    uint16
	UID      uint16
	GID      uint16
	NLink    uint16
	RDev     uint16
	NameSize uint16 // namesize field as stored: len(Name)+1
}

func headerFromRaw(raw header.Raw, name string) *Header {
	return &Header{
		Name:     name,
		Size:     int64(raw.Size()),
		ModTime:  time.Unix(int64(raw.MTime()), 0),
		Mode:     raw.Mode,
		Dev:      raw.Dev,
		Inode:    raw.Ino,
		UID:      raw.UID,
		GID:      raw.GID,
		NLink:    raw.NLink,
		RDev:     raw.RDev,
		NameSize: raw.NameSize,
	}
}

// validateHeader checks that hdr can be represented by a record.
func validateHeader(hdr *Header) error {
	switch {
	case hdr.Name == "":
		return fmt.Errorf("%w: empty name", ErrPathResolution)
	case strings.IndexByte(hdr.Name, 0) >= 0:
		return fmt.Errorf("%w: name %q contains NUL", ErrPathResolution, hdr.Name)
	case hdr.Name == TrailerName:
		return fmt.Errorf("%w: %q is reserved for the trailer", ErrPathResolution, hdr.Name)
	case len(hdr.Name) > MaxNameLen:
		return fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(hdr.Name), MaxNameLen)
	case hdr.Size < 0:
		return fmt.Errorf("%w: negative size %d", ErrContentTooLarge, hdr.Size)
	case hdr.Size > MaxFileSize:
		return fmt.Errorf("%w: %d bytes, max %d", ErrContentTooLarge, hdr.Size, uint64(MaxFileSize))
	}
	return nil
}

// unixSeconds converts t to the unsigned 32-bit seconds stored in a record,
// clamping times outside 1970..2106.
func unixSeconds(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	s := t.Unix()
	switch {
	case s < 0:
		return 0
	case s > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(s)
}

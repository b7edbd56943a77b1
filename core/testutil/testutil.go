// Package testutil builds archive bytes by hand for tests, independently of
// the package's own encoder.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	magic       = 0x71C7
	modeRegular = 0x81ED
	trailerName = "TRAILER!!!"
)

// Fields lists the raw header values of a hand-built record.
type Fields struct {
	Magic    uint16
	Ino      uint16
	Mode     uint16
	MTime    uint32
	NameSize uint16
	FileSize uint32
}

// FileFields returns the fields a conforming encoder writes for a file.
func FileFields(name string, size int, mtime uint32) Fields {
	return Fields{
		Magic:    magic,
		Mode:     modeRegular,
		MTime:    mtime,
		NameSize: uint16(len(name) + 1), //nolint:gosec // test names are short
		FileSize: uint32(size),          //nolint:gosec // test content is small
	}
}

// Header encodes f as a 26-byte header.
func Header(order binary.ByteOrder, f Fields) []byte {
	words := [13]uint16{
		f.Magic, 0, f.Ino, f.Mode, 0, 0, 0, 0,
		uint16(f.MTime >> 16), uint16(f.MTime), //nolint:gosec // intentional split
		f.NameSize,
		uint16(f.FileSize >> 16), uint16(f.FileSize), //nolint:gosec // intentional split
	}
	b := make([]byte, 26)
	for i, w := range words {
		order.PutUint16(b[2*i:], w)
	}
	return b
}

// Record returns a complete record: header, NUL-terminated name, name
// padding, content and content padding.
func Record(order binary.ByteOrder, name string, content []byte, mtime uint32) []byte {
	return Raw(order, FileFields(name, len(content), mtime), name, content)
}

// Raw lays out a record with arbitrary header fields. The name is written
// with its NUL and padded per f.NameSize; content is written as given and
// padded per its own length. Mismatched fields produce malformed archives.
func Raw(order binary.ByteOrder, f Fields, name string, content []byte) []byte {
	b := Header(order, f)
	b = append(b, name...)
	b = append(b, 0)
	if f.NameSize%2 == 1 {
		b = append(b, 0)
	}
	b = append(b, content...)
	if len(content)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// ShortNameRecord lays out a record the way producers expecting the
// namesize-1 name read do: the name has no NUL and is padded with one byte
// when namesize is even.
func ShortNameRecord(order binary.ByteOrder, name string, content []byte) []byte {
	f := FileFields(name, len(content), 0)
	b := Header(order, f)
	b = append(b, name...)
	if f.NameSize%2 == 0 {
		b = append(b, 0)
	}
	b = append(b, content...)
	if len(content)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// Trailer returns the conventional trailer record.
func Trailer(order binary.ByteOrder) []byte {
	f := Fields{Magic: magic, NameSize: uint16(len(trailerName) + 1)}
	return Raw(order, f, trailerName, nil)
}

// ZeroTrailer returns a header whose fields are all zero.
func ZeroTrailer() []byte {
	return make([]byte, 26)
}

// Archive concatenates records and appends the trailer.
func Archive(order binary.ByteOrder, records ...[]byte) []byte {
	var b []byte
	for _, r := range records {
		b = append(b, r...)
	}
	return append(b, Trailer(order)...)
}

// DeviceChunk frames one file in the device data layout: a 30-byte
// descriptor followed by the name and the content.
func DeviceChunk(name string, content []byte, mtime uint32) []byte {
	d := make([]byte, 30)
	binary.LittleEndian.PutUint32(d[8:], mtime)
	binary.LittleEndian.PutUint16(d[16:], uint16(len(name)))    //nolint:gosec // test names are short
	binary.LittleEndian.PutUint32(d[18:], uint32(len(content))) //nolint:gosec // test content is small
	d = append(d, name...)
	return append(d, content...)
}

// WriteTree creates files below root from a map of slash-separated relative
// paths to contents.
func WriteTree(tb testing.TB, root string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			tb.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			tb.Fatal(err)
		}
	}
}

// SetModTime sets both access and modification time of path.
func SetModTime(tb testing.TB, path string, t time.Time) {
	tb.Helper()
	if err := os.Chtimes(path, t, t); err != nil {
		tb.Fatal(err)
	}
}

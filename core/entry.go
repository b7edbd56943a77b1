package cpio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

// Entry is a file to be written to an archive.
type Entry struct {
	// Name is the archive name, ASCII in practice.
	Name string

	// Size is the exact number of content bytes Open yields.
	Size int64

	// ModTime is stored as unsigned 32-bit epoch seconds.
	ModTime time.Time

	// Open returns the content source. It is called once, right before the
	// record is written, and the result is closed afterwards. It may be nil
	// for empty entries.
	Open func() (io.ReadCloser, error)
}

// BytesEntry returns an Entry backed by an in-memory slice.
func BytesEntry(name string, data []byte, modTime time.Time) Entry {
	return Entry{
		Name:    name,
		Size:    int64(len(data)),
		ModTime: modTime,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileEntry returns an Entry for the regular file at path, archived under
// name. Size and modification time are read now; the file is opened lazily.
func FileEntry(path, name string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	if !info.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("not a regular file: %s", path)
	}
	return Entry{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec // caller-provided path is intentional
		},
	}, nil
}

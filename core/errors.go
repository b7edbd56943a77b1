package cpio

import (
	"errors"
	"fmt"
)

// Sentinel errors for archive operations.
var (
	// ErrInvalidMagic is returned when a data record does not start with the
	// old binary magic number.
	ErrInvalidMagic = errors.New("cpio: invalid magic")

	// ErrTruncatedHeader is returned when the stream ends before a full
	// 26-byte header could be read, including archives with no trailer.
	ErrTruncatedHeader = errors.New("cpio: truncated header")

	// ErrTruncatedName is returned when the stream ends inside a name field.
	ErrTruncatedName = errors.New("cpio: truncated name")

	// ErrTruncatedContent is returned when the stream ends before the
	// declared content length was consumed.
	ErrTruncatedContent = errors.New("cpio: truncated content")

	// ErrNameTooLong is returned when a name plus its NUL does not fit the
	// 16-bit namesize field.
	ErrNameTooLong = errors.New("cpio: name too long")

	// ErrContentTooLarge is returned when content exceeds the 32-bit size field.
	ErrContentTooLarge = errors.New("cpio: content too large")

	// ErrPathResolution is returned when a name cannot be turned into a
	// usable path, for example when sanitization leaves nothing.
	ErrPathResolution = errors.New("cpio: path resolution failed")

	// ErrWriteTooLong is returned when more content is written than the
	// header declared.
	ErrWriteTooLong = errors.New("cpio: write too long")

	// ErrMissingContent is returned when a record is finished before all
	// declared content was written.
	ErrMissingContent = errors.New("cpio: missing content")

	// ErrWriterClosed is returned when writing to a closed Writer.
	ErrWriterClosed = errors.New("cpio: writer closed")
)

// RecordError describes a failure tied to one record of an archive.
type RecordError struct {
	// Index is the zero-based position of the record in the archive.
	Index int

	// Name is the record name, empty if the failure happened before the
	// name was read.
	Name string

	// Err is the underlying cause.
	Err error
}

func (e *RecordError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

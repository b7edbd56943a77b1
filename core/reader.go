package cpio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meigma/bincpio/core/internal/header"
)

// Reader provides sequential access to the records of an archive.
//
// Next advances to the next record (including the first), after which the
// Reader can be treated as an io.Reader over that record's content. The
// format has no index: a record boundary is only known once the preceding
// header has been parsed.
type Reader struct {
	r             io.Reader
	order         binary.ByteOrder
	legacyTrailer bool
	shortNames    bool

	hdr       *Header
	remaining int64 // unread content bytes of the current record
	pad       int64 // padding after the current record's content
	index     int   // index of the next record
	err       error // sticky terminal error
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// ReadWithByteOrder sets the byte order of every 16-bit header field.
// The default is binary.LittleEndian.
func ReadWithByteOrder(order binary.ByteOrder) ReaderOption {
	return func(r *Reader) {
		if order != nil {
			r.order = order
		}
	}
}

// ReadWithLegacyTrailerMatch ends the scan on any record whose name
// contains the trailer name, instead of only on an exact match.
func ReadWithLegacyTrailerMatch(enabled bool) ReaderOption {
	return func(r *Reader) {
		r.legacyTrailer = enabled
	}
}

// ReadWithShortNames reads namesize-1 name bytes and skips one padding byte
// when namesize is even. Some producers lay names out this way; archives
// written by Writer only decode correctly in this mode when every namesize
// is even.
func ReadWithShortNames(enabled bool) ReaderOption {
	return func(r *Reader) {
		r.shortNames = enabled
	}
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	cr := &Reader{r: r, order: binary.LittleEndian}
	for _, opt := range opts {
		opt(cr)
	}
	return cr
}

// Next advances to the next record, discarding any unread content of the
// current one. It returns io.EOF once the trailer is reached.
//
// A header whose inode and namesize are both zero is a trailer and is
// recognized before the magic number is checked, so a stream of 26 zero
// bytes reads as an empty archive even though ValidateHeader rejects it.
//
// Errors are terminal: a stream that ends before the trailer yields
// ErrTruncatedHeader, and every later call returns the same error.
func (r *Reader) Next() (*Header, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.hdr != nil {
		if skip := r.remaining + r.pad; skip > 0 {
			if _, err := io.CopyN(io.Discard, r.r, skip); err != nil {
				r.err = r.recordErr(r.index-1, r.hdr.Name, truncated(err, ErrTruncatedContent))
				return nil, r.err
			}
		}
		r.hdr, r.remaining, r.pad = nil, 0, 0
	}

	hdr, err := r.next()
	if err != nil {
		r.err = err
		return nil, err
	}
	r.hdr = hdr
	r.remaining = hdr.Size
	r.pad = header.Padding(hdr.Size)
	r.index++
	return hdr, nil
}

func (r *Reader) next() (*Header, error) {
	var buf [header.Size]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return nil, r.recordErr(r.index, "", truncated(err, ErrTruncatedHeader))
	}

	raw := header.Decode(r.order, buf[:])
	if raw.IsZeroTrailer() {
		return nil, io.EOF
	}
	if raw.Magic != header.Magic {
		return nil, r.recordErr(r.index, "", fmt.Errorf("%w: %#04x", ErrInvalidMagic, raw.Magic))
	}

	name, err := r.readName(raw.NameSize)
	if err != nil {
		return nil, err
	}
	if r.isTrailer(name) {
		return nil, io.EOF
	}
	if err := r.skipNamePadding(raw.NameSize, name); err != nil {
		return nil, err
	}
	return headerFromRaw(raw, name), nil
}

// readName reads the name field and strips its NUL terminator.
func (r *Reader) readName(nameSize uint16) (string, error) {
	n := int(nameSize)
	if r.shortNames && n > 0 {
		n--
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", r.recordErr(r.index, "", truncated(err, ErrTruncatedName))
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

func (r *Reader) skipNamePadding(nameSize uint16, name string) error {
	pad := header.Padding(nameSize)
	if r.shortNames {
		pad = 1 - pad
	}
	if pad == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r.r, int64(pad)); err != nil {
		return r.recordErr(r.index, name, truncated(err, ErrTruncatedName))
	}
	return nil
}

func (r *Reader) isTrailer(name string) bool {
	if r.legacyTrailer {
		return strings.Contains(name, TrailerName)
	}
	return name == TrailerName
}

// Read reads content of the current record. It returns (0, io.EOF) at the
// end of the record, and ErrTruncatedContent if the stream ends first.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.hdr == nil || r.remaining == 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.r.Read(p)
	r.remaining -= int64(n)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF) && r.remaining == 0:
		return n, nil
	case errors.Is(err, io.EOF):
		r.err = r.recordErr(r.index-1, r.hdr.Name, fmt.Errorf("%w: %d bytes missing", ErrTruncatedContent, r.remaining))
		return n, r.err
	default:
		r.err = r.recordErr(r.index-1, r.hdr.Name, fmt.Errorf("read content: %w", err))
		return n, r.err
	}
}

// Remaining returns the number of unread content bytes of the current record.
func (r *Reader) Remaining() int64 {
	return r.remaining
}

func (r *Reader) recordErr(index int, name string, err error) error {
	return &RecordError{Index: index, Name: name, Err: err}
}

// truncated maps end-of-stream errors to sentinel and wraps anything else
// as an I/O failure.
func truncated(err, sentinel error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return sentinel
	}
	return fmt.Errorf("read: %w", err)
}

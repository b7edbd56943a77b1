package cpio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/meigma/bincpio/core/internal/header"
)

// Writer writes an old binary cpio archive sequentially.
//
// Call WriteHeader to begin a record, then Write exactly Header.Size bytes of
// content. Close writes the trailer. Writer does not buffer content: memory
// use is independent of record size.
type Writer struct {
	w         io.Writer
	order     binary.ByteOrder
	remaining int64 // content bytes still owed for the current record
	pad       int64 // padding owed after the current record's content
	records   int
	closed    bool
	err       error // sticky error from the underlying writer
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WriteWithByteOrder sets the byte order of every 16-bit header field.
// The default is binary.LittleEndian.
func WriteWithByteOrder(order binary.ByteOrder) WriterOption {
	return func(w *Writer) {
		if order != nil {
			w.order = order
		}
	}
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	cw := &Writer{w: w, order: binary.LittleEndian}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// WriteHeader finishes the current record and writes the header and name of
// the next one.
//
// Size and name limits are checked before anything is written, so a rejected
// header leaves the archive intact and the Writer usable.
func (w *Writer) WriteHeader(hdr *Header) error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := validateHeader(hdr); err != nil {
		return err
	}

	raw := header.NewFile(unixSeconds(hdr.ModTime), uint32(hdr.Size), len(hdr.Name)) //nolint:gosec // size validated above
	if err := w.writeHead(raw, hdr.Name); err != nil {
		return err
	}
	w.remaining = hdr.Size
	w.pad = header.Padding(hdr.Size)
	w.records++
	return nil
}

// Write writes content for the current record. It returns ErrWriteTooLong
// if more than Header.Size bytes are written in total.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	tooLong := false
	if int64(len(p)) > w.remaining {
		p = p[:w.remaining]
		tooLong = true
	}
	n, err := w.w.Write(p)
	w.remaining -= int64(n)
	if err != nil {
		w.err = err
		return n, err
	}
	if tooLong {
		return n, ErrWriteTooLong
	}
	return n, nil
}

// Flush finishes the current record by writing its content padding.
// It returns ErrMissingContent if the record's content is incomplete.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.remaining > 0 {
		return fmt.Errorf("%w: %d bytes", ErrMissingContent, w.remaining)
	}
	if w.pad > 0 {
		if err := w.write(make([]byte, w.pad)); err != nil {
			return err
		}
		w.pad = 0
	}
	return nil
}

// Close finishes the current record and writes the trailer. It does not
// close the underlying writer. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.writeHead(header.Trailer(), TrailerName); err != nil {
		return err
	}
	w.closed = true
	return nil
}

// Records returns the number of file records started so far.
func (w *Writer) Records() int {
	return w.records
}

// writeHead writes the fixed header, the name, its NUL and the name padding
// in a single call.
func (w *Writer) writeHead(raw header.Raw, name string) error {
	hb := header.Encode(w.order, raw)
	buf := make([]byte, 0, header.Size+int(raw.NameSize)+1)
	buf = append(buf, hb[:]...)
	buf = append(buf, name...)
	buf = append(buf, 0)
	if header.Padding(raw.NameSize) == 1 {
		buf = append(buf, 0)
	}
	return w.write(buf)
}

func (w *Writer) write(p []byte) error {
	if _, err := w.w.Write(p); err != nil {
		w.err = err
		return err
	}
	return nil
}

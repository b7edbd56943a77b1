package cpio

import (
	"errors"
	"io"
)

// DefaultBufferSize is the size of the intermediate buffer used to stream
// record content.
const DefaultBufferSize = 4096

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// copyExact copies exactly n bytes from src to dst through buf, looping until
// n is consumed. It returns io.ErrUnexpectedEOF if src ends first.
//
// Unlike io.CopyBuffer it never hands the copy to ReaderFrom or WriterTo, so
// buf is the only intermediate storage.
func copyExact(dst io.Writer, src io.Reader, n int64, buf []byte) (int64, error) {
	var written int64
	empty := 0
	for written < n {
		chunk := buf
		if rem := n - written; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		nr, rerr := src.Read(chunk)
		if nr > 0 {
			empty = 0
			nw, werr := dst.Write(chunk[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if written < n {
					return written, io.ErrUnexpectedEOF
				}
				return written, nil
			}
			return written, rerr
		}
		if nr == 0 {
			empty++
			if empty >= maxEmptyReads {
				return written, io.ErrNoProgress
			}
		}
	}
	return written, nil
}

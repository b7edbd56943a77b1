package cpio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/meigma/bincpio/core/internal/platform"
	"github.com/meigma/bincpio/core/internal/walk"
)

// Create writes entries, in order, as an archive to w and finishes it with
// the trailer.
//
// Each entry is validated before any of its bytes are written; a name or size
// the format cannot represent fails with ErrNameTooLong or
// ErrContentTooLarge wrapped in a *RecordError. Content is streamed through a
// fixed-size buffer. The context is checked between records.
func Create(ctx context.Context, w io.Writer, entries []Entry, opts ...CreateOption) error {
	cfg := newCreateConfig(opts)
	a := &archiver{cfg: cfg, logger: cfg.logger}
	return a.write(ctx, w, entries)
}

// CreateFromFiles archives the regular files at paths, in order.
//
// Each file is archived under its path normalized to a relative
// slash-separated name, or under its base name with CreateWithBaseNames.
// Size and modification time come from the filesystem.
func CreateFromFiles(ctx context.Context, w io.Writer, paths []string, opts ...CreateOption) error {
	cfg := newCreateConfig(opts)
	a := &archiver{cfg: cfg, logger: cfg.logger}
	a.cfg.progress.report(ProgressEvent{Stage: StageEnumerating})

	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		name := NormalizePath(p)
		if cfg.baseNames {
			name = filepath.Base(p)
		}
		e, err := FileEntry(p, name)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	return a.write(ctx, w, entries)
}

// CreateFromDir archives every regular file below dir, walked recursively
// in lexical order. Names are relative to dir, or base names with
// CreateWithBaseNames. Symbolic links are not followed and empty directories
// are not preserved.
func CreateFromDir(ctx context.Context, dir string, w io.Writer, opts ...CreateOption) error {
	cfg := newCreateConfig(opts)
	a := &archiver{cfg: cfg, logger: cfg.logger}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	a.log().Info("creating archive", "dir", dir)
	a.cfg.progress.report(ProgressEvent{Stage: StageEnumerating})

	files, err := walk.Files(ctx, root)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		name := f.Path
		if cfg.baseNames {
			name = path.Base(f.Path)
		}
		fsPath := filepath.FromSlash(f.Path)
		entries = append(entries, Entry{
			Name:    name,
			Size:    f.Size,
			ModTime: f.ModTime,
			Open: func() (io.ReadCloser, error) {
				file, info, err := platform.OpenRegular(root, fsPath)
				if err != nil {
					return nil, err
				}
				if info.Size() != f.Size {
					file.Close()
					return nil, fmt.Errorf("file changed during archive creation: %s", f.Path)
				}
				return file, nil
			},
		})
	}
	return a.write(ctx, w, entries)
}

// Layout of a device data descriptor. Every multi-byte field is
// little-endian; the remaining bytes of the descriptor are unused.
const (
	deviceDescriptorSize = 30
	deviceModTimeOffset  = 8
	deviceNameSizeOffset = 16
	deviceFileSizeOffset = 18
)

// CreateFromDeviceData re-frames device-sourced data into an archive.
//
// data is a sequence of chunks, each a 30-byte descriptor (modification time
// as uint32 at offset 8, name length as uint16 at offset 16, content length
// as uint32 at offset 18) followed by the name bytes and the content bytes.
// The whole buffer is parsed before anything is written, so malformed data
// leaves w untouched.
func CreateFromDeviceData(ctx context.Context, w io.Writer, data []byte, opts ...CreateOption) error {
	cfg := newCreateConfig(opts)
	a := &archiver{cfg: cfg, logger: cfg.logger}

	entries, err := parseDeviceData(data)
	if err != nil {
		return err
	}
	a.log().Debug("parsed device data", "records", len(entries), "bytes", len(data))
	return a.write(ctx, w, entries)
}

func parseDeviceData(data []byte) ([]Entry, error) {
	var entries []Entry
	for off := 0; off < len(data); {
		idx := len(entries)
		if len(data)-off < deviceDescriptorSize {
			return nil, &RecordError{Index: idx, Err: fmt.Errorf("%w: device descriptor at offset %d", ErrTruncatedHeader, off)}
		}
		d := data[off : off+deviceDescriptorSize]
		mtime := binary.LittleEndian.Uint32(d[deviceModTimeOffset:])
		nameLen := int(binary.LittleEndian.Uint16(d[deviceNameSizeOffset:]))
		size := int64(binary.LittleEndian.Uint32(d[deviceFileSizeOffset:]))
		off += deviceDescriptorSize

		if len(data)-off < nameLen {
			return nil, &RecordError{Index: idx, Err: ErrTruncatedName}
		}
		name := string(bytes.TrimRight(data[off:off+nameLen], "\x00"))
		off += nameLen

		if int64(len(data)-off) < size {
			return nil, &RecordError{Index: idx, Name: name, Err: ErrTruncatedContent}
		}
		content := data[off : off+int(size)]
		off += int(size)

		entries = append(entries, BytesEntry(name, content, time.Unix(int64(mtime), 0)))
	}
	return entries, nil
}

// archiver holds state for archive creation.
type archiver struct {
	cfg    createConfig
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (a *archiver) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

func (a *archiver) write(ctx context.Context, w io.Writer, entries []Entry) error {
	cw := NewWriter(w, WriteWithByteOrder(a.cfg.byteOrder))
	buf := make([]byte, a.cfg.bufferSize)

	var bytesDone uint64
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := &entries[i]
		if err := a.writeEntry(cw, e, buf); err != nil {
			return &RecordError{Index: i, Name: e.Name, Err: err}
		}
		bytesDone += uint64(e.Size) //nolint:gosec // validated non-negative
		a.log().Debug("archived record", "name", e.Name, "size", e.Size)
		a.cfg.progress.report(ProgressEvent{
			Stage:      StageArchiving,
			Path:       e.Name,
			BytesDone:  bytesDone,
			FilesDone:  i + 1,
			FilesTotal: len(entries),
		})
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	a.log().Info("archive written", "records", len(entries), "content_bytes", bytesDone)
	return nil
}

// writeEntry validates e, opens its source and writes the record.
func (a *archiver) writeEntry(cw *Writer, e *Entry, buf []byte) error {
	hdr := &Header{Name: e.Name, Size: e.Size, ModTime: e.ModTime}
	if err := validateHeader(hdr); err != nil {
		return err
	}

	src := io.ReadCloser(io.NopCloser(bytes.NewReader(nil)))
	if e.Open != nil {
		var err error
		if src, err = e.Open(); err != nil {
			return fmt.Errorf("open: %w", err)
		}
	} else if e.Size > 0 {
		return errors.New("entry has content but no source")
	}
	defer src.Close()

	if err := cw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := copyExact(cw, src, e.Size, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("content shorter than declared size %d: %w", e.Size, err)
		}
		return err
	}
	return cw.Flush()
}

package cpio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/meigma/bincpio/core/internal/pathutil"
	"github.com/meigma/bincpio/core/internal/sink"
)

// Extract reads the archive from r and writes each record below destDir,
// which is created if needed. Existing files are overwritten.
//
// Extraction stops at the first error: a malformed or truncated archive, an
// unresolvable name or a write failure. A record that fails halfway leaves no
// file behind. The returned Session is never nil; on error it describes the
// records written before the failure so callers can clean them up. Errors
// tied to a record are *RecordError values.
func Extract(ctx context.Context, r io.Reader, destDir string, opts ...ExtractOption) (*Session, error) {
	cfg := newExtractConfig(opts)
	x := &extractor{cfg: cfg, logger: cfg.logger}

	root, err := filepath.Abs(destDir)
	if err != nil {
		return newSession(destDir), fmt.Errorf("resolve destination: %w", err)
	}
	session := newSession(root)

	filters, err := compileFilters(cfg.patterns)
	if err != nil {
		return session, err
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return session, fmt.Errorf("create destination: %w", err)
	}

	x.log().Info("extracting archive", "dest", root, "layout", cfg.layout)
	err = x.run(ctx, NewReader(r, cfg.readerOptions()...), session, filters)
	if err != nil {
		x.log().Debug("extraction aborted", "written", len(session.Paths), "error", err)
		return session, err
	}
	x.log().Info("archive extracted", "files", len(session.Paths), "skipped", len(session.Skipped))
	return session, nil
}

func compileFilters(patterns []string) ([]glob.Glob, error) {
	filters := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", p, err)
		}
		filters = append(filters, g)
	}
	return filters, nil
}

// extractor holds state for a single Extract call.
type extractor struct {
	cfg    extractConfig
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (x *extractor) log() *slog.Logger {
	if x.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return x.logger
}

func (x *extractor) run(ctx context.Context, cr *Reader, session *Session, filters []glob.Glob) error {
	out := sink.New(session.Root,
		sink.WithPreserveTimes(x.cfg.preserveTimes),
		sink.WithDirectWrites(x.cfg.directWrites),
	)
	buf := make([]byte, x.cfg.bufferSize)

	var bytesDone uint64
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		clean := pathutil.Sanitize(hdr.Name)
		if !matches(filters, clean) {
			x.log().Debug("skipped record", "name", hdr.Name)
			session.Skipped = append(session.Skipped, hdr.Name)
			continue
		}

		target, err := x.resolve(session.Root, clean)
		if err != nil {
			return &RecordError{Index: index, Name: hdr.Name, Err: err}
		}
		if err := x.extractRecord(out, cr, hdr, target, buf); err != nil {
			var recErr *RecordError
			if errors.As(err, &recErr) {
				return err
			}
			return &RecordError{Index: index, Name: hdr.Name, Err: err}
		}

		session.record(clean, filepath.Join(session.Root, target))
		bytesDone += uint64(hdr.Size) //nolint:gosec // sizes are never negative
		x.log().Debug("extracted record", "name", hdr.Name, "size", hdr.Size, "path", target)
		x.cfg.progress.report(ProgressEvent{
			Stage:     StageExtracting,
			Path:      hdr.Name,
			BytesDone: bytesDone,
			FilesDone: len(session.Paths),
		})
	}
}

// resolve maps a sanitized name to an OS path relative to root.
func (x *extractor) resolve(root, clean string) (string, error) {
	switch x.cfg.layout {
	case LayoutPreserve:
		rel, err := pathutil.Preserve(root, clean)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrPathResolution, err)
		}
		if rel == "" {
			return "", fmt.Errorf("%w: no file name in %q", ErrPathResolution, clean)
		}
		return rel, nil
	default:
		base := pathutil.Flatten(clean)
		if base == "" {
			return "", fmt.Errorf("%w: no file name in %q", ErrPathResolution, clean)
		}
		return base, nil
	}
}

func (x *extractor) extractRecord(out *sink.FileSink, cr *Reader, hdr *Header, target string, buf []byte) error {
	w, err := out.Writer(target, hdr.ModTime)
	if err != nil {
		return err
	}
	if _, err := copyExact(w, cr, hdr.Size, buf); err != nil {
		if discardErr := w.Discard(); discardErr != nil {
			x.log().Warn("failed to remove partial file", "path", w.Path(), "error", discardErr)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncatedContent
		}
		return err
	}
	return w.Commit()
}

// matches reports whether name passes the filters. No filters match all.
func matches(filters []glob.Glob, name string) bool {
	if len(filters) == 0 {
		return true
	}
	slashed := strings.ReplaceAll(name, `\`, "/")
	base := path.Base(slashed)
	for _, g := range filters {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}

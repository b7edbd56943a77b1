package bincpio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	cpio "github.com/meigma/bincpio/core"
	"github.com/meigma/bincpio/internal/compression"
)

// tempPrefix prefixes the names of temporary extraction folders.
const tempPrefix = "bincpio-"

// Archiver creates and extracts archives on the filesystem.
//
// Every extraction returns its own Session. The Archiver additionally keeps
// the most recent one so its files can be looked up later, together with the
// temporary folder of the last ExtractToTemp call. An Archiver is safe for
// concurrent use; concurrent extractions race only for which session is kept.
type Archiver struct {
	logger      *slog.Logger
	progress    ProgressFunc
	compression Compression
	tempDir     string
	createOpts  []CreateOption
	extractOpts []ExtractOption

	mu         sync.Mutex
	last       *Session
	tempFolder string
}

// New creates an Archiver with the given options.
func New(opts ...Option) (*Archiver, error) {
	a := &Archiver{}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archiver) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

func (a *Archiver) createOptions() []CreateOption {
	opts := []CreateOption{cpio.CreateWithLogger(a.logger), cpio.CreateWithProgress(a.progress)}
	return append(opts, a.createOpts...)
}

func (a *Archiver) extractOptions() []ExtractOption {
	opts := []ExtractOption{cpio.ExtractWithLogger(a.logger), cpio.ExtractWithProgress(a.progress)}
	return append(opts, a.extractOpts...)
}

// CreateArchive writes the regular files at paths, in order, to a new
// archive at archivePath. Extra options are applied after the Archiver's own.
//
// On failure the partially written archive is removed.
func (a *Archiver) CreateArchive(ctx context.Context, paths []string, archivePath string, opts ...CreateOption) error {
	return a.writeArchive(archivePath, func(w io.Writer) error {
		return cpio.CreateFromFiles(ctx, w, paths, append(a.createOptions(), opts...)...)
	})
}

// CreateArchiveFromDir archives every regular file below dir, recursively,
// to a new archive at archivePath.
func (a *Archiver) CreateArchiveFromDir(ctx context.Context, dir, archivePath string, opts ...CreateOption) error {
	return a.writeArchive(archivePath, func(w io.Writer) error {
		return cpio.CreateFromDir(ctx, dir, w, append(a.createOptions(), opts...)...)
	})
}

// CreateArchiveFromDeviceData re-frames device-sourced data into a new
// archive at archivePath. See cpio.CreateFromDeviceData for the layout.
func (a *Archiver) CreateArchiveFromDeviceData(ctx context.Context, archivePath string, data []byte) error {
	return a.writeArchive(archivePath, func(w io.Writer) error {
		return cpio.CreateFromDeviceData(ctx, w, data, a.createOptions()...)
	})
}

// writeArchive creates archivePath and runs fn against it, through the
// configured compressor.
func (a *Archiver) writeArchive(archivePath string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(archivePath) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = f.Close() //nolint:errcheck // best-effort cleanup
		if rmErr := os.Remove(archivePath); rmErr != nil {
			a.log().Warn("failed to remove partial archive", "path", archivePath, "error", rmErr)
		}
	}()

	zw, err := compression.NewWriter(f, a.compression)
	if err != nil {
		return err
	}
	if err := fn(zw); err != nil {
		_ = zw.Close() //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish %s stream: %w", a.compression, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	a.log().Info("archive created", "path", archivePath, "compression", a.compression)
	return nil
}

// ExtractArchive extracts the archive at archivePath below destDir.
//
// The returned Session is also kept by the Archiver. On failure the partial
// session is returned with the error.
func (a *Archiver) ExtractArchive(ctx context.Context, archivePath, destDir string, opts ...ExtractOption) (*Session, error) {
	f, err := os.Open(archivePath) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	return a.extract(ctx, f, destDir, opts)
}

// ExtractBytes extracts an in-memory archive below destDir.
func (a *Archiver) ExtractBytes(ctx context.Context, data []byte, destDir string, opts ...ExtractOption) (*Session, error) {
	return a.extract(ctx, bytes.NewReader(data), destDir, opts)
}

// ExtractToTemp extracts the archive at archivePath into a fresh temporary
// folder, replacing any folder created by an earlier call. The folder stays
// until DeleteTemporaryFolder is called.
func (a *Archiver) ExtractToTemp(ctx context.Context, archivePath string, opts ...ExtractOption) (*Session, error) {
	f, err := os.Open(archivePath) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	return a.extractToTemp(ctx, f, opts)
}

// ExtractBytesToTemp is ExtractToTemp for an in-memory archive.
func (a *Archiver) ExtractBytesToTemp(ctx context.Context, data []byte, opts ...ExtractOption) (*Session, error) {
	return a.extractToTemp(ctx, bytes.NewReader(data), opts)
}

func (a *Archiver) extractToTemp(ctx context.Context, r io.Reader, opts []ExtractOption) (*Session, error) {
	parent := a.tempDir
	if parent == "" {
		parent = os.TempDir()
	}
	parent, err := filepath.Abs(parent)
	if err != nil {
		return nil, fmt.Errorf("resolve temp dir: %w", err)
	}
	folder := filepath.Join(parent, tempPrefix+uuid.NewString())

	a.mu.Lock()
	previous := a.tempFolder
	a.tempFolder = folder
	a.mu.Unlock()

	if previous != "" {
		a.removeFolder(previous)
	}
	return a.extract(ctx, r, folder, opts)
}

func (a *Archiver) extract(ctx context.Context, r io.Reader, destDir string, opts []ExtractOption) (*Session, error) {
	zr, algo, err := compression.NewReader(r)
	if err != nil {
		root, absErr := filepath.Abs(destDir)
		if absErr != nil {
			root = destDir
		}
		session := &Session{Root: root, Files: map[string]string{}}
		a.keep(session)
		return session, fmt.Errorf("detect compression: %w", err)
	}
	defer zr.Close()
	if algo != CompressionNone {
		a.log().Debug("decompressing archive", "compression", algo)
	}

	session, err := cpio.Extract(ctx, zr, destDir, append(a.extractOptions(), opts...)...)
	a.keep(session)
	return session, err
}

func (a *Archiver) keep(session *Session) {
	a.mu.Lock()
	a.last = session
	a.mu.Unlock()
}

// IsHeaderValid reports whether the file at path starts with a valid header.
// Compressed archives are inspected after decompression.
func (a *Archiver) IsHeaderValid(path string) bool {
	f, err := os.Open(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return false
	}
	defer f.Close()
	return a.validate(f)
}

// IsDataValid reports whether data starts with the old binary magic number.
// Compressed data is inspected after decompression, in which case a complete
// header is required.
func (a *Archiver) IsDataValid(data []byte) bool {
	if compression.Detect(data) == CompressionNone {
		return cpio.IsDataValid(data)
	}
	return a.validate(bytes.NewReader(data))
}

func (a *Archiver) validate(r io.Reader) bool {
	zr, _, err := compression.NewReader(r)
	if err != nil {
		return false
	}
	defer zr.Close()
	if err := cpio.ValidateHeader(zr); err != nil {
		a.log().Debug("invalid archive header", "error", err)
		return false
	}
	return true
}

// DeleteTemporaryFolder recursively removes folder, typically the
// destination or Session.Root of an earlier extraction. An empty folder
// selects the folder of the last ExtractToTemp call, and ErrNoTempFolder is
// returned if there is none. The session extracted into the removed folder
// is forgotten.
func (a *Archiver) DeleteTemporaryFolder(folder string) error {
	a.mu.Lock()
	if folder == "" {
		folder = a.tempFolder
	}
	if folder == "" {
		a.mu.Unlock()
		return ErrNoTempFolder
	}
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}
	if a.tempFolder != "" && sameDir(a.tempFolder, folder) {
		a.tempFolder = ""
	}
	if a.last != nil && sameDir(a.last.Root, folder) {
		a.last = nil
	}
	a.mu.Unlock()

	if err := os.RemoveAll(folder); err != nil {
		a.log().Warn("failed to delete temporary folder", "path", folder, "error", err)
		return fmt.Errorf("delete temporary folder: %w", err)
	}
	a.log().Debug("deleted temporary folder", "path", folder)
	return nil
}

func sameDir(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func (a *Archiver) removeFolder(folder string) {
	if err := os.RemoveAll(folder); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.log().Warn("failed to delete temporary folder", "path", folder, "error", err)
	}
}

// ExtractedFiles returns a copy of the name-to-path mapping of the last
// extraction.
func (a *Archiver) ExtractedFiles() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return map[string]string{}
	}
	return maps.Clone(a.last.Files)
}

// TempFilePaths returns the paths written by the last extraction, in order.
func (a *Archiver) TempFilePaths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return nil
	}
	return slices.Clone(a.last.Paths)
}

// TempFolderPath returns the folder of the last ExtractToTemp call, or ""
// if there is none.
func (a *Archiver) TempFolderPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tempFolder
}

// FileContentPath returns the path a sanitized record name was extracted to by the
// last extraction.
func (a *Archiver) FileContentPath(name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last.Lookup(name)
}

func (a *Archiver) report(ev ProgressEvent) {
	if a.progress != nil {
		a.progress(ev)
	}
}

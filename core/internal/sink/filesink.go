// Package sink writes extracted record content to the filesystem.
package sink

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Committer is a writer that must be committed or discarded.
type Committer interface {
	io.Writer

	// Path returns the absolute final path of the file.
	Path() string

	// Commit finalizes the write, making the file visible at Path.
	Commit() error

	// Discard aborts the write and removes anything written so far.
	Discard() error
}

// FileSink writes files below a root directory.
//
// By default, content is written to a temporary file in the destination
// directory and renamed to the final path on Commit, so a record that fails
// halfway never leaves a partial file at its final path. Existing files are
// replaced.
type FileSink struct {
	root          string
	preserveTimes bool
	directWrite   bool
}

// Option configures a FileSink.
type Option func(*FileSink)

// WithPreserveTimes applies the record modification time to written files.
// By default, files get the current time.
func WithPreserveTimes(preserve bool) Option {
	return func(s *FileSink) {
		s.preserveTimes = preserve
	}
}

// WithDirectWrites disables temp files and writes directly to the final path.
// A failed record is still removed on Discard.
func WithDirectWrites(enabled bool) Option {
	return func(s *FileSink) {
		s.directWrite = enabled
	}
}

// New creates a FileSink that writes below root, which must be absolute.
func New(root string, opts ...Option) *FileSink {
	s := &FileSink{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the destination directory.
func (s *FileSink) Root() string {
	return s.root
}

// Writer returns a Committer for the file at rel, an OS-form path relative
// to the root. Parent directories are created as needed.
func (s *FileSink) Writer(rel string, modTime time.Time) (Committer, error) {
	root, err := os.OpenRoot(s.root)
	if err != nil {
		return nil, fmt.Errorf("open destination root %s: %w", s.root, err)
	}
	if dir := filepath.Dir(rel); dir != "." {
		if err := root.MkdirAll(dir, 0o750); err != nil {
			_ = root.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	base := committer{
		destRel:  rel,
		destPath: filepath.Join(s.root, rel),
		modTime:  modTime,
		root:     root,
		sink:     s,
	}

	if s.directWrite {
		f, err := root.OpenFile(rel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			_ = root.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("create file %s: %w", base.destPath, err)
		}
		base.file = f
		base.fileRel = rel
		return &base, nil
	}

	f, tempRel, err := createTempFile(root, filepath.Dir(rel), ".cpio-")
	if err != nil {
		_ = root.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	base.file = f
	base.fileRel = tempRel
	return &base, nil
}

// committer writes to fileRel, which is either a temp file renamed onto
// destRel on Commit or destRel itself for direct writes.
type committer struct {
	destRel  string
	destPath string
	fileRel  string
	file     *os.File
	modTime  time.Time
	root     *os.Root
	sink     *FileSink
}

// Write implements io.Writer.
func (c *committer) Write(p []byte) (int, error) {
	return c.file.Write(p)
}

// Path returns the final path.
func (c *committer) Path() string {
	return c.destPath
}

// Commit closes the file, applies metadata and renames it into place.
func (c *committer) Commit() error {
	if err := c.file.Close(); err != nil {
		return c.fail(fmt.Errorf("close file: %w", err))
	}

	if c.sink.preserveTimes && !c.modTime.IsZero() {
		if err := c.root.Chtimes(c.fileRel, c.modTime, c.modTime); err != nil {
			return c.fail(fmt.Errorf("chtimes: %w", err))
		}
	}

	if c.fileRel != c.destRel {
		if err := c.root.Rename(c.fileRel, c.destRel); err != nil {
			return c.fail(fmt.Errorf("rename to %s: %w", c.destPath, err))
		}
	}

	_ = c.root.Close() //nolint:errcheck // best-effort cleanup
	return nil
}

// Discard closes and removes the file.
func (c *committer) Discard() error {
	_ = c.file.Close() //nolint:errcheck // we're cleaning up
	if err := c.root.Remove(c.fileRel); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = c.root.Close() //nolint:errcheck // best-effort cleanup
		return err
	}
	return c.root.Close()
}

func (c *committer) fail(err error) error {
	_ = c.root.Remove(c.fileRel) //nolint:errcheck // best-effort cleanup
	_ = c.root.Close()           //nolint:errcheck // best-effort cleanup
	return err
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

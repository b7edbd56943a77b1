package bincpio

import (
	"context"
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/gobwas/glob"
	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"
)

// DefaultVerifyPattern matches every file.
const DefaultVerifyPattern = "*"

// verifyConfig holds configuration for VerifyFiles.
type verifyConfig struct {
	pattern string
	nested  bool
	workers int
}

// VerifyOption configures VerifyFiles.
type VerifyOption func(*verifyConfig)

// VerifyWithPattern limits verification to files whose base name matches
// the glob pattern. The default is DefaultVerifyPattern.
func VerifyWithPattern(pattern string) VerifyOption {
	return func(cfg *verifyConfig) {
		cfg.pattern = pattern
	}
}

// VerifyWithNested searches both directories recursively instead of only
// their top level. Files are compared by base name, so same-named files in
// different subdirectories make verification ambiguous.
func VerifyWithNested(enabled bool) VerifyOption {
	return func(cfg *verifyConfig) {
		cfg.nested = enabled
	}
}

// VerifyWithWorkers sets how many files are digested concurrently.
// Values < 1 use GOMAXPROCS.
func VerifyWithWorkers(n int) VerifyOption {
	return func(cfg *verifyConfig) {
		cfg.workers = n
	}
}

// VerifyFiles checks that the files of srcDir matching the pattern were
// extracted intact into dstDir.
//
// Both directories must hold the same set of matching base names with
// identical content; any difference is reported as ErrVerifyMismatch.
// Content is compared by SHA-256 digest.
func (a *Archiver) VerifyFiles(ctx context.Context, srcDir, dstDir string, opts ...VerifyOption) error {
	cfg := verifyConfig{pattern: DefaultVerifyPattern}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	g, err := glob.Compile(cfg.pattern)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", cfg.pattern, err)
	}

	a.log().Info("verifying files", "src", srcDir, "dst", dstDir, "pattern", cfg.pattern, "nested", cfg.nested)
	a.report(ProgressEvent{Stage: StageEnumerating})

	src, err := matchFiles(srcDir, g, cfg.nested)
	if err != nil {
		return err
	}
	dst, err := matchFiles(dstDir, g, cfg.nested)
	if err != nil {
		return err
	}

	names := sortedKeys(src)
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %d files in %s, %d in %s", ErrVerifyMismatch, len(src), srcDir, len(dst), dstDir)
	}
	for _, name := range names {
		if _, ok := dst[name]; !ok {
			return fmt.Errorf("%w: %s missing from %s", ErrVerifyMismatch, name, dstDir)
		}
	}

	srcDigests := make([]digest.Digest, len(names))
	dstDigests := make([]digest.Digest, len(names))
	var done atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for i, name := range names {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			var err error
			if srcDigests[i], err = fileDigest(src[name]); err != nil {
				return err
			}
			if dstDigests[i], err = fileDigest(dst[name]); err != nil {
				return err
			}
			a.report(ProgressEvent{
				Stage:      StageVerifying,
				Path:       name,
				FilesDone:  int(done.Add(1)),
				FilesTotal: len(names),
			})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, name := range names {
		if srcDigests[i] != dstDigests[i] {
			return fmt.Errorf("%w: content of %s differs (%s != %s)", ErrVerifyMismatch, name, srcDigests[i], dstDigests[i])
		}
	}
	a.log().Info("files verified", "count", len(names))
	return nil
}

// matchFiles maps the base names of the regular files in dir matching g to
// their paths. Only the top level is listed unless nested is set.
func matchFiles(dir string, g glob.Glob, nested bool) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !nested {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !g.Match(d.Name()) {
			return nil
		}
		files[d.Name()] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return files, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from a directory walk
	if err != nil {
		return "", err
	}
	defer f.Close()
	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return d, nil
}

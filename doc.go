// Package bincpio creates, extracts and verifies "old binary" cpio archives.
//
// This package provides a high-level, file-oriented API through [Archiver]:
// archives are read from and written to paths, optionally compressed, and
// the outcome of the most recent extraction is kept for lookups. For
// record-level streaming access, use the [core] subpackage.
//
// # Quick Start
//
// Archive a directory and extract it elsewhere:
//
//	a, err := bincpio.New(bincpio.WithLogger(slog.Default()))
//	if err != nil {
//	    return err
//	}
//	if err := a.CreateArchiveFromDir(ctx, "./logs", "logs.cpio"); err != nil {
//	    return err
//	}
//	session, err := a.ExtractArchive(ctx, "logs.cpio", "./restored")
//
// # Temporary extraction
//
// ExtractToTemp extracts into a fresh directory below the system temp dir
// and remembers it; DeleteTemporaryFolder removes it again:
//
//	if _, err := a.ExtractToTemp(ctx, "logs.cpio"); err != nil {
//	    return err
//	}
//	defer a.DeleteTemporaryFolder("")
//	path, ok := a.FileContentPath("app.log")
//
// # Compression
//
// WithCompression wraps created archives in gzip, zstd or lz4. Extraction
// detects compressed input by its magic number, so no option is needed to
// read it back.
//
// [core]: https://pkg.go.dev/github.com/meigma/bincpio/core
package bincpio

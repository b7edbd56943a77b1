package bincpio

import (
	"errors"
	"log/slog"
)

// Option configures an Archiver.
type Option func(*Archiver) error

// WithLogger sets the logger used by every operation.
// By default, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) error {
		a.logger = logger
		return nil
	}
}

// WithProgress sets a callback receiving progress events from every
// operation.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Archiver) error {
		a.progress = fn
		return nil
	}
}

// WithCompression compresses archives written by the CreateArchive methods.
// Extraction detects compression on its own.
func WithCompression(c Compression) Option {
	return func(a *Archiver) error {
		if c.String() == "unknown" {
			return errors.New("unknown compression")
		}
		a.compression = c
		return nil
	}
}

// WithTempDir sets the parent directory of temporary extraction folders.
// By default, os.TempDir is used.
func WithTempDir(dir string) Option {
	return func(a *Archiver) error {
		if dir == "" {
			return errors.New("temp dir must not be empty")
		}
		a.tempDir = dir
		return nil
	}
}

// WithCreateOptions appends options applied to every archive creation.
func WithCreateOptions(opts ...CreateOption) Option {
	return func(a *Archiver) error {
		a.createOpts = append(a.createOpts, opts...)
		return nil
	}
}

// WithExtractOptions appends options applied to every extraction.
func WithExtractOptions(opts ...ExtractOption) Option {
	return func(a *Archiver) error {
		a.extractOpts = append(a.extractOpts, opts...)
		return nil
	}
}

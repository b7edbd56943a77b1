package cpio

import (
	"encoding/binary"
	"log/slog"
)

// Layout selects how record names map to paths below the destination.
type Layout uint8

const (
	// LayoutFlatten writes every record directly into the destination,
	// named by the last segment of its name.
	LayoutFlatten Layout = iota

	// LayoutPreserve keeps the relative directory structure of record names.
	// Names that would escape the destination are confined to it.
	LayoutPreserve
)

// String returns the string representation of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutFlatten:
		return "flatten"
	case LayoutPreserve:
		return "preserve"
	default:
		return "unknown"
	}
}

// extractConfig holds configuration for Extract.
type extractConfig struct {
	layout        Layout
	patterns      []string
	bufferSize    int
	byteOrder     binary.ByteOrder
	legacyTrailer bool
	shortNames    bool
	preserveTimes bool
	directWrites  bool
	logger        *slog.Logger
	progress      ProgressFunc
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

// ExtractWithLayout sets how record names map to destination paths.
// The default is LayoutFlatten.
func ExtractWithLayout(layout Layout) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.layout = layout
	}
}

// ExtractWithFilter extracts only records matching at least one glob pattern.
//
// Patterns use '/' as separator and are matched against the sanitized record
// name and against its last segment. Records that do not match are skipped
// and listed in Session.Skipped. Multiple calls accumulate patterns.
func ExtractWithFilter(patterns ...string) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.patterns = append(cfg.patterns, patterns...)
	}
}

// ExtractWithBufferSize sets the size of the buffer content is streamed
// through. Values < 1 use DefaultBufferSize.
func ExtractWithBufferSize(n int) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.bufferSize = n
	}
}

// ExtractWithByteOrder sets the byte order of header fields.
// The default is binary.LittleEndian.
func ExtractWithByteOrder(order binary.ByteOrder) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.byteOrder = order
	}
}

// ExtractWithLegacyTrailerMatch is ReadWithLegacyTrailerMatch for Extract.
func ExtractWithLegacyTrailerMatch(enabled bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.legacyTrailer = enabled
	}
}

// ExtractWithShortNames is ReadWithShortNames for Extract.
func ExtractWithShortNames(enabled bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.shortNames = enabled
	}
}

// ExtractWithPreserveTimes applies record modification times to extracted
// files. By default, files get the time of extraction.
func ExtractWithPreserveTimes(enabled bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.preserveTimes = enabled
	}
}

// ExtractWithDirectWrites writes content straight to the final path instead
// of a temp file renamed into place. Failed records are still removed.
func ExtractWithDirectWrites(enabled bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.directWrites = enabled
	}
}

// ExtractWithLogger sets the logger for extraction.
func ExtractWithLogger(logger *slog.Logger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = logger
	}
}

// ExtractWithProgress sets a callback receiving a progress event per record.
func ExtractWithProgress(fn ProgressFunc) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.progress = fn
	}
}

func newExtractConfig(opts []ExtractOption) extractConfig {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.bufferSize < 1 {
		cfg.bufferSize = DefaultBufferSize
	}
	return cfg
}

func (cfg *extractConfig) readerOptions() []ReaderOption {
	return []ReaderOption{
		ReadWithByteOrder(cfg.byteOrder),
		ReadWithLegacyTrailerMatch(cfg.legacyTrailer),
		ReadWithShortNames(cfg.shortNames),
	}
}

package cpio

import (
	"encoding/binary"
	"log/slog"
)

// createConfig holds configuration for archive creation.
type createConfig struct {
	baseNames  bool
	bufferSize int
	byteOrder  binary.ByteOrder
	logger     *slog.Logger
	progress   ProgressFunc
}

// CreateOption configures archive creation.
type CreateOption func(*createConfig)

// CreateWithBaseNames archives files under their base name instead of their
// path. Only CreateFromFiles and CreateFromDir consult it.
func CreateWithBaseNames(enabled bool) CreateOption {
	return func(cfg *createConfig) {
		cfg.baseNames = enabled
	}
}

// CreateWithBufferSize sets the size of the buffer content is streamed
// through. Values < 1 use DefaultBufferSize.
func CreateWithBufferSize(n int) CreateOption {
	return func(cfg *createConfig) {
		cfg.bufferSize = n
	}
}

// CreateWithByteOrder sets the byte order of header fields.
// The default is binary.LittleEndian.
func CreateWithByteOrder(order binary.ByteOrder) CreateOption {
	return func(cfg *createConfig) {
		cfg.byteOrder = order
	}
}

// CreateWithLogger sets the logger for archive creation.
func CreateWithLogger(logger *slog.Logger) CreateOption {
	return func(cfg *createConfig) {
		cfg.logger = logger
	}
}

// CreateWithProgress sets a callback receiving a progress event per record.
func CreateWithProgress(fn ProgressFunc) CreateOption {
	return func(cfg *createConfig) {
		cfg.progress = fn
	}
}

func newCreateConfig(opts []CreateOption) createConfig {
	cfg := createConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.bufferSize < 1 {
		cfg.bufferSize = DefaultBufferSize
	}
	return cfg
}

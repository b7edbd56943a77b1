package bincpio

import (
	cpio "github.com/meigma/bincpio/core"
	"github.com/meigma/bincpio/internal/compression"
)

// --- Re-exports from core ---

// Session describes the outcome of one extraction.
type Session = cpio.Session

// RecordError describes a failure tied to one record of an archive.
type RecordError = cpio.RecordError

// Layout selects how record names map to extracted paths.
type Layout = cpio.Layout

// Layout constants.
const (
	LayoutFlatten  = cpio.LayoutFlatten
	LayoutPreserve = cpio.LayoutPreserve
)

// CreateOption configures archive creation.
type CreateOption = cpio.CreateOption

// ExtractOption configures archive extraction.
type ExtractOption = cpio.ExtractOption

// Create and extract options re-exported from core.
var (
	CreateWithBaseNames  = cpio.CreateWithBaseNames
	CreateWithBufferSize = cpio.CreateWithBufferSize
	CreateWithByteOrder  = cpio.CreateWithByteOrder

	ExtractWithLayout             = cpio.ExtractWithLayout
	ExtractWithFilter             = cpio.ExtractWithFilter
	ExtractWithBufferSize         = cpio.ExtractWithBufferSize
	ExtractWithByteOrder          = cpio.ExtractWithByteOrder
	ExtractWithLegacyTrailerMatch = cpio.ExtractWithLegacyTrailerMatch
	ExtractWithShortNames         = cpio.ExtractWithShortNames
	ExtractWithPreserveTimes      = cpio.ExtractWithPreserveTimes
	ExtractWithDirectWrites       = cpio.ExtractWithDirectWrites
)

// --- Compression ---

// Compression identifies the whole-archive compression of created archives.
type Compression = compression.Algorithm

// Compression constants.
const (
	CompressionNone = compression.None
	CompressionGzip = compression.Gzip
	CompressionZstd = compression.Zstd
	CompressionLZ4  = compression.LZ4
)

// ParseCompression returns the compression named s: "none", "gzip", "zstd"
// or "lz4".
func ParseCompression(s string) (Compression, error) {
	return compression.Parse(s)
}

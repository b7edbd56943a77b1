package bincpio

import cpio "github.com/meigma/bincpio/core"

// Re-export progress types from core package.
type (
	// ProgressEvent represents a progress update during creation, extraction
	// or verification.
	ProgressEvent = cpio.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = cpio.ProgressStage

	// ProgressFunc receives progress updates during operations.
	// Implementations must be safe for concurrent calls.
	ProgressFunc = cpio.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageEnumerating indicates the operation is walking the directory tree.
	StageEnumerating = cpio.StageEnumerating

	// StageArchiving indicates records are being written to the archive.
	StageArchiving = cpio.StageArchiving

	// StageExtracting indicates records are being extracted.
	StageExtracting = cpio.StageExtracting

	// StageVerifying indicates files are being compared.
	StageVerifying = cpio.StageVerifying
)

package cpio

// ProgressEvent represents a progress update during archive creation,
// extraction or verification.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the record or file currently being processed, if applicable.
	Path string

	// BytesDone is the number of content bytes completed so far.
	BytesDone uint64

	// FilesDone is the number of records completed.
	FilesDone int

	// FilesTotal is the total number of records.
	// Zero indicates the total is unknown, as it always is during extraction.
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages.
const (
	// StageEnumerating indicates the operation is walking the directory tree.
	StageEnumerating ProgressStage = iota

	// StageArchiving indicates records are being written to the archive.
	StageArchiving

	// StageExtracting indicates records are being extracted.
	StageExtracting

	// StageVerifying indicates extracted files are being compared.
	StageVerifying
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageEnumerating:
		return "enumerating"
	case StageArchiving:
		return "archiving"
	case StageExtracting:
		return "extracting"
	case StageVerifying:
		return "verifying"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Implementations must be safe for concurrent calls.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) report(ev ProgressEvent) {
	if f != nil {
		f(ev)
	}
}

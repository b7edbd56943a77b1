package bincpio

import (
	"errors"

	cpio "github.com/meigma/bincpio/core"
)

// Errors re-exported from core.
var (
	// ErrInvalidMagic is returned when a record does not start with the old binary magic number.
	ErrInvalidMagic = cpio.ErrInvalidMagic

	// ErrTruncatedHeader is returned when an archive ends inside or instead of a header.
	ErrTruncatedHeader = cpio.ErrTruncatedHeader

	// ErrTruncatedName is returned when an archive ends inside a name field.
	ErrTruncatedName = cpio.ErrTruncatedName

	// ErrTruncatedContent is returned when an archive ends before a record's declared content.
	ErrTruncatedContent = cpio.ErrTruncatedContent

	// ErrNameTooLong is returned when a name does not fit the 16-bit namesize field.
	ErrNameTooLong = cpio.ErrNameTooLong

	// ErrContentTooLarge is returned when content does not fit the 32-bit size field.
	ErrContentTooLarge = cpio.ErrContentTooLarge

	// ErrPathResolution is returned when a record name yields no usable path.
	ErrPathResolution = cpio.ErrPathResolution
)

var (
	// ErrVerifyMismatch is returned by VerifyFiles when the compared file
	// sets differ in count, names or content.
	ErrVerifyMismatch = errors.New("bincpio: verification mismatch")

	// ErrNoTempFolder is returned by DeleteTemporaryFolder when no temporary
	// extraction is active.
	ErrNoTempFolder = errors.New("bincpio: no temporary folder")
)

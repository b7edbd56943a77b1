package cpio

import "github.com/meigma/bincpio/core/internal/pathutil"

// NormalizePath converts a user-provided path to the relative slash-separated
// form used for archive names.
//
// It strips volume names and leading or trailing slashes, converts
// backslashes to slashes and collapses repeated separators. Dot and dot-dot
// elements are preserved; extraction drops them.
func NormalizePath(p string) string {
	return pathutil.Normalize(p)
}

// SanitizeName deletes characters that are invalid in file names, the same
// way Extract does before resolving a target path.
func SanitizeName(name string) string {
	return pathutil.Sanitize(name)
}

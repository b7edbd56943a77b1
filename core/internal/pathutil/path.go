// Package pathutil turns archive names into safe filesystem paths.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// invalid reports whether c may not appear in a file name. The set is the
// union of what common filesystems reject, so extraction behaves the same
// on every platform. Separators are handled by the callers.
func invalid(c rune) bool {
	if c < 0x20 {
		return true
	}
	switch c {
	case '<', '>', ':', '"', '|', '?', '*':
		return true
	}
	return false
}

// Sanitize deletes characters that are invalid in file names. Nothing is
// substituted: "a:b?.txt" becomes "ab.txt".
func Sanitize(name string) string {
	return strings.Map(func(c rune) rune {
		if invalid(c) {
			return -1
		}
		return c
	}, name)
}

// segments splits name on both slash and backslash, dropping empty, "."
// and ".." elements.
func segments(name string) []string {
	parts := strings.FieldsFunc(name, func(c rune) bool { return c == '/' || c == '\\' })
	out := parts[:0]
	for _, p := range parts {
		if p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Flatten returns the final path segment of name, or "" if there is none.
// Directory structure encoded in the name is discarded. A name ending in a
// separator has no final segment.
func Flatten(name string) string {
	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, "\\") {
		return ""
	}
	parts := strings.FieldsFunc(name, func(c rune) bool { return c == '/' || c == '\\' })
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	if last == "." || last == ".." {
		return ""
	}
	return last
}

// Preserve resolves name below root keeping its relative directories and
// returns the path relative to root in OS form. Traversal elements are
// dropped and the join is resolved with securejoin, so the result never
// escapes root. It returns "" if nothing usable remains.
func Preserve(root, name string) (string, error) {
	parts := segments(name)
	if len(parts) == 0 {
		return "", nil
	}
	joined, err := securejoin.SecureJoin(root, filepath.FromSlash(path.Join(parts...)))
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, joined)
	if err != nil {
		return "", err
	}
	if rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", nil
	}
	return rel, nil
}

// Normalize converts a user-provided path to a relative slash-separated
// archive name.
//
// It performs the following transformations:
//   - Strips a volume name: "C:\data\a.txt" → "data/a.txt"
//   - Converts separators to slashes
//   - Strips leading and trailing slashes: "/etc/nginx/" → "etc/nginx"
//   - Collapses consecutive slashes: "etc//nginx" → "etc/nginx"
//   - Converts empty string to root: "" → "."
//
// Dot and dot-dot elements are preserved; extraction drops them.
func Normalize(p string) string {
	p = strings.TrimPrefix(p, filepath.VolumeName(p))
	p = strings.ReplaceAll(filepath.ToSlash(p), "\\", "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}

	parts := strings.Split(p, "/")
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return "."
	}
	return strings.Join(result, "/")
}

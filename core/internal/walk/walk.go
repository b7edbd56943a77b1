// Package walk enumerates the regular files of a directory tree.
package walk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// File is a regular file found below a root.
type File struct {
	// Path is slash-separated and relative to the root.
	Path    string
	Size    int64
	ModTime time.Time
}

// Files walks root recursively in lexical order and returns its regular
// files. Symbolic links, devices and directories are skipped; empty
// directories therefore leave no trace.
func Files(ctx context.Context, root *os.Root) ([]File, error) {
	var files []File
	err := fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, ok, err := resolveInfo(root, path, d)
		if err != nil || !ok {
			return err
		}
		files = append(files, File{Path: path, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// resolveInfo gets FileInfo for a walked entry, filtering out symlinks and
// non-regular files. ok=false means the entry should be skipped.
func resolveInfo(root *os.Root, path string, d fs.DirEntry) (info fs.FileInfo, ok bool, err error) {
	dtype := d.Type()
	if dtype&fs.ModeSymlink != 0 {
		return nil, false, nil
	}
	if dtype == 0 {
		// Unknown type from the directory listing; ask the filesystem.
		info, err = root.Lstat(filepath.FromSlash(path))
	} else {
		info, err = d.Info()
	}
	if err != nil {
		return nil, false, err
	}
	if !info.Mode().IsRegular() {
		return nil, false, nil
	}
	return info, true, nil
}

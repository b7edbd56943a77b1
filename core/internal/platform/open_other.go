//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// OpenRegular opens a regular file below root without following symlinks.
// Returns ErrSymlink if the path is a symbolic link and ErrNotRegular for
// devices, pipes and directories.
func OpenRegular(root *os.Root, name string) (*os.File, os.FileInfo, error) {
	info, err := root.Lstat(name)
	if err != nil {
		return nil, nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, nil, ErrSymlink
	}
	f, err := root.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return checkRegular(f)
}

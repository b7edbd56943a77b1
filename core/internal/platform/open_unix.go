//go:build unix

package platform

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
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
	// The path may have been swapped since Lstat.
	f, err := root.OpenFile(name, os.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, nil, ErrSymlink
		}
		return nil, nil, err
	}
	return checkRegular(f)
}

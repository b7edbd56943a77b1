// Package platform hides the OS-specific parts of opening archive sources.
package platform

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSymlink is returned when attempting to open a symbolic link.
	ErrSymlink = errors.New("symbolic links not supported")

	// ErrNotRegular is returned when the opened path is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
)

func checkRegular(f *os.File) (*os.File, os.FileInfo, error) {
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotRegular, f.Name())
	}
	return f, info, nil
}

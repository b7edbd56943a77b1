package platform

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRegular(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("content"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o750))
	hasLink := os.Symlink("file.txt", filepath.Join(dir, "link.txt")) == nil

	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	defer root.Close()

	t.Run("regular file", func(t *testing.T) {
		f, info, err := OpenRegular(root, "file.txt")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, int64(7), info.Size())
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "content", string(b))
	})

	t.Run("directory", func(t *testing.T) {
		_, _, err := OpenRegular(root, "sub")
		require.ErrorIs(t, err, ErrNotRegular)
	})

	t.Run("symlink", func(t *testing.T) {
		if !hasLink {
			t.Skip("symlinks unavailable")
		}
		_, _, err := OpenRegular(root, "link.txt")
		require.ErrorIs(t, err, ErrSymlink)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := OpenRegular(root, "missing")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b", "c"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "c", "d.txt"), []byte("ddd"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.txt"), nil, 0o644))
	if err := os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Logf("symlinks unavailable: %v", err)
	}

	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	defer root.Close()

	files, err := Files(context.Background(), root)
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.txt", "b/c/d.txt", "z.txt"}, paths)
	assert.Equal(t, int64(3), files[1].Size)
}

func TestFilesCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	defer root.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Files(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

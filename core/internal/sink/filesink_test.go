package sink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFileSinkCommit(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s := New(root)

	c, err := s.Writer(filepath.Join("sub", "a.txt"), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "a.txt"), c.Path())

	_, err = c.Write([]byte("hello"))
	require.NoError(t, err)

	_, statErr := os.Stat(c.Path())
	assert.True(t, os.IsNotExist(statErr), "final path must not exist before commit")

	require.NoError(t, c.Commit())
	got, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, []string{"a.txt"}, listDir(t, filepath.Join(root, "sub")))
}

func TestFileSinkDiscard(t *testing.T) {
	t.Parallel()

	for _, direct := range []bool{false, true} {
		root := t.TempDir()
		s := New(root, WithDirectWrites(direct))

		c, err := s.Writer("partial.bin", time.Time{})
		require.NoError(t, err)
		_, err = c.Write([]byte("half"))
		require.NoError(t, err)
		require.NoError(t, c.Discard())

		assert.Empty(t, listDir(t, root), "direct=%v", direct)
	}
}

func TestFileSinkOverwrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("old"), 0o644))

	c, err := New(root).Writer("a.txt", time.Time{})
	require.NoError(t, err)
	_, err = c.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, c.Commit())

	got, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestFileSinkPreserveTimes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mtime := time.Unix(1_600_000_000, 0)

	c, err := New(root, WithPreserveTimes(true)).Writer("t.txt", mtime)
	require.NoError(t, err)
	require.NoError(t, c.Commit())

	info, err := os.Stat(filepath.Join(root, "t.txt"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

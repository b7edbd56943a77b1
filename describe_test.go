package bincpio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compression Compression
		mediaType   string
	}{
		{CompressionNone, "application/x-cpio"},
		{CompressionGzip, "application/x-cpio+gzip"},
		{CompressionZstd, "application/x-cpio+zstd"},
		{CompressionLZ4, "application/x-cpio+lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.compression.String(), func(t *testing.T) {
			t.Parallel()

			a := newTestArchiver(t, WithCompression(tt.compression))
			archive := filepath.Join(t.TempDir(), "archive.cpio")
			require.NoError(t, a.CreateArchiveFromDir(context.Background(), writeSourceTree(t), archive))

			data, err := os.ReadFile(archive)
			require.NoError(t, err)

			desc, err := Describe(archive)
			require.NoError(t, err)
			assert.Equal(t, tt.mediaType, desc.MediaType)
			assert.Equal(t, digest.FromBytes(data), desc.Digest)
			assert.Equal(t, int64(len(data)), desc.Size)
			assert.Equal(t, "archive.cpio", desc.Annotations[ocispec.AnnotationTitle])
		})
	}
}

func TestDescribe_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Describe(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

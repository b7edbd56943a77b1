package cpio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/bincpio/core/testutil"
)

func TestIsHeaderValid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o600))
		return p
	}

	magicPadded := append([]byte{0xC7, 0x71}, make([]byte, 28)...)
	zeroes := make([]byte, 30)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"magic with full header", write("good", magicPadded), true},
		{"real archive", write("archive", testutil.Archive(le, testutil.Record(le, "a", []byte("b"), 0))), true},
		{"empty archive", write("trailer", testutil.Trailer(le)), true},
		{"ten arbitrary bytes", write("short", []byte("0123456789")), false},
		{"magic but too short", write("stub", []byte{0xC7, 0x71, 0, 0}), false},
		{"zero magic", write("zeroes", zeroes), false},
		{"big endian archive", write("be", testutil.Trailer(binary.BigEndian)), false},
		{"missing file", filepath.Join(dir, "missing"), false},
		{"directory", dir, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsHeaderValid(tc.path))
		})
	}
}

func TestIsDataValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"magic only", []byte{0xC7, 0x71}, true},
		{"archive", testutil.Trailer(le), true},
		{"nil", nil, false},
		{"one byte", []byte{0xC7}, false},
		{"swapped", []byte{0x71, 0xC7}, false},
		{"text", []byte("hello"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsDataValid(tc.data))
		})
	}
}

func TestValidateHeader(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateHeader(bytes.NewReader(testutil.Trailer(le))))
	require.ErrorIs(t, ValidateHeader(bytes.NewReader([]byte{0xC7, 0x71})), ErrTruncatedHeader)
	require.ErrorIs(t, ValidateHeader(bytes.NewReader(make([]byte, 26))), ErrInvalidMagic)
}

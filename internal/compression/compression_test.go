package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("\xc7\x71old binary cpio "), 512)

	for _, a := range []Algorithm{None, Gzip, Zstd, LZ4} {
		t.Run(a.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w, err := NewWriter(&buf, a)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, a, Detect(buf.Bytes()))

			r, got, err := NewReader(&buf)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, a, got)

			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestNewReader_ShortInput(t *testing.T) {
	t.Parallel()

	r, a, err := NewReader(bytes.NewReader([]byte{0xc7}))
	require.NoError(t, err)
	assert.Equal(t, None, a)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xc7}, out)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"gz", Gzip, false},
		{"zstd", Zstd, false},
		{"lz4", LZ4, false},
		{"brotli", None, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknown)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Empty(t, None.Extension())
	assert.Equal(t, ".gz", Gzip.Extension())
	assert.Equal(t, ".zst", Zstd.Extension())
	assert.Equal(t, ".lz4", LZ4.Extension())
}

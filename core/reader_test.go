package cpio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/bincpio/core/testutil"
)

var le = binary.LittleEndian

type record struct {
	name    string
	content string
}

// readAll drains every record of an archive.
func readAll(t *testing.T, data []byte, opts ...ReaderOption) ([]record, error) {
	t.Helper()

	r := NewReader(bytes.NewReader(data), opts...)
	var out []record
	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		b, err := io.ReadAll(r)
		if err != nil {
			return out, err
		}
		out = append(out, record{hdr.Name, string(b)})
	}
}

func TestReader_RoundTrip(t *testing.T) {
	t.Parallel()

	files := []record{
		{"a.txt", "hello"},
		{"ab.txt", "hi"},
		{"empty", ""},
		{"dir/odd", "x"},
		{"dir/even.bin", "0123456789"},
	}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := NewWriter(&buf, WriteWithByteOrder(order))
			for _, f := range files {
				require.NoError(t, w.WriteHeader(&Header{Name: f.name, Size: int64(len(f.content))}))
				_, err := io.WriteString(w, f.content)
				require.NoError(t, err)
			}
			require.NoError(t, w.Close())

			got, err := readAll(t, buf.Bytes(), ReadWithByteOrder(order))
			require.NoError(t, err)
			assert.Equal(t, files, got)
		})
	}
}

func TestReader_HeaderFields(t *testing.T) {
	t.Parallel()

	data := testutil.Archive(le, testutil.Record(le, "f.bin", []byte("abc"), 1_600_000_000))
	r := NewReader(bytes.NewReader(data))

	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "f.bin", hdr.Name)
	assert.Equal(t, int64(3), hdr.Size)
	assert.Equal(t, time.Unix(1_600_000_000, 0), hdr.ModTime)
	assert.Equal(t, ModeRegular, hdr.Mode)
	assert.Equal(t, uint16(6), hdr.NameSize)
	assert.Equal(t, int64(3), r.Remaining())
}

func TestReader_RecordsStartAtEvenOffsets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	offsets := []int{}
	for _, f := range []record{{"a", "1"}, {"bb", "22"}, {"ccc", "333"}, {"dddd", ""}} {
		offsets = append(offsets, buf.Len())
		require.NoError(t, w.WriteHeader(&Header{Name: f.name, Size: int64(len(f.content))}))
		_, err := io.WriteString(w, f.content)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
	}
	offsets = append(offsets, buf.Len())
	require.NoError(t, w.Close())

	for _, off := range offsets {
		assert.Zero(t, off%2, "offset %d", off)
		assert.Equal(t, []byte{0xC7, 0x71}, buf.Bytes()[off:off+2])
	}
	assert.Zero(t, buf.Len()%2)
}

func TestReader_EmptyArchive(t *testing.T) {
	t.Parallel()

	got, err := readAll(t, testutil.Trailer(le))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReader_ZeroTrailer(t *testing.T) {
	t.Parallel()

	data := append(testutil.Record(le, "a", []byte("x"), 0), testutil.ZeroTrailer()...)
	got, err := readAll(t, data)
	require.NoError(t, err)
	assert.Equal(t, []record{{"a", "x"}}, got)
}

func TestReader_AllZeroHeaderIsEmptyArchive(t *testing.T) {
	t.Parallel()

	data := make([]byte, HeaderSize)
	got, err := readAll(t, data)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.ErrorIs(t, ValidateHeader(bytes.NewReader(data)), ErrInvalidMagic)
	assert.False(t, IsDataValid(data))
}

func TestReader_StopsAtTrailerIgnoringTrailingBytes(t *testing.T) {
	t.Parallel()

	data := testutil.Archive(le, testutil.Record(le, "a", []byte("x"), 0))
	data = append(data, make([]byte, 512)...)

	got, err := readAll(t, data)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReader_TrailerMatching(t *testing.T) {
	t.Parallel()

	lookalike := testutil.Record(le, "old-TRAILER!!!.bak", []byte("data"), 0)
	data := testutil.Archive(le, testutil.Record(le, "a", nil, 0), lookalike)

	t.Run("exact", func(t *testing.T) {
		t.Parallel()

		got, err := readAll(t, data)
		require.NoError(t, err)
		assert.Equal(t, []record{{"a", ""}, {"old-TRAILER!!!.bak", "data"}}, got)
	})

	t.Run("legacy substring", func(t *testing.T) {
		t.Parallel()

		got, err := readAll(t, data, ReadWithLegacyTrailerMatch(true))
		require.NoError(t, err)
		assert.Equal(t, []record{{"a", ""}}, got)
	})
}

func TestReader_Errors(t *testing.T) {
	t.Parallel()

	valid := testutil.Record(le, "a.txt", []byte("hello"), 0)
	badMagic := testutil.Raw(le, testutil.Fields{Magic: 0x1234, NameSize: 2}, "a", nil)
	oversize := testutil.FileFields("big", 0, 0)
	oversize.FileSize = 1000

	tests := []struct {
		name    string
		data    []byte
		want    error
		records int
	}{
		{"empty stream", nil, ErrTruncatedHeader, 0},
		{"short header", valid[:10], ErrTruncatedHeader, 0},
		{"missing trailer", valid, ErrTruncatedHeader, 1},
		{"bad magic", badMagic, ErrInvalidMagic, 0},
		{"truncated name", valid[:HeaderSize+2], ErrTruncatedName, 0},
		{"truncated content", testutil.Raw(le, oversize, "big", []byte("tiny")), ErrTruncatedContent, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := readAll(t, tc.data)
			require.ErrorIs(t, err, tc.want)
			var recErr *RecordError
			require.ErrorAs(t, err, &recErr)
			assert.Len(t, got, tc.records)
		})
	}
}

func TestReader_ErrorsAreSticky(t *testing.T) {
	t.Parallel()

	r := NewReader(bytes.NewReader([]byte{0xC7}))
	_, err := r.Next()
	require.ErrorIs(t, err, ErrTruncatedHeader)
	_, err = r.Next()
	require.ErrorIs(t, err, ErrTruncatedHeader)
}

func TestReader_NextSkipsUnreadContent(t *testing.T) {
	t.Parallel()

	data := testutil.Archive(le,
		testutil.Record(le, "skip.txt", []byte("odd"), 0),
		testutil.Record(le, "keep.bin", []byte("kept"), 0),
	)
	r := NewReader(bytes.NewReader(data))

	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "skip.txt", hdr.Name)

	hdr, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "keep.bin", hdr.Name)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(b))

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReader_ShortNames(t *testing.T) {
	t.Parallel()

	t.Run("reads producers using the short layout", func(t *testing.T) {
		t.Parallel()

		data := append(testutil.ShortNameRecord(le, "ab.txt", []byte("hello")), testutil.ShortNameRecord(le, "a.txt", []byte("hi"))...)
		data = append(data, testutil.ZeroTrailer()...)

		got, err := readAll(t, data, ReadWithShortNames(true))
		require.NoError(t, err)
		assert.Equal(t, []record{{"ab.txt", "hello"}, {"a.txt", "hi"}}, got)
	})

	t.Run("even namesize agrees with canonical layout", func(t *testing.T) {
		t.Parallel()

		data := testutil.Archive(le, testutil.Record(le, "a.txt", []byte("hello"), 0))
		got, err := readAll(t, data, ReadWithShortNames(true))
		require.NoError(t, err)
		assert.Equal(t, []record{{"a.txt", "hello"}}, got)
	})

	t.Run("odd namesize from canonical writer is misread", func(t *testing.T) {
		t.Parallel()

		data := testutil.Archive(le, testutil.Record(le, "ab.txt", []byte("hello"), 0))
		got, err := readAll(t, data, ReadWithShortNames(true))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ab.txt", got[0].name)
		assert.NotEqual(t, "hello", got[0].content)
	})
}

package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFile(t *testing.T) {
	t.Parallel()

	h := NewFile(0x6543_2109, 0x0001_0003, 9)
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		b := Encode(order, h)
		got := Decode(order, b[:])
		assert.Equal(t, h, got, order.String())
		assert.Equal(t, uint32(0x6543_2109), got.MTime())
		assert.Equal(t, uint32(0x0001_0003), got.Size())
		assert.Equal(t, uint16(10), got.NameSize)
	}
}

func TestEncodeLittleEndianLayout(t *testing.T) {
	t.Parallel()

	b := Encode(binary.LittleEndian, NewFile(0x0001_0002, 0x0003_0004, 4))

	assert.Equal(t, []byte{0xC7, 0x71}, b[0:2], "magic")
	assert.Equal(t, []byte{0xED, 0x81}, b[6:8], "mode")
	assert.Equal(t, []byte{0x01, 0x00, 0x02, 0x00}, b[16:20], "mtime high half first")
	assert.Equal(t, []byte{0x05, 0x00}, b[20:22], "namesize")
	assert.Equal(t, []byte{0x03, 0x00, 0x04, 0x00}, b[22:26], "filesize high half first")
	for _, off := range []int{2, 4, 8, 10, 12, 14} {
		assert.Zero(t, b[off], "offset %d", off)
		assert.Zero(t, b[off+1], "offset %d", off+1)
	}
}

func TestTrailer(t *testing.T) {
	t.Parallel()

	tr := Trailer()
	assert.Equal(t, Magic, tr.Magic)
	assert.Equal(t, uint16(11), tr.NameSize)
	assert.Zero(t, tr.Size())
	assert.Zero(t, tr.MTime())
	assert.Zero(t, tr.Mode)
	assert.False(t, tr.IsZeroTrailer(), "the named trailer is not the zero form")
	assert.True(t, Raw{}.IsZeroTrailer())
}

func TestPadding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 0},
		{11, 1},
		{65535, 1},
		{4096, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Padding(tt.n), "n=%d", tt.n)
	}
	assert.Equal(t, uint16(1), Padding(TrailerNameSize))
	assert.Equal(t, uint32(1), Padding(uint32(MaxFileSize)))
}

func TestSplitJoin32(t *testing.T) {
	t.Parallel()

	for _, v := range []uint32{0, 1, 0xFFFF, 0x1_0000, 0xDEAD_BEEF, MaxFileSize} {
		halves := Split32(v)
		require.Equal(t, v, Join32(halves))
		assert.Equal(t, uint16(v>>16), halves[0])
	}
}

func TestDecodeBigEndianMagic(t *testing.T) {
	t.Parallel()

	b := Encode(binary.BigEndian, Trailer())
	assert.Equal(t, []byte{0x71, 0xC7}, b[0:2])
	assert.NotEqual(t, Magic, Decode(binary.LittleEndian, b[:]).Magic)
}

package testutil

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_FieldLayout(t *testing.T) {
	t.Parallel()

	f := Fields{Magic: 0x71C7, Ino: 7, Mode: 0x81ED, MTime: 0x00010002, NameSize: 4, FileSize: 0x00030004}

	tests := []struct {
		name  string
		order binary.ByteOrder
	}{
		{"little endian", binary.LittleEndian},
		{"big endian", binary.BigEndian},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := Header(tc.order, f)
			require.Len(t, b, 26)
			assert.Equal(t, uint16(0x71C7), tc.order.Uint16(b[0:]))
			assert.Equal(t, uint16(7), tc.order.Uint16(b[4:]))
			assert.Equal(t, uint16(0x81ED), tc.order.Uint16(b[6:]))
			assert.Equal(t, uint16(1), tc.order.Uint16(b[16:]), "mtime high half first")
			assert.Equal(t, uint16(2), tc.order.Uint16(b[18:]))
			assert.Equal(t, uint16(4), tc.order.Uint16(b[20:]))
			assert.Equal(t, uint16(3), tc.order.Uint16(b[22:]), "filesize high half first")
			assert.Equal(t, uint16(4), tc.order.Uint16(b[24:]))
		})
	}
}

func TestHeader_LittleEndianMagicBytes(t *testing.T) {
	t.Parallel()

	b := Header(binary.LittleEndian, FileFields("a", 0, 0))
	assert.Equal(t, []byte{0xC7, 0x71}, b[:2])
}

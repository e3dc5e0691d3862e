package secs2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests the SECS-II item decoder
//
// Testing Strategy:
//
// Decode literal bytes and compare against the expected item; decode the
// encoding of a nested item and check the round-trip property
// Decode(item.ToBytes()) == item.
//
// Partitions:
//
// - item type: list, ascii, binary, boolean, int, uint, float
// - input: empty, well-formed, truncated, trailing bytes, undefined format

func TestDecode_Empty(t *testing.T) {
	item, err := Decode([]byte{})
	assert.NoError(t, err)
	assert.Equal(t, NewList(), item)
}

func TestDecode_Literal(t *testing.T) {
	item, err := Decode([]byte{0o20<<2 | 1, 2, 'o', 'k'})
	assert.NoError(t, err)
	assert.Equal(t, NewASCII("ok"), item)

	item, err = Decode([]byte{0o54<<2 | 1, 8, 0, 0, 0, 1, 0, 0, 0, 2})
	assert.NoError(t, err)
	assert.Equal(t, NewUint(4, 1, 2), item)

	item, err = Decode([]byte{0o31<<2 | 1, 1, 0xFF})
	assert.NoError(t, err)
	assert.Equal(t, NewInt(1, -1), item)

	item, err = Decode([]byte{0o11<<2 | 1, 2, 0, 2})
	assert.NoError(t, err)
	assert.Equal(t, NewBoolean(false, true), item)
}

func TestDecode_RoundTrip(t *testing.T) {
	items := []Item{
		NewList(),
		NewASCII("equipment status"),
		NewBinary(0x00, 0x7F, 0xFF),
		NewBoolean(true, false, true),
		NewInt(2, -32768, 32767),
		NewInt(8, -1),
		NewUint(4, 0, 0xFFFFFFFF),
		NewFloat(4, 1.5, -0.25),
		NewFloat(8, 3.141592653589793),
		NewList(
			NewASCII("ALID"),
			NewUint(4, 1001),
			NewList(NewBoolean(true), NewBinary(0x01)),
		),
	}

	for _, item := range items {
		decoded, err := Decode(item.ToBytes())
		assert.NoError(t, err)
		assert.Equal(t, item, decoded)
		assert.Equal(t, item.ToBytes(), decoded.ToBytes())
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"zero length bytes", []byte{0o20 << 2, 1, 'x'}},
		{"truncated length bytes", []byte{0o20<<2 | 2, 1}},
		{"truncated data", []byte{0o20<<2 | 1, 4, 'x'}},
		{"undefined format code", []byte{0o77<<2 | 1, 0}},
		{"trailing bytes", []byte{0o20<<2 | 1, 1, 'x', 0xAA}},
		{"int length not multiple", []byte{0o32<<2 | 1, 3, 1, 2, 3}},
		{"truncated list child", []byte{0o00<<2 | 1, 2, 0o20<<2 | 1, 1, 'x'}},
	}

	for _, tt := range tests {
		item, err := Decode(tt.data)
		assert.Nil(t, item, tt.name)

		var formatErr *FormatError
		assert.ErrorAs(t, err, &formatErr, tt.name)
	}
}

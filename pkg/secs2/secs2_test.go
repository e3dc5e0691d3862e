package secs2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests the SECS-II data items
//
// Testing Strategy:
//
// Create each data item and test the result of public observer methods
// against literal expected bytes and SML notation.
//
// Partitions:
//
// - item type: list, ascii, binary, boolean, int, uint, float
// - size: 0, 1, n
// - values: boundary values of each type

func TestASCIIItem(t *testing.T) {
	item := NewASCII("")
	assert.Equal(t, 0, item.Size())
	assert.Equal(t, []byte{0o20<<2 | 1, 0}, item.ToBytes())
	assert.Equal(t, `<A "">`, item.String())

	item = NewASCII("text")
	assert.Equal(t, 4, item.Size())
	assert.Equal(t, []byte{0o20<<2 | 1, 4, 't', 'e', 'x', 't'}, item.ToBytes())
	assert.Equal(t, `<A "text">`, item.String())

	assert.Panics(t, func() { NewASCII("café") })
}

func TestBinaryItem(t *testing.T) {
	item := NewBinary()
	assert.Equal(t, []byte{0o10<<2 | 1, 0}, item.ToBytes())
	assert.Equal(t, "<B[0]>", item.String())

	item = NewBinary(0, 1, 0xFF)
	assert.Equal(t, 3, item.Size())
	assert.Equal(t, []byte{0o10<<2 | 1, 3, 0, 1, 0xFF}, item.ToBytes())
	assert.Equal(t, "<B[3] 0b0 0b1 0b11111111>", item.String())
}

func TestBooleanItem(t *testing.T) {
	item := NewBoolean(true, false)
	assert.Equal(t, 2, item.Size())
	assert.Equal(t, []byte{0o11<<2 | 1, 2, 1, 0}, item.ToBytes())
	assert.Equal(t, "<BOOLEAN[2] T F>", item.String())
}

func TestIntItem(t *testing.T) {
	item := NewInt(1, -1, 127, -128)
	assert.Equal(t, []byte{0o31<<2 | 1, 3, 0xFF, 0x7F, 0x80}, item.ToBytes())
	assert.Equal(t, "<I1[3] -1 127 -128>", item.String())

	item = NewInt(2, -2)
	assert.Equal(t, []byte{0o32<<2 | 1, 2, 0xFF, 0xFE}, item.ToBytes())

	item = NewInt(4, 1)
	assert.Equal(t, []byte{0o34<<2 | 1, 4, 0, 0, 0, 1}, item.ToBytes())

	item = NewInt(8, -1)
	assert.Equal(t, []byte{0o30<<2 | 1, 8, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, item.ToBytes())

	assert.Panics(t, func() { NewInt(3, 1) })
	assert.Panics(t, func() { NewInt(1, 128) })
	assert.Panics(t, func() { NewInt(2, -32769) })
}

func TestUintItem(t *testing.T) {
	item := NewUint(1, 0, 255)
	assert.Equal(t, []byte{0o51<<2 | 1, 2, 0, 0xFF}, item.ToBytes())
	assert.Equal(t, "<U1[2] 0 255>", item.String())

	item = NewUint(4, 0x01020304)
	assert.Equal(t, []byte{0o54<<2 | 1, 4, 1, 2, 3, 4}, item.ToBytes())

	assert.Panics(t, func() { NewUint(1, 256) })
}

func TestFloatItem(t *testing.T) {
	item := NewFloat(4, 1.5)
	assert.Equal(t, []byte{0o44<<2 | 1, 4, 0x3F, 0xC0, 0, 0}, item.ToBytes())
	assert.Equal(t, "<F4[1] 1.5>", item.String())

	item = NewFloat(8, 1.5)
	assert.Equal(t, []byte{0o40<<2 | 1, 8, 0x3F, 0xF8, 0, 0, 0, 0, 0, 0}, item.ToBytes())

	assert.Panics(t, func() { NewFloat(2, 1) })
}

func TestListItem(t *testing.T) {
	item := NewList()
	assert.Equal(t, []byte{0o00<<2 | 1, 0}, item.ToBytes())
	assert.Equal(t, "<L[0]>", item.String())

	item = NewList(NewASCII("x"), NewUint(1, 7))
	assert.Equal(t, 2, item.Size())
	assert.Equal(t,
		[]byte{0o00<<2 | 1, 2, 0o20<<2 | 1, 1, 'x', 0o51<<2 | 1, 1, 7},
		item.ToBytes())
	assert.Equal(t, `<L[2] <A "x"> <U1 7>>`, item.String())

	list := item.(*ListItem)
	assert.Equal(t, NewASCII("x"), list.Item(0))
}

func TestHeaderBytes_MultipleLengthBytes(t *testing.T) {
	// 256 bytes needs 2 length bytes.
	item := NewBinary(make([]byte, 256)...)
	assert.Equal(t, []byte{0o10<<2 | 2, 1, 0}, item.ToBytes()[:3])

	// 65536 bytes needs 3 length bytes.
	item = NewBinary(make([]byte, 65536)...)
	assert.Equal(t, []byte{0o10<<2 | 3, 1, 0, 0}, item.ToBytes()[:4])
}

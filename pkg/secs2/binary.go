package secs2

import (
	"fmt"
	"strconv"
	"strings"
)

// BinaryItem is an immutable data type that represents a binary item in a
// SECS-II message. Implements Item.
type BinaryItem struct {
	values []byte

	// Safety from rep exposure
	// - values is copied in and out
}

// NewBinary creates a new binary data item.
func NewBinary(values ...byte) Item {
	checkByteSize(1, len(values))
	return &BinaryItem{values: append([]byte{}, values...)}
}

// Size implements Item.Size().
func (item *BinaryItem) Size() int {
	return len(item.values)
}

// Values returns a copy of the binary values of the data item.
func (item *BinaryItem) Values() []byte {
	return append([]byte{}, item.values...)
}

// ToBytes implements Item.ToBytes().
func (item *BinaryItem) ToBytes() []byte {
	result := headerBytes(formatCodeBinary, len(item.values))
	return append(result, item.values...)
}

// String returns the SML notation of the item, e.g. <B[2] 0b1 0b10>.
func (item *BinaryItem) String() string {
	if item.Size() == 0 {
		return "<B[0]>"
	}

	values := make([]string, 0, item.Size())
	for _, value := range item.values {
		values = append(values, "0b"+strconv.FormatUint(uint64(value), 2))
	}
	return fmt.Sprintf("<B[%d] %s>", item.Size(), strings.Join(values, " "))
}

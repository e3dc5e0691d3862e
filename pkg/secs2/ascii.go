package secs2

import "strconv"

// ASCIIItem is an immutable data type that represents an ASCII string item
// in a SECS-II message. Implements Item.
type ASCIIItem struct {
	value string

	// Rep invariants
	// - each character in value should be in range of [0, 128)
	// - len(value) should not exceed MaxByteSize
}

// NewASCII creates a new ASCII string data item.
// value should contain only ASCII characters.
func NewASCII(value string) Item {
	checkByteSize(1, len(value))
	item := &ASCIIItem{value: value}
	item.checkRep()
	return item
}

// Size implements Item.Size().
func (item *ASCIIItem) Size() int {
	return len(item.value)
}

// Value returns the string value of the data item.
func (item *ASCIIItem) Value() string {
	return item.value
}

// ToBytes implements Item.ToBytes().
func (item *ASCIIItem) ToBytes() []byte {
	result := headerBytes(formatCodeASCII, len(item.value))
	return append(result, item.value...)
}

// String returns the SML notation of the item, e.g. <A "text">.
func (item *ASCIIItem) String() string {
	return "<A " + strconv.Quote(item.value) + ">"
}

func (item *ASCIIItem) checkRep() {
	for _, ch := range item.value {
		if ch >= 128 {
			panic("ascii item contains non-ascii character")
		}
	}
}

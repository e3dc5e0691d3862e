package secs2

import (
	"fmt"
	"strings"
)

// BooleanItem is an immutable data type that represents a boolean item in a
// SECS-II message. Implements Item.
type BooleanItem struct {
	values []bool

	// Safety from rep exposure
	// - values is copied in and out
}

// NewBoolean creates a new boolean data item.
func NewBoolean(values ...bool) Item {
	checkByteSize(1, len(values))
	return &BooleanItem{values: append([]bool{}, values...)}
}

// Size implements Item.Size().
func (item *BooleanItem) Size() int {
	return len(item.values)
}

// Values returns a copy of the boolean values of the data item.
func (item *BooleanItem) Values() []bool {
	return append([]bool{}, item.values...)
}

// ToBytes implements Item.ToBytes().
// True values are encoded as 1 and false values as 0.
func (item *BooleanItem) ToBytes() []byte {
	result := headerBytes(formatCodeBoolean, len(item.values))
	for _, value := range item.values {
		if value {
			result = append(result, 1)
		} else {
			result = append(result, 0)
		}
	}
	return result
}

// String returns the SML notation of the item, e.g. <BOOLEAN[2] T F>.
func (item *BooleanItem) String() string {
	if item.Size() == 0 {
		return "<BOOLEAN[0]>"
	}

	values := make([]string, 0, item.Size())
	for _, value := range item.values {
		if value {
			values = append(values, "T")
		} else {
			values = append(values, "F")
		}
	}
	return fmt.Sprintf("<BOOLEAN[%d] %s>", item.Size(), strings.Join(values, " "))
}

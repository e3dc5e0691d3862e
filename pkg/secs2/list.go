package secs2

import (
	"fmt"
	"strings"
)

// ListItem is an immutable data type that represents a list of SECS-II data
// items. Implements Item.
type ListItem struct {
	items []Item

	// Rep invariants
	// - len(items) should not exceed MaxByteSize
	//
	// Safety from rep exposure
	// - items is copied in; Items returns a copy
}

// NewList creates a new list data item containing the specified child items.
func NewList(items ...Item) Item {
	checkByteSize(1, len(items))
	node := &ListItem{items: append([]Item{}, items...)}
	return node
}

// Size implements Item.Size().
func (item *ListItem) Size() int {
	return len(item.items)
}

// Items returns the child items of the list.
func (item *ListItem) Items() []Item {
	return append([]Item{}, item.items...)
}

// Item returns the i-th child item of the list.
func (item *ListItem) Item(i int) Item {
	return item.items[i]
}

// ToBytes implements Item.ToBytes().
// For a list, the length bytes carry the number of child items, not a byte
// length.
func (item *ListItem) ToBytes() []byte {
	result := headerBytes(formatCodeList, len(item.items))
	for _, child := range item.items {
		result = append(result, child.ToBytes()...)
	}
	return result
}

// String returns the SML notation of the list, e.g. <L[2] <A "x"> <U1[1] 1>>.
func (item *ListItem) String() string {
	if item.Size() == 0 {
		return "<L[0]>"
	}

	children := make([]string, 0, item.Size())
	for _, child := range item.items {
		children = append(children, child.String())
	}
	return fmt.Sprintf("<L[%d] %s>", item.Size(), strings.Join(children, " "))
}

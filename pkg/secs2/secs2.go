// Package secs2 contains data types that represent SECS-II (SEMI E5) data
// items, and the byte codec between the item tree and its wire encoding.
//
// The HSMS protocol layers carry message text as opaque bytes; this package
// produces and consumes those bytes.
package secs2

import "fmt"

// MaxByteSize is the maximum number of bytes a data item may encode to,
// as specified in the SEMI Standard; n * b <= 16,777,215 (3 bytes), where n
// is the number of data values in an item and b is the bytes per value.
const MaxByteSize = 1<<24 - 1

// SECS-II item format codes.
const (
	formatCodeList    = 0o00
	formatCodeBinary  = 0o10
	formatCodeBoolean = 0o11
	formatCodeASCII   = 0o20
	formatCodeI8      = 0o30
	formatCodeI1      = 0o31
	formatCodeI2      = 0o32
	formatCodeI4      = 0o34
	formatCodeF8      = 0o40
	formatCodeF4      = 0o44
	formatCodeU8      = 0o50
	formatCodeU1      = 0o51
	formatCodeU2      = 0o52
	formatCodeU4      = 0o54
)

// Item is an immutable data type that represents a data item in a SECS-II
// message, e.g. <A "text">, <U4 42>, or a list of other items.
type Item interface {
	// Size returns the array size of the data item; for a list, the number
	// of child items.
	Size() int

	// ToBytes returns the wire representation of the data item, i.e. the
	// format byte, the length bytes and the data bytes.
	ToBytes() []byte

	// String returns the SML notation of the data item.
	String() string
}

// headerBytes returns the format byte and the length bytes of a data item
// with the specified format code and data byte length.
// It panics when the data byte length exceeds MaxByteSize.
func headerBytes(formatCode, dataByteLength int) []byte {
	if dataByteLength > MaxByteSize {
		panic("item size limit exceeded")
	}

	lengthBytes := []byte{
		byte(dataByteLength >> 16),
		byte(dataByteLength >> 8),
		byte(dataByteLength),
	}

	if lengthBytes[0] == 0 {
		if lengthBytes[1] == 0 {
			lengthBytes = lengthBytes[2:]
		} else {
			lengthBytes = lengthBytes[1:]
		}
	}

	result := make([]byte, 0, 1+len(lengthBytes))
	result = append(result, byte(formatCode<<2+len(lengthBytes)))
	result = append(result, lengthBytes...)
	return result
}

func checkByteSize(bytesPerValue, size int) {
	if bytesPerValue*size > MaxByteSize {
		panic(fmt.Sprintf("item size limit exceeded: %d values of %d bytes", size, bytesPerValue))
	}
}

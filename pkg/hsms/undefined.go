package hsms

import (
	"encoding/binary"
	"fmt"
)

// UndefinedMessage represents an inbound message whose presentation type or
// session type is not defined by the protocol. It is kept only so that the
// dispatcher can answer it with a Reject.req echoing the offending values.
// Implements Message.
type UndefinedMessage struct {
	header []byte
	text   []byte

	// Rep invariants
	// - header should have length of 10
}

// ID implements Message.ID().
func (msg *UndefinedMessage) ID() MessageID {
	return MessageID{
		Session: binary.BigEndian.Uint16(msg.header[0:2]),
		System:  binary.BigEndian.Uint32(msg.header[6:10]),
	}
}

// SType implements Message.SType().
func (msg *UndefinedMessage) SType() byte {
	return msg.header[5]
}

// PType returns the presentation type byte of the message.
func (msg *UndefinedMessage) PType() byte {
	return msg.header[4]
}

// ToBytes implements Message.ToBytes().
func (msg *UndefinedMessage) ToBytes() []byte {
	result := make([]byte, 0, len(msg.text)+headerLength+4)
	result = binary.BigEndian.AppendUint32(result, uint32(len(msg.text)+headerLength))
	result = append(result, msg.header...)
	result = append(result, msg.text...)
	return result
}

func (msg *UndefinedMessage) String() string {
	return fmt.Sprintf("undefined message (ptype %d, stype %d)", msg.PType(), msg.SType())
}

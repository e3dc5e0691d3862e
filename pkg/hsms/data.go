package hsms

import (
	"encoding/binary"
	"fmt"
)

// DataMessage is an immutable data type that represents a HSMS data message.
// The message text is carried as opaque, already-encoded SECS-II bytes.
// Implements Message.
type DataMessage struct {
	sessionID uint16
	stream    byte
	function  byte
	waitBit   bool
	system    uint32
	text      []byte

	// Rep invariants
	// - stream should be in range of [0, 128)
	// - waitBit should not be set when function is an even number
	//
	// Safety from rep exposure
	// - text is copied in and out
}

// NewDataMessage creates a new HSMS data message.
//
// stream is the stream code and should be in range of [0, 128).
// waitBit means that a reply to this message is expected; it cannot be set
// when function is an even number, i.e. the message is itself a reply.
// text should be SECS-II encoded bytes and may be empty.
func NewDataMessage(id MessageID, stream, function byte, waitBit bool, text []byte) *DataMessage {
	msg := &DataMessage{
		sessionID: id.Session,
		stream:    stream,
		function:  function,
		waitBit:   waitBit,
		system:    id.System,
		text:      append([]byte{}, text...),
	}
	msg.checkRep()
	return msg
}

// ID implements Message.ID().
func (msg *DataMessage) ID() MessageID {
	return MessageID{Session: msg.sessionID, System: msg.system}
}

// SType implements Message.SType().
func (msg *DataMessage) SType() byte {
	return STypeDataMessage
}

// StreamCode returns the stream code of the data message.
func (msg *DataMessage) StreamCode() byte {
	return msg.stream
}

// FunctionCode returns the function code of the data message.
func (msg *DataMessage) FunctionCode() byte {
	return msg.function
}

// WaitBit reports whether a reply to this message is expected.
func (msg *DataMessage) WaitBit() bool {
	return msg.waitBit
}

// Text returns a copy of the SECS-II encoded message text.
func (msg *DataMessage) Text() []byte {
	return append([]byte{}, msg.text...)
}

// ToBytes implements Message.ToBytes().
func (msg *DataMessage) ToBytes() []byte {
	result := make([]byte, 0, len(msg.text)+14)

	result = binary.BigEndian.AppendUint32(result, uint32(len(msg.text)+headerLength))
	// Header byte 0-1: session id
	result = binary.BigEndian.AppendUint16(result, msg.sessionID)
	// Header byte 2-3: wait bit + stream code, function code
	headerByte2 := msg.stream
	if msg.waitBit {
		headerByte2 |= 0b10000000
	}
	result = append(result, headerByte2, msg.function)
	// Header byte 4-5: PType, SType
	result = append(result, PTypeSecsII, STypeDataMessage)
	// Header byte 6-9: system bytes
	result = binary.BigEndian.AppendUint32(result, msg.system)
	// Message text
	result = append(result, msg.text...)

	return result
}

// String returns the SxFy header notation of the message, e.g. "S1F1 W".
func (msg *DataMessage) String() string {
	header := fmt.Sprintf("S%dF%d", msg.stream, msg.function)
	if msg.waitBit {
		header += " W"
	}
	return header
}

func (msg *DataMessage) checkRep() {
	if msg.stream >= 128 {
		panic("stream code out of range")
	}

	if msg.waitBit && msg.function%2 == 0 {
		panic("wait bit is not valid for reply message")
	}
}

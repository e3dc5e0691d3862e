package hsms

import (
	"encoding/binary"
	"fmt"
)

// Decode decodes the body of a HSMS frame, i.e. the 10-byte header followed
// by the message text, into a Message. The 4-byte length prefix must already
// have been consumed by the transport.
//
// A message with an unsupported presentation type or an undefined session
// type decodes into an UndefinedMessage, so that the receiver can answer it
// with a Reject.req; such messages are not a transport-level error.
//
// A FormatError is returned when the body is shorter than a header or a
// control message carries message text.
func Decode(body []byte) (Message, error) {
	if len(body) < headerLength {
		return nil, &FormatError{Reason: fmt.Sprintf("body of %d bytes is shorter than a header", len(body))}
	}

	header := make([]byte, headerLength)
	copy(header, body[:headerLength])
	text := body[headerLength:]

	if header[4] != PTypeSecsII {
		return &UndefinedMessage{header: header, text: append([]byte{}, text...)}, nil
	}

	switch header[5] {
	case STypeDataMessage:
		id := MessageID{
			Session: binary.BigEndian.Uint16(header[0:2]),
			System:  binary.BigEndian.Uint32(header[6:10]),
		}
		stream := header[2] & 0b01111111
		function := header[3]
		// The wait bit has no meaning on a reply message and is masked off.
		waitBit := header[2]>>7 == 1 && function%2 == 1
		return NewDataMessage(id, stream, function, waitBit, text), nil

	case STypeSelectReq, STypeSelectRsp, STypeDeselectReq, STypeDeselectRsp,
		STypeLinktestReq, STypeLinktestRsp, STypeRejectReq, STypeSeparateReq:
		if len(text) != 0 {
			return nil, &FormatError{Reason: "control message with message text"}
		}
		return &ControlMessage{header}, nil

	default:
		return &UndefinedMessage{header: header, text: append([]byte{}, text...)}, nil
	}
}

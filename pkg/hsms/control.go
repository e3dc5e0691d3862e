package hsms

import "encoding/binary"

// ControlMessage is an immutable data type that represents a HSMS control
// message. Implements Message.
type ControlMessage struct {
	header []byte
	// Rep invariants
	// - header should have length of 10
	// - header[5] should be one of the non-data session type values
	//
	// Safety from rep exposure
	// - header should not be exposed
}

func newControlMessage(sessionID uint16, b2, b3, sType byte, system uint32) *ControlMessage {
	header := make([]byte, headerLength)
	binary.BigEndian.PutUint16(header[0:2], sessionID)
	header[2] = b2
	header[3] = b3
	header[5] = sType
	binary.BigEndian.PutUint32(header[6:10], system)
	return &ControlMessage{header}
}

// NewSelectReq creates a Select.req control message.
func NewSelectReq(sessionID uint16, system uint32) *ControlMessage {
	return newControlMessage(sessionID, 0, 0, STypeSelectReq, system)
}

// NewSelectRsp creates a Select.rsp control message replying to a Select.req.
// The session id and the system bytes of the request are echoed.
func NewSelectRsp(selectReq *ControlMessage, status SelectStatus) *ControlMessage {
	if selectReq.SType() != STypeSelectReq {
		panic("expected select.req message")
	}
	id := selectReq.ID()
	return newControlMessage(id.Session, 0, byte(status), STypeSelectRsp, id.System)
}

// NewDeselectReq creates a Deselect.req control message.
func NewDeselectReq(sessionID uint16, system uint32) *ControlMessage {
	return newControlMessage(sessionID, 0, 0, STypeDeselectReq, system)
}

// NewDeselectRsp creates a Deselect.rsp control message replying to a
// Deselect.req. The session id and the system bytes of the request are echoed.
func NewDeselectRsp(deselectReq *ControlMessage, status DeselectStatus) *ControlMessage {
	if deselectReq.SType() != STypeDeselectReq {
		panic("expected deselect.req message")
	}
	id := deselectReq.ID()
	return newControlMessage(id.Session, 0, byte(status), STypeDeselectRsp, id.System)
}

// NewLinktestReq creates a Linktest.req control message.
// The session id of a linktest is always 0xFFFF.
func NewLinktestReq(system uint32) *ControlMessage {
	return newControlMessage(0xFFFF, 0, 0, STypeLinktestReq, system)
}

// NewLinktestRsp creates a Linktest.rsp control message replying to a
// Linktest.req, echoing its system bytes.
func NewLinktestRsp(linktestReq *ControlMessage) *ControlMessage {
	if linktestReq.SType() != STypeLinktestReq {
		panic("expected linktest.req message")
	}
	return newControlMessage(0xFFFF, 0, 0, STypeLinktestRsp, linktestReq.ID().System)
}

// NewRejectReq creates a Reject.req control message.
//
// sessionID, pType, sType and system should be taken from the message being
// rejected. Header byte 2 carries the offending presentation type when the
// reason is RejectReasonPTypeUnsupported, and the offending session type
// otherwise.
func NewRejectReq(sessionID uint16, pType, sType byte, system uint32, reason RejectReason) *ControlMessage {
	b2 := sType
	if reason == RejectReasonPTypeUnsupported {
		b2 = pType
	}
	return newControlMessage(sessionID, b2, byte(reason), STypeRejectReq, system)
}

// NewSeparateReq creates a Separate.req control message.
func NewSeparateReq(sessionID uint16, system uint32) *ControlMessage {
	return newControlMessage(sessionID, 0, 0, STypeSeparateReq, system)
}

// ID implements Message.ID().
func (msg *ControlMessage) ID() MessageID {
	return MessageID{
		Session: binary.BigEndian.Uint16(msg.header[0:2]),
		System:  binary.BigEndian.Uint32(msg.header[6:10]),
	}
}

// SType implements Message.SType().
func (msg *ControlMessage) SType() byte {
	return msg.header[5]
}

// Status returns header byte 3 of the control message, which carries the
// select status, the deselect status or the reject reason depending on the
// message type.
func (msg *ControlMessage) Status() byte {
	return msg.header[3]
}

// OffendingType returns header byte 2 of a Reject.req message, which echoes
// the presentation type or the session type of the rejected message.
func (msg *ControlMessage) OffendingType() byte {
	return msg.header[2]
}

// ToBytes implements Message.ToBytes().
func (msg *ControlMessage) ToBytes() []byte {
	result := make([]byte, 0, headerLength+4)
	result = append(result, 0, 0, 0, headerLength)
	result = append(result, msg.header...)
	return result
}

// String returns the message type, e.g. "select.req".
func (msg *ControlMessage) String() string {
	switch msg.header[5] {
	case STypeSelectReq:
		return "select.req"
	case STypeSelectRsp:
		return "select.rsp"
	case STypeDeselectReq:
		return "deselect.req"
	case STypeDeselectRsp:
		return "deselect.rsp"
	case STypeLinktestReq:
		return "linktest.req"
	case STypeLinktestRsp:
		return "linktest.rsp"
	case STypeRejectReq:
		return "reject.req"
	case STypeSeparateReq:
		return "separate.req"
	default:
		return "unknown"
	}
}

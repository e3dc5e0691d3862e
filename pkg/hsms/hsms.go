// Package hsms contains the message model of the HSMS protocol (SEMI E37):
// the 10-byte message header, the data message and the control messages,
// and the byte codec between them and the TCP wire format.
package hsms

import "fmt"

// Session type byte values, as standardized by SEMI E37.
const (
	STypeDataMessage byte = 0
	STypeSelectReq   byte = 1
	STypeSelectRsp   byte = 2
	STypeDeselectReq byte = 3
	STypeDeselectRsp byte = 4
	STypeLinktestReq byte = 5
	STypeLinktestRsp byte = 6
	STypeRejectReq   byte = 7
	STypeSeparateReq byte = 9
)

// PTypeSecsII is the only standardized presentation type; values 1-127 are
// reserved for subsidiary standards and 128-255 may not be used.
const PTypeSecsII byte = 0

// DefaultMaxMessageLength bounds the length field of an inbound frame.
const DefaultMaxMessageLength uint32 = 1 << 24

// headerLength is the fixed size of a HSMS message header.
const headerLength = 10

// SelectStatus is the status byte carried by a Select.rsp message.
type SelectStatus byte

// Select.rsp status values.
// Values above SelectStatusFailed are reserved failure reason codes.
const (
	SelectStatusOk                   SelectStatus = 0
	SelectStatusAlreadyActive        SelectStatus = 1
	SelectStatusNotReady             SelectStatus = 2
	SelectStatusExhaustedConnections SelectStatus = 3
	SelectStatusFailed               SelectStatus = 4
)

func (s SelectStatus) String() string {
	switch s {
	case SelectStatusOk:
		return "ok"
	case SelectStatusAlreadyActive:
		return "already active"
	case SelectStatusNotReady:
		return "not ready"
	case SelectStatusExhaustedConnections:
		return "connection exhausted"
	default:
		return fmt.Sprintf("failed (%d)", byte(s))
	}
}

// DeselectStatus is the status byte carried by a Deselect.rsp message.
type DeselectStatus byte

// Deselect.rsp status values.
// Values above DeselectStatusBusy are reserved failure reason codes.
const (
	DeselectStatusOk             DeselectStatus = 0
	DeselectStatusNotEstablished DeselectStatus = 1
	DeselectStatusBusy           DeselectStatus = 2
)

func (s DeselectStatus) String() string {
	switch s {
	case DeselectStatusOk:
		return "ok"
	case DeselectStatusNotEstablished:
		return "not established"
	case DeselectStatusBusy:
		return "busy"
	default:
		return fmt.Sprintf("failed (%d)", byte(s))
	}
}

// RejectReason is the reason byte carried by a Reject.req message.
type RejectReason byte

// Reject.req reason values. Zero is not a valid reason; values above
// RejectReasonEntityNotSelected are reserved.
const (
	RejectReasonSTypeUnsupported   RejectReason = 1
	RejectReasonPTypeUnsupported   RejectReason = 2
	RejectReasonTransactionNotOpen RejectReason = 3
	RejectReasonEntityNotSelected  RejectReason = 4
)

func (r RejectReason) String() string {
	switch r {
	case RejectReasonSTypeUnsupported:
		return "session type not supported"
	case RejectReasonPTypeUnsupported:
		return "presentation type not supported"
	case RejectReasonTransactionNotOpen:
		return "transaction not open"
	case RejectReasonEntityNotSelected:
		return "entity not selected"
	default:
		return fmt.Sprintf("reserved reason (%d)", byte(r))
	}
}

// MessageID identifies a transaction on a connection.
// System is the 4-byte per-sender correlator; a peer replying to a primary
// echoes the exact value.
type MessageID struct {
	Session uint16
	System  uint32
}

func (id MessageID) String() string {
	return fmt.Sprintf("session 0x%04X system 0x%08X", id.Session, id.System)
}

// Message is a HSMS message, either a DataMessage or a ControlMessage.
type Message interface {
	// ID returns the session id and system bytes of the message.
	ID() MessageID

	// SType returns the session type byte of the message.
	SType() byte

	// ToBytes returns the wire representation of the message, including the
	// 4-byte length prefix.
	ToBytes() []byte
}

package hsms

import (
	"errors"
	"fmt"
)

// Errors returned by the protocol layers.
var (
	// ErrIo means that a network operation failed. Errors of this category
	// wrap the underlying error and tear the connection down.
	ErrIo = errors.New("hsms: io")

	// ErrTimedOut means that an operation timed out waiting for completion
	// or for a response from the other end of the connection.
	ErrTimedOut = errors.New("hsms: timed out")

	// ErrNotConnected means that the operation is not valid before a
	// connection has been made.
	ErrNotConnected = errors.New("hsms: not connected")

	// ErrAlreadyConnected means that the operation would form a connection
	// where one already exists.
	ErrAlreadyConnected = errors.New("hsms: already connected")

	// ErrDisconnected means that a disconnection occurred while the
	// operation was in progress.
	ErrDisconnected = errors.New("hsms: disconnected")

	// ErrNotSelected means that the operation is not valid before the
	// handshake establishing the selected state has completed.
	ErrNotSelected = errors.New("hsms: not selected")

	// ErrTransactionOpen means that an outstanding transaction conflicts
	// with the message asked to be sent.
	ErrTransactionOpen = errors.New("hsms: transaction open")

	// ErrInvalidResponse means that a response to a sent message was of a
	// form not correlated to it, or is otherwise malformed in an
	// unhandleable manner.
	ErrInvalidResponse = errors.New("hsms: invalid response")
)

// FormatError is returned when inbound bytes cannot be decoded as a HSMS
// message.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "hsms: malformed message: " + e.Reason
}

// MessageRejectedError means that the peer received a data message and
// rejected it with a Reject.req on the basis that it could not understand it.
type MessageRejectedError struct {
	// OffendingType is the presentation type or the session type echoed in
	// header byte 2 of the Reject.req.
	OffendingType byte
	Reason        RejectReason
}

func (e *MessageRejectedError) Error() string {
	return fmt.Sprintf("hsms: message rejected: %s (offending type %d)", e.Reason, e.OffendingType)
}

// ProcedureRejectedError means that the peer received a control message and
// rejected the procedure which it requested. Reason is the reject reason
// code of a Reject.req, or the non-zero status byte of a Select.rsp or
// Deselect.rsp.
type ProcedureRejectedError struct {
	Reason byte
}

func (e *ProcedureRejectedError) Error() string {
	return fmt.Sprintf("hsms: procedure rejected (reason %d)", e.Reason)
}

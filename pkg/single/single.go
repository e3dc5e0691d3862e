// Package single contains the HSMS Single Selected Session (HSMS-SS)
// profile: a shell over the generic services that restricts the protocol to
// a single host/equipment pair.
//
// Under HSMS-SS, only session id 0xFFFF is valid, only the active entity
// initiates the select procedure, the connection is selected at most once,
// the deselect procedure is forbidden, and a separation always ends the
// connection.
package single

import (
	"net"

	"github.com/jheon/lib-hsms-go/pkg/generic"
	"github.com/jheon/lib-hsms-go/pkg/hsms"
	"github.com/jheon/lib-hsms-go/pkg/primitive"
)

// SessionID is the only session id valid under HSMS-SS.
const SessionID uint16 = 0xFFFF

// Client implements HSMS-SS on a single connection.
type Client struct {
	generic *generic.Client
}

// New creates a HSMS-SS client with the given settings.
func New(settings generic.ParameterSettings) (*Client, error) {
	callbacks := generic.ProcedureCallbacks{
		OnDeselect: func(sessionID uint16, selectionCount uint) (hsms.DeselectStatus, bool) {
			// The deselect procedure is forbidden.
			return 0, false
		},
		OnSeparate: func(sessionID uint16, selectionCount uint) bool {
			// Only session id 0xFFFF is valid; but whichever id is
			// received, the proper response is to end the connection, so
			// the result is the same either way.
			return false
		},
	}

	switch settings.ConnectMode {
	case primitive.ModePassive:
		callbacks.OnSelect = func(sessionID uint16, selectionCount uint) (hsms.SelectStatus, bool) {
			// A single session may be selected, once, under session id
			// 0xFFFF.
			if selectionCount == 0 && sessionID == SessionID {
				return hsms.SelectStatusOk, true
			}
			return 0, false
		}
	case primitive.ModeActive:
		callbacks.OnSelect = func(sessionID uint16, selectionCount uint) (hsms.SelectStatus, bool) {
			// Only the active entity initiates the select procedure.
			return 0, false
		}
	}

	client, err := generic.New(settings, callbacks)
	if err != nil {
		return nil, err
	}
	return &Client{generic: client}, nil
}

// Connect forms the connection and completes the select handshake.
//
// An active client dials the endpoint and immediately initiates the select
// procedure; a select failure tears the connection down. A passive client
// accepts the connection and waits up to T7 for the peer's select; a
// timeout tears the connection down and fails with hsms.ErrTimedOut.
//
// On success, the connection is in the SELECTED state and the returned
// reader delivers inbound primary data messages in arrival order.
func (c *Client) Connect(endpoint string) (net.Addr, *generic.Inbox, error) {
	addr, inbox, err := c.generic.Connect(endpoint)
	if err != nil {
		return nil, nil, err
	}

	switch c.generic.Settings().ConnectMode {
	case primitive.ModeActive:
		handle, err := c.generic.Select(hsms.MessageID{Session: SessionID})
		if err == nil {
			err = handle.Wait()
		}
		if err != nil {
			c.generic.Disconnect()
			return nil, nil, err
		}

	case primitive.ModePassive:
		if err := c.generic.WaitSelected(c.generic.Settings().T7); err != nil {
			c.generic.Disconnect()
			return nil, nil, err
		}
	}

	return addr, inbox, nil
}

// Disconnect ends the session. A selected connection is separated first;
// the socket is closed either way, and every pending handle completes with
// hsms.ErrDisconnected.
func (c *Client) Disconnect() {
	if c.generic.State() == generic.Selected {
		// The separation completes on send; a failed send has already torn
		// the connection down.
		c.generic.Separate(hsms.MessageID{Session: SessionID})
	}
	c.generic.Disconnect()
}

// Data sends a data message; see the generic data procedure for the
// completion semantics of the returned handle.
func (c *Client) Data(msg *hsms.DataMessage) (*generic.Handle, error) {
	return c.generic.Data(msg)
}

// Respond sends the response to a primary data message received over the
// inbound data queue, echoing its exact system bytes.
func (c *Client) Respond(id hsms.MessageID, stream, function byte, text []byte) error {
	return c.generic.Respond(id, stream, function, text)
}

// Linktest initiates the linktest procedure. Under HSMS-SS, a linktest is
// only allowed in the SELECTED state.
func (c *Client) Linktest(system uint32) (*generic.Handle, error) {
	if !c.generic.Connected() {
		return nil, hsms.ErrNotConnected
	}
	if c.generic.State() != generic.Selected {
		return nil, hsms.ErrNotSelected
	}
	return c.generic.Linktest(system)
}

// Reject sends a Reject.req referencing the message identified by id.
func (c *Client) Reject(id hsms.MessageID, offendingType byte, reason hsms.RejectReason) error {
	return c.generic.Reject(id, offendingType, reason)
}

// NextSystemBytes allocates a fresh system bytes value for a new primary.
func (c *Client) NextSystemBytes() uint32 {
	return c.generic.NextSystemBytes()
}

// State returns the selection state of the connection.
func (c *Client) State() generic.SelectionState {
	return c.generic.State()
}

// Connected reports whether the connection is established.
func (c *Client) Connected() bool {
	return c.generic.Connected()
}

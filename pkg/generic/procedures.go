package generic

import (
	"github.com/sirupsen/logrus"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
)

// Select initiates the select procedure.
//
// id.Session is the session to select; id.System is used as the system
// bytes of the transaction when non-zero, otherwise a fresh value is
// allocated. The handle completes when the Select.rsp arrives, with a
// *hsms.ProcedureRejectedError for a non-zero select status, or with
// hsms.ErrTimedOut after T6, which also tears the connection down.
func (c *Client) Select(id hsms.MessageID) (*Handle, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, hsms.ErrNotConnected
	}
	if c.state != NotSelected {
		c.mu.Unlock()
		return nil, hsms.ErrTransactionOpen
	}
	system, err := c.pickSystemLocked(id.System)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	tx := c.openTransactionLocked(system, hsms.STypeSelectRsp, c.settings.T6)
	c.state = SelectInProgress
	c.mu.Unlock()

	if err := c.conn.Send(hsms.NewSelectReq(id.Session, system)); err != nil {
		c.abortTransaction(system)
		c.mu.Lock()
		if c.state == SelectInProgress {
			c.state = NotSelected
		}
		c.mu.Unlock()
		return nil, err
	}
	return tx.handle, nil
}

// Deselect initiates the deselect procedure. The handle completes when the
// Deselect.rsp arrives, with a *hsms.ProcedureRejectedError for a non-zero
// deselect status, or with hsms.ErrTimedOut after T6, which also tears the
// connection down.
func (c *Client) Deselect(id hsms.MessageID) (*Handle, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, hsms.ErrNotConnected
	}
	if c.state != Selected {
		c.mu.Unlock()
		return nil, hsms.ErrNotSelected
	}
	system, err := c.pickSystemLocked(id.System)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	tx := c.openTransactionLocked(system, hsms.STypeDeselectRsp, c.settings.T6)
	c.state = DeselectInProgress
	c.mu.Unlock()

	if err := c.conn.Send(hsms.NewDeselectReq(id.Session, system)); err != nil {
		c.abortTransaction(system)
		c.mu.Lock()
		if c.state == DeselectInProgress {
			c.state = Selected
		}
		c.mu.Unlock()
		return nil, err
	}
	return tx.handle, nil
}

// Separate initiates the separate procedure. No reply is defined for a
// Separate.req: the selection is dropped immediately and the procedure
// completes when the message has been written.
func (c *Client) Separate(id hsms.MessageID) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return hsms.ErrNotConnected
	}
	if c.state != Selected {
		c.mu.Unlock()
		return hsms.ErrNotSelected
	}
	system := id.System
	if system == 0 {
		system = c.allocSystemLocked()
	}
	c.leaveSelectedLocked()
	c.mu.Unlock()

	return c.conn.Send(hsms.NewSeparateReq(id.Session, system))
}

// Linktest initiates the linktest procedure. system is used as the system
// bytes of the transaction when non-zero, otherwise a fresh value is
// allocated. The handle completes when the Linktest.rsp arrives, or with
// hsms.ErrTimedOut after T6, which also tears the connection down.
//
// The generic services allow a linktest whenever connected; the HSMS-SS
// profile restricts it to the SELECTED state.
func (c *Client) Linktest(system uint32) (*Handle, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, hsms.ErrNotConnected
	}
	system, err := c.pickSystemLocked(system)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	tx := c.openTransactionLocked(system, hsms.STypeLinktestRsp, c.settings.T6)
	c.mu.Unlock()

	if err := c.conn.Send(hsms.NewLinktestReq(system)); err != nil {
		c.abortTransaction(system)
		return nil, err
	}
	return tx.handle, nil
}

// Data sends a data message.
//
// When the wait bit of msg is set, a pending reply slot is registered under
// the system bytes of msg, and the handle completes with the response data
// message, with a *hsms.MessageRejectedError when the peer rejects the
// message, or with hsms.ErrTimedOut after T3, which also tears the
// connection down. A system bytes value with an open transaction fails
// synchronously with hsms.ErrTransactionOpen.
//
// When the wait bit is clear, the returned handle is already completed with
// a nil reply.
func (c *Client) Data(msg *hsms.DataMessage) (*Handle, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, hsms.ErrNotConnected
	}
	if c.state != Selected {
		c.mu.Unlock()
		return nil, hsms.ErrNotSelected
	}

	if !msg.WaitBit() {
		c.mu.Unlock()
		if err := c.conn.Send(msg); err != nil {
			return nil, err
		}
		return completedHandle(nil, nil), nil
	}

	system := msg.ID().System
	if _, live := c.transactions[system]; live {
		c.mu.Unlock()
		return nil, hsms.ErrTransactionOpen
	}
	tx := c.openTransactionLocked(system, hsms.STypeDataMessage, c.settings.T3)
	c.mu.Unlock()

	if err := c.conn.Send(msg); err != nil {
		c.abortTransaction(system)
		return nil, err
	}
	return tx.handle, nil
}

// Respond sends the response to a primary data message received over the
// inbound data queue, echoing its exact system bytes.
func (c *Client) Respond(id hsms.MessageID, stream, function byte, text []byte) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return hsms.ErrNotConnected
	}
	if c.state != Selected {
		c.mu.Unlock()
		return hsms.ErrNotSelected
	}
	c.mu.Unlock()

	return c.conn.Send(hsms.NewDataMessage(id, stream, function, false, text))
}

// Reject sends a Reject.req referencing the message identified by id.
// offendingType is the presentation type of the rejected message when
// reason is hsms.RejectReasonPTypeUnsupported, and its session type
// otherwise.
func (c *Client) Reject(id hsms.MessageID, offendingType byte, reason hsms.RejectReason) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return hsms.ErrNotConnected
	}
	c.mu.Unlock()

	return c.sendReject(id, offendingType, offendingType, reason)
}

// pickSystemLocked resolves the system bytes of a new transaction: a fresh
// allocation for zero, the caller's value otherwise, checked for conflict
// with open transactions.
func (c *Client) pickSystemLocked(system uint32) (uint32, error) {
	if system == 0 {
		return c.allocSystemLocked(), nil
	}
	if _, live := c.transactions[system]; live {
		return 0, hsms.ErrTransactionOpen
	}
	return system, nil
}

// abortTransaction removes a transaction whose request could not be sent.
func (c *Client) abortTransaction(system uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tx, ok := c.transactions[system]; ok {
		c.closeTransactionLocked(system, tx)
	}
}

func (c *Client) sendReject(id hsms.MessageID, pType, sType byte, reason hsms.RejectReason) error {
	err := c.conn.Send(hsms.NewRejectReq(id.Session, pType, sType, id.System, reason))
	if err == nil {
		c.metrics.RejectSent()
		c.log.WithFields(logrus.Fields{
			"systemBytes": id.System,
			"reason":      reason.String(),
		}).Warn("sent reject.req")
	}
	return err
}

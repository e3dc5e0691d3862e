package generic

import (
	"github.com/sirupsen/logrus"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
)

// dispatch consumes the inbound message channel of the transport in arrival
// order. The channel closing means the connection was lost.
func (c *Client) dispatch(inbound <-chan hsms.Message) {
	for msg := range inbound {
		c.handleMessage(msg)
	}
	c.teardown("connection lost")
}

func (c *Client) handleMessage(msg hsms.Message) {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return
	}

	switch m := msg.(type) {
	case *hsms.UndefinedMessage:
		reason := hsms.RejectReasonSTypeUnsupported
		if m.PType() != hsms.PTypeSecsII {
			reason = hsms.RejectReasonPTypeUnsupported
		}
		c.sendReject(m.ID(), m.PType(), m.SType(), reason)

	case *hsms.DataMessage:
		c.handleData(m)

	case *hsms.ControlMessage:
		switch m.SType() {
		case hsms.STypeSelectReq:
			c.handleSelectReq(m)
		case hsms.STypeSelectRsp:
			c.handleSelectRsp(m)
		case hsms.STypeDeselectReq:
			c.handleDeselectReq(m)
		case hsms.STypeDeselectRsp:
			c.handleDeselectRsp(m)
		case hsms.STypeLinktestReq:
			c.conn.Send(hsms.NewLinktestRsp(m))
		case hsms.STypeLinktestRsp:
			c.handleLinktestRsp(m)
		case hsms.STypeSeparateReq:
			c.handleSeparateReq(m)
		case hsms.STypeRejectReq:
			c.handleRejectReq(m)
		}
	}
}

func (c *Client) handleSelectReq(m *hsms.ControlMessage) {
	c.mu.Lock()
	if c.state == Selected {
		c.mu.Unlock()
		c.conn.Send(hsms.NewSelectRsp(m, hsms.SelectStatusAlreadyActive))
		return
	}
	count := c.selectionCount
	c.mu.Unlock()

	status, ok := c.callbacks.OnSelect(m.ID().Session, count)
	if !ok {
		c.log.WithField("session", m.ID().Session).Warn("select.req violates profile")
		c.teardown("select.req violates profile")
		return
	}

	if err := c.conn.Send(hsms.NewSelectRsp(m, status)); err != nil {
		return
	}
	if status == hsms.SelectStatusOk {
		c.mu.Lock()
		c.enterSelectedLocked()
		c.mu.Unlock()
		c.log.Info("selected by peer")
	}
}

func (c *Client) handleSelectRsp(m *hsms.ControlMessage) {
	tx, ok := c.take(m.ID().System, hsms.STypeSelectRsp)
	if !ok {
		c.sendReject(m.ID(), 0, m.SType(), hsms.RejectReasonTransactionNotOpen)
		return
	}

	status := hsms.SelectStatus(m.Status())
	if status != hsms.SelectStatusOk {
		c.mu.Lock()
		if c.state == SelectInProgress {
			c.state = NotSelected
		}
		c.mu.Unlock()
		tx.handle.complete(nil, &hsms.ProcedureRejectedError{Reason: byte(status)})
		return
	}

	c.mu.Lock()
	c.enterSelectedLocked()
	c.mu.Unlock()
	c.log.Info("selected")
	tx.handle.complete(m, nil)
}

func (c *Client) handleDeselectReq(m *hsms.ControlMessage) {
	c.mu.Lock()
	count := c.selectionCount
	c.mu.Unlock()

	status, ok := c.callbacks.OnDeselect(m.ID().Session, count)
	if !ok {
		c.log.WithField("session", m.ID().Session).Warn("deselect.req violates profile")
		c.teardown("deselect.req violates profile")
		return
	}

	if err := c.conn.Send(hsms.NewDeselectRsp(m, status)); err != nil {
		return
	}
	if status == hsms.DeselectStatusOk {
		c.mu.Lock()
		c.leaveSelectedLocked()
		c.mu.Unlock()
		c.log.Info("deselected by peer")
	}
}

func (c *Client) handleDeselectRsp(m *hsms.ControlMessage) {
	tx, ok := c.take(m.ID().System, hsms.STypeDeselectRsp)
	if !ok {
		c.sendReject(m.ID(), 0, m.SType(), hsms.RejectReasonTransactionNotOpen)
		return
	}

	status := hsms.DeselectStatus(m.Status())
	if status != hsms.DeselectStatusOk {
		c.mu.Lock()
		if c.state == DeselectInProgress {
			c.state = Selected
		}
		c.mu.Unlock()
		tx.handle.complete(nil, &hsms.ProcedureRejectedError{Reason: byte(status)})
		return
	}

	c.mu.Lock()
	c.leaveSelectedLocked()
	c.mu.Unlock()
	c.log.Info("deselected")
	tx.handle.complete(m, nil)
}

func (c *Client) handleLinktestRsp(m *hsms.ControlMessage) {
	tx, ok := c.take(m.ID().System, hsms.STypeLinktestRsp)
	if !ok {
		c.sendReject(m.ID(), 0, m.SType(), hsms.RejectReasonTransactionNotOpen)
		return
	}
	tx.handle.complete(m, nil)
}

func (c *Client) handleSeparateReq(m *hsms.ControlMessage) {
	c.mu.Lock()
	count := c.selectionCount
	c.mu.Unlock()

	if !c.callbacks.OnSeparate(m.ID().Session, count) {
		c.teardown("separate.req")
		return
	}

	c.mu.Lock()
	c.leaveSelectedLocked()
	c.mu.Unlock()
	c.log.Info("separated by peer")
}

func (c *Client) handleRejectReq(m *hsms.ControlMessage) {
	tx, ok := c.takeAny(m.ID().System)
	if !ok {
		// Never reject a reject.
		c.log.WithField("systemBytes", m.ID().System).Warn("reject.req for unknown transaction")
		return
	}

	// A rejected select or deselect leaves the handshake state behind.
	c.mu.Lock()
	switch {
	case tx.expect == hsms.STypeSelectRsp && c.state == SelectInProgress:
		c.state = NotSelected
	case tx.expect == hsms.STypeDeselectRsp && c.state == DeselectInProgress:
		c.state = Selected
	}
	c.mu.Unlock()

	var err error
	if tx.expect == hsms.STypeDataMessage {
		err = &hsms.MessageRejectedError{
			OffendingType: m.OffendingType(),
			Reason:        hsms.RejectReason(m.Status()),
		}
	} else {
		err = &hsms.ProcedureRejectedError{Reason: m.Status()}
	}
	tx.handle.complete(nil, err)
}

func (c *Client) handleData(m *hsms.DataMessage) {
	c.mu.Lock()
	state := c.state
	inbox := c.inbox
	c.mu.Unlock()

	if state != Selected {
		c.sendReject(m.ID(), 0, m.SType(), hsms.RejectReasonEntityNotSelected)
		return
	}

	// Odd functions are primaries; the paired even function is the
	// response, correlated by system bytes. Function 0 aborts the open
	// transaction for the stream and travels the response path.
	if m.FunctionCode()%2 == 1 {
		c.log.WithFields(logrus.Fields{
			"message":     m.String(),
			"systemBytes": m.ID().System,
		}).Debug("data message delivered")
		inbox.push(m)
		return
	}

	tx, ok := c.take(m.ID().System, hsms.STypeDataMessage)
	if !ok {
		c.sendReject(m.ID(), 0, m.SType(), hsms.RejectReasonTransactionNotOpen)
		return
	}
	tx.handle.complete(m, nil)
}

package generic

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
	"github.com/jheon/lib-hsms-go/pkg/primitive"
	"github.com/jheon/lib-hsms-go/pkg/stats"
)

// Client implements the HSMS generic services on a single connection.
//
// Procedures that await a reply return asynchronously-completable handles;
// Separate, Respond and Reject return once the message is written. Caller misuse
// (not connected, not selected, conflicting transaction) is rejected
// synchronously instead.
type Client struct {
	settings  ParameterSettings
	callbacks ProcedureCallbacks
	conn      *primitive.Connection
	log       logrus.FieldLogger
	metrics   *stats.Metrics

	// mu guards the selection state and the transaction table.
	mu             sync.Mutex
	connected      bool
	state          SelectionState
	selectionCount uint
	transactions   map[uint32]*transaction
	nextSystem     uint32
	inbox          *Inbox
	selected       chan struct{}
	down           chan struct{}
	grp            *errgroup.Group
}

// transaction is a pending reply slot in the transaction table.
type transaction struct {
	expect byte // session type of the expected reply
	opened time.Time
	timer  *time.Timer
	handle *Handle
}

// New creates a client with the given settings and profile callbacks.
// The settings are validated against the value ranges of the standard.
func New(settings ParameterSettings, callbacks ProcedureCallbacks) (*Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.Logger == nil {
		settings.Logger = primitive.NopLogger()
	}

	return &Client{
		settings:  settings,
		callbacks: callbacks,
		conn: primitive.NewConnection(primitive.Config{
			Mode:             settings.ConnectMode,
			T5:               settings.T5,
			T8:               settings.T8,
			MaxMessageLength: settings.MaxMessageLength,
			Logger:           settings.Logger,
			Metrics:          settings.Metrics,
		}),
		log:     settings.Logger.WithField("layer", "generic"),
		metrics: settings.Metrics,
	}, nil
}

// Settings returns the settings the client was created with.
func (c *Client) Settings() ParameterSettings {
	return c.settings
}

// Connect forms the connection to the peer per the connect mode and starts
// the inbound dispatcher. It returns the peer's address and the reader over
// the inbound data queue.
func (c *Client) Connect(endpoint string) (net.Addr, *Inbox, error) {
	addr, inbound, err := c.conn.Connect(endpoint)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.connected = true
	c.state = NotSelected
	c.selectionCount = 0
	c.transactions = make(map[uint32]*transaction)
	c.nextSystem = 0
	c.inbox = newInbox()
	c.selected = make(chan struct{})
	c.down = make(chan struct{})
	inbox := c.inbox
	down := c.down
	grp := new(errgroup.Group)
	c.grp = grp
	c.mu.Unlock()

	grp.Go(func() error {
		c.dispatch(inbound)
		return nil
	})
	if c.settings.LinktestInterval > 0 {
		grp.Go(func() error {
			c.linktestLoop(down)
			return nil
		})
	}

	return addr, inbox, nil
}

// Disconnect tears the connection down and waits for the background
// goroutines to exit. Every pending handle completes with
// hsms.ErrDisconnected. Disconnect is idempotent.
func (c *Client) Disconnect() {
	c.teardown("local disconnect")

	c.mu.Lock()
	grp := c.grp
	c.mu.Unlock()
	if grp != nil {
		grp.Wait()
	}
}

// State returns the selection state of the connection.
func (c *Client) State() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectionCount returns how many times the connection has entered the
// SELECTED state since connect.
func (c *Client) SelectionCount() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectionCount
}

// Connected reports whether the connection is established.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// WaitSelected blocks until the connection enters the SELECTED state, the
// connection is lost, or the timeout elapses.
func (c *Client) WaitSelected(timeout time.Duration) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return hsms.ErrNotConnected
	}
	selected, down := c.selected, c.down
	c.mu.Unlock()

	select {
	case <-selected:
		return nil
	case <-down:
		return hsms.ErrDisconnected
	case <-time.After(timeout):
		return hsms.ErrTimedOut
	}
}

// NextSystemBytes allocates a fresh system bytes value from the
// per-connection counter, skipping values with an open transaction.
func (c *Client) NextSystemBytes() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocSystemLocked()
}

func (c *Client) allocSystemLocked() uint32 {
	for {
		c.nextSystem++
		if _, live := c.transactions[c.nextSystem]; !live {
			return c.nextSystem
		}
	}
}

// enterSelectedLocked transitions to SELECTED and wakes WaitSelected
// callers.
func (c *Client) enterSelectedLocked() {
	c.state = Selected
	c.selectionCount++
	select {
	case <-c.selected:
	default:
		close(c.selected)
	}
}

// leaveSelectedLocked transitions to NOT SELECTED after a deselect or
// separate, re-arming the selected notification for a later select.
func (c *Client) leaveSelectedLocked() {
	c.state = NotSelected
	c.selected = make(chan struct{})
}

// openTransaction registers a pending reply slot under system, arming its
// reply timer. The caller must hold mu.
func (c *Client) openTransactionLocked(system uint32, expect byte, timeout time.Duration) *transaction {
	tx := &transaction{
		expect: expect,
		opened: time.Now(),
		handle: newHandle(),
	}
	c.transactions[system] = tx
	tx.timer = time.AfterFunc(timeout, func() {
		c.expireTransaction(system)
	})
	c.metrics.TransactionOpened()
	return tx
}

// take removes and returns the transaction under system when it expects a
// reply of the given session type.
func (c *Client) take(system uint32, expect byte) (*transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, ok := c.transactions[system]
	if !ok || tx.expect != expect {
		return nil, false
	}
	c.closeTransactionLocked(system, tx)
	return tx, true
}

// takeAny removes and returns the transaction under system regardless of
// the expected reply type.
func (c *Client) takeAny(system uint32) (*transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, ok := c.transactions[system]
	if !ok {
		return nil, false
	}
	c.closeTransactionLocked(system, tx)
	return tx, true
}

func (c *Client) closeTransactionLocked(system uint32, tx *transaction) {
	delete(c.transactions, system)
	tx.timer.Stop()
	c.metrics.TransactionClosed(time.Since(tx.opened))
}

// expireTransaction completes the transaction under system with
// hsms.ErrTimedOut and tears the connection down. Fired by the reply timer.
func (c *Client) expireTransaction(system uint32) {
	tx, ok := c.takeAny(system)
	if !ok {
		return
	}

	c.metrics.TransactionTimeout()
	c.log.WithField("systemBytes", system).Warn("transaction timed out")
	tx.handle.complete(nil, hsms.ErrTimedOut)
	c.teardown("transaction timeout")
}

// teardown moves the client to the NOT CONNECTED state, completes every
// pending handle with hsms.ErrDisconnected, closes the inbound data queue,
// and closes the socket. It is idempotent.
func (c *Client) teardown(reason string) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		c.conn.Disconnect()
		return
	}
	c.connected = false
	c.state = NotSelected
	pending := c.transactions
	c.transactions = make(map[uint32]*transaction)
	inbox := c.inbox
	close(c.down)
	c.mu.Unlock()

	for _, tx := range pending {
		tx.timer.Stop()
		tx.handle.complete(nil, hsms.ErrDisconnected)
		c.metrics.TransactionClosed(time.Since(tx.opened))
	}
	if inbox != nil {
		inbox.close()
	}
	c.conn.Disconnect()
	c.log.WithField("reason", reason).Info("connection torn down")
}

// linktestLoop runs the periodic linktest while the connection is selected.
func (c *Client) linktestLoop(down <-chan struct{}) {
	ticker := time.NewTicker(c.settings.LinktestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-down:
			return
		case <-ticker.C:
			c.mu.Lock()
			selected := c.connected && c.state == Selected
			c.mu.Unlock()
			if !selected {
				continue
			}

			// A missing response expires the transaction and tears the
			// connection down; nothing to do with the handle here.
			if _, err := c.Linktest(0); err != nil {
				c.log.WithError(err).Debug("periodic linktest not sent")
			}
		}
	}
}

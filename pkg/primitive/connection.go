package primitive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
	"github.com/jheon/lib-hsms-go/pkg/stats"
)

// inboundBuffer is the capacity of the channel between the reader and the
// consumer of inbound messages.
const inboundBuffer = 16

// Connection is a HSMS connection over TCP.
//
// A Connection is either in the NOT CONNECTED or in the CONNECTED state. It
// moves to CONNECTED by a successful Connect, and back by Disconnect, by a
// failed send, or by the reader observing an error or a malformed frame.
//
// The reader signals connection loss upward exactly once, by closing the
// inbound message channel returned by Connect.
type Connection struct {
	mode      Mode
	t5        time.Duration
	t8        time.Duration
	maxLength uint32
	log       logrus.FieldLogger
	metrics   *stats.Metrics

	// mu serializes writes with each other and with the connection
	// lifecycle operations.
	mu   sync.Mutex
	conn net.Conn
}

// NewConnection creates a Connection in the NOT CONNECTED state.
func NewConnection(cfg Config) *Connection {
	cfg = cfg.withDefaults()
	return &Connection{
		mode:      cfg.Mode,
		t5:        cfg.T5,
		t8:        cfg.T8,
		maxLength: cfg.MaxMessageLength,
		log:       cfg.Logger.WithField("layer", "primitive"),
		metrics:   cfg.Metrics,
	}
}

// Connect forms the TCP connection to the peer and starts the reader.
//
// In active mode, the endpoint is dialed with T5 as the overall attempt
// budget; hsms.ErrTimedOut is returned when it elapses. In passive mode, the
// endpoint is bound and the call returns when the first peer connects.
// Socket failures are reported as hsms.ErrIo.
//
// On success, the peer's address and the inbound message channel are
// returned. The channel delivers decoded messages in arrival order and is
// closed when the connection is lost or torn down.
//
// Connect fails with hsms.ErrAlreadyConnected when already connected.
func (c *Connection) Connect(endpoint string) (net.Addr, <-chan hsms.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil, nil, hsms.ErrAlreadyConnected
	}

	var conn net.Conn
	switch c.mode {
	case ModeActive:
		dialer := net.Dialer{Timeout: c.t5}
		dialed, err := dialer.Dial("tcp", endpoint)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil, nil, hsms.ErrTimedOut
			}
			return nil, nil, fmt.Errorf("dial %s: %w", endpoint, errors.Join(hsms.ErrIo, err))
		}
		conn = dialed

	case ModePassive:
		listener, err := net.Listen("tcp", endpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("listen %s: %w", endpoint, errors.Join(hsms.ErrIo, err))
		}
		accepted, err := listener.Accept()
		listener.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("accept: %w", errors.Join(hsms.ErrIo, err))
		}
		conn = accepted

	default:
		return nil, nil, fmt.Errorf("hsms: invalid connection mode %d", c.mode)
	}

	c.conn = conn
	inbound := make(chan hsms.Message, inboundBuffer)
	go c.readLoop(conn, inbound)

	c.log.WithFields(logrus.Fields{
		"mode":   c.mode.String(),
		"remote": conn.RemoteAddr().String(),
	}).Info("connected")

	return conn.RemoteAddr(), inbound, nil
}

// Send writes the wire representation of msg to the connection.
//
// Sends are atomic with respect to each other; frames from concurrent
// callers do not interleave. A write that cannot complete within T8 is a
// protocol failure: the connection is torn down and hsms.ErrTimedOut is
// returned. Any other write error also tears the connection down and is
// reported as hsms.ErrIo.
func (c *Connection) Send(msg hsms.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return hsms.ErrNotConnected
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.t8))
	if _, err := c.conn.Write(msg.ToBytes()); err != nil {
		c.teardownLocked("write failed")

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return hsms.ErrTimedOut
		}
		return fmt.Errorf("write: %w", errors.Join(hsms.ErrIo, err))
	}

	c.metrics.FrameSent(msg.SType())
	c.log.WithFields(logrus.Fields{
		"sType":       msg.SType(),
		"systemBytes": fmt.Sprintf("0x%08X", msg.ID().System),
	}).Debug("frame sent")
	return nil
}

// Disconnect closes the connection. It is idempotent: disconnecting a
// connection in the NOT CONNECTED state does nothing.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked("disconnect")
}

// Connected reports whether the connection is in the CONNECTED state.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Connection) teardownLocked(reason string) {
	if c.conn == nil {
		return
	}
	c.conn.Close()
	c.conn = nil
	c.metrics.Teardown()
	c.log.WithField("reason", reason).Info("connection closed")
}

// readLoop reads frames from conn and delivers decoded messages to inbound
// in arrival order. On any read error or malformed frame, it tears down the
// connection and closes inbound.
func (c *Connection) readLoop(conn net.Conn, inbound chan<- hsms.Message) {
	defer close(inbound)

	lengthBytes := make([]byte, 4)
	for {
		// Block without a deadline until the first byte of the next frame;
		// T8 applies between the characters of a frame, not between frames.
		conn.SetReadDeadline(time.Time{})
		if _, err := conn.Read(lengthBytes[:1]); err != nil {
			c.readFailed("read length", err)
			return
		}
		if err := c.readFull(conn, lengthBytes[1:]); err != nil {
			c.readFailed("read length", err)
			return
		}

		length := binary.BigEndian.Uint32(lengthBytes)
		if length < 10 || length > c.maxLength {
			c.log.WithField("length", length).Warn("malformed frame length")
			c.mu.Lock()
			c.teardownLocked("malformed frame length")
			c.mu.Unlock()
			return
		}

		body := make([]byte, length)
		if err := c.readFull(conn, body); err != nil {
			c.readFailed("read body", err)
			return
		}

		msg, err := hsms.Decode(body)
		if err != nil {
			c.log.WithError(err).Warn("malformed frame")
			c.mu.Lock()
			c.teardownLocked("malformed frame")
			c.mu.Unlock()
			return
		}

		c.metrics.FrameReceived(msg.SType())
		inbound <- msg
	}
}

// readFull reads len(buf) bytes, allowing up to T8 between reads.
func (c *Connection) readFull(conn net.Conn, buf []byte) error {
	for read := 0; read < len(buf); {
		conn.SetReadDeadline(time.Now().Add(c.t8))
		n, err := conn.Read(buf[read:])
		read += n
		if err != nil && read < len(buf) {
			return err
		}
	}
	return nil
}

func (c *Connection) readFailed(op string, err error) {
	c.mu.Lock()
	local := c.conn == nil
	c.teardownLocked(op + " failed")
	c.mu.Unlock()

	// A read error after a local disconnect is the expected wakeup of the
	// reader, not a failure worth logging.
	if !local {
		c.log.WithError(err).Debug(op + " failed")
	}
}

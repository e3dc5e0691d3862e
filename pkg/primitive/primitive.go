// Package primitive contains the transport layer of the HSMS protocol: it
// owns the TCP socket, encodes outbound frames, decodes inbound frames, and
// enforces the T8 network timeout on each I/O operation within a frame
// transfer; the wait for the first byte of the next inbound frame is not
// bounded.
package primitive

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
	"github.com/jheon/lib-hsms-go/pkg/stats"
)

// Mode selects how the connection to the peer is formed.
type Mode int

const (
	// ModePassive binds a local address and waits for the peer to connect.
	ModePassive Mode = iota

	// ModeActive dials the peer's address.
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModePassive:
		return "passive"
	case ModeActive:
		return "active"
	default:
		return "unknown"
	}
}

// Defaults applied by NewConnection for zero-valued Config fields.
const (
	DefaultT5 = 10 * time.Second
	DefaultT8 = 5 * time.Second
)

// Config carries the transport-level settings of a Connection.
type Config struct {
	// Mode selects active (dial) or passive (listen and accept) connecting.
	Mode Mode

	// T5 bounds an active connect attempt. It has no effect in passive mode.
	T5 time.Duration

	// T8 bounds each network I/O operation once a frame transfer has begun.
	T8 time.Duration

	// MaxMessageLength bounds the length field of an inbound frame.
	// Defaults to hsms.DefaultMaxMessageLength.
	MaxMessageLength uint32

	// Logger receives transport-level log entries. Defaults to a logger
	// that discards everything.
	Logger logrus.FieldLogger

	// Metrics receives transport-level instrumentation. May be nil.
	Metrics *stats.Metrics
}

func (cfg Config) withDefaults() Config {
	if cfg.T5 == 0 {
		cfg.T5 = DefaultT5
	}
	if cfg.T8 == 0 {
		cfg.T8 = DefaultT8
	}
	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = hsms.DefaultMaxMessageLength
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}
	return cfg
}

// NopLogger returns a logger that discards everything.
func NopLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

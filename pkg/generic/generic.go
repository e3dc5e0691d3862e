// Package generic contains the protocol state machine of the HSMS generic
// services: the selection state, the transaction table with its reply
// timers, the outbound procedures, and the inbound dispatcher.
//
// The layer does not hardcode a selection policy; decisions on inbound
// Select, Deselect and Separate procedures are delegated to profile
// callbacks, which package single implements for HSMS-SS.
package generic

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
	"github.com/jheon/lib-hsms-go/pkg/primitive"
	"github.com/jheon/lib-hsms-go/pkg/stats"
)

// SelectionState is the state of the select handshake on a connection.
type SelectionState int

const (
	// NotSelected means that no select handshake has completed; data
	// messages are not allowed.
	NotSelected SelectionState = iota

	// SelectInProgress means that a locally initiated select handshake is
	// awaiting its response.
	SelectInProgress

	// Selected means that the select handshake has completed and data
	// messages may be exchanged.
	Selected

	// DeselectInProgress means that a locally initiated deselect handshake
	// is awaiting its response.
	DeselectInProgress
)

func (s SelectionState) String() string {
	switch s {
	case NotSelected:
		return "not selected"
	case SelectInProgress:
		return "select in progress"
	case Selected:
		return "selected"
	case DeselectInProgress:
		return "deselect in progress"
	default:
		return "unknown"
	}
}

// SelectCallback decides an inbound Select.req. Returning ok == false means
// that the request is a violation of the profile in use, to be treated as a
// communications failure: no response is sent and the connection is torn
// down.
type SelectCallback func(sessionID uint16, selectionCount uint) (status hsms.SelectStatus, ok bool)

// DeselectCallback decides an inbound Deselect.req; ok == false is treated
// as a communications failure, as with SelectCallback.
type DeselectCallback func(sessionID uint16, selectionCount uint) (status hsms.DeselectStatus, ok bool)

// SeparateCallback decides an inbound Separate.req. Returning true accepts
// the separation and drops the selection; returning false is treated as a
// communications failure and tears the connection down.
type SeparateCallback func(sessionID uint16, selectionCount uint) bool

// ProcedureCallbacks delegates inbound control procedure decisions to the
// profile in use.
type ProcedureCallbacks struct {
	OnSelect   SelectCallback
	OnDeselect DeselectCallback
	OnSeparate SeparateCallback
}

// ParameterSettings carries the configurable options of a client.
type ParameterSettings struct {
	// ConnectMode selects active (dial) or passive (listen and accept)
	// connecting.
	ConnectMode primitive.Mode

	// T3 is the reply timeout of a data transaction.
	T3 time.Duration `validate:"min=1s,max=120s"`

	// T5 bounds an active connect attempt.
	T5 time.Duration `validate:"min=1s,max=240s"`

	// T6 is the reply timeout of a control transaction.
	T6 time.Duration `validate:"min=1s,max=240s"`

	// T7 bounds the wait of a passive entity for the select handshake.
	T7 time.Duration `validate:"min=1s,max=240s"`

	// T8 bounds each network I/O operation within a frame transfer.
	T8 time.Duration `validate:"min=1s,max=120s"`

	// LinktestInterval is the cadence of the periodic linktest while
	// selected; zero disables it.
	LinktestInterval time.Duration `validate:"omitempty,min=1s"`

	// MaxMessageLength bounds the length field of an inbound frame.
	MaxMessageLength uint32 `validate:"gt=10"`

	// Logger receives log entries of all layers. Defaults to a logger that
	// discards everything.
	Logger logrus.FieldLogger `validate:"-"`

	// Metrics receives instrumentation of all layers. May be nil.
	Metrics *stats.Metrics `validate:"-"`
}

// DefaultParameterSettings returns the settings with the default timer
// values of the standard, in passive mode.
func DefaultParameterSettings() ParameterSettings {
	return ParameterSettings{
		ConnectMode:      primitive.ModePassive,
		T3:               45 * time.Second,
		T5:               10 * time.Second,
		T6:               5 * time.Second,
		T7:               10 * time.Second,
		T8:               5 * time.Second,
		MaxMessageLength: hsms.DefaultMaxMessageLength,
	}
}

// Validate checks the settings against the value ranges of the standard.
func (s ParameterSettings) Validate() error {
	return validator.New().Struct(s)
}

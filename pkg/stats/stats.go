// Package stats contains Prometheus instrumentation for the HSMS protocol
// layers.
//
// All methods are safe to call on a nil *Metrics, so the layers can be run
// without instrumentation.
package stats

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the protocol layers.
type Metrics struct {
	framesSent       *prometheus.CounterVec
	framesReceived   *prometheus.CounterVec
	rejectsSent      prometheus.Counter
	timeouts         prometheus.Counter
	teardowns        prometheus.Counter
	openTransactions prometheus.Gauge
	transactionTime  prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hsms",
			Name:      "frames_sent_total",
			Help:      "Frames written to the connection, by session type.",
		}, []string{"stype"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hsms",
			Name:      "frames_received_total",
			Help:      "Frames decoded from the connection, by session type.",
		}, []string{"stype"}),
		rejectsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hsms",
			Name:      "rejects_sent_total",
			Help:      "Reject.req messages sent.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hsms",
			Name:      "transaction_timeouts_total",
			Help:      "Transactions expired by their reply timer.",
		}),
		teardowns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hsms",
			Name:      "connection_teardowns_total",
			Help:      "Connection teardowns, local or remote.",
		}),
		openTransactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hsms",
			Name:      "open_transactions",
			Help:      "Transactions awaiting a reply.",
		}),
		transactionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hsms",
			Name:      "transaction_seconds",
			Help:      "Round-trip time of completed transactions.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}

	reg.MustRegister(
		m.framesSent, m.framesReceived, m.rejectsSent, m.timeouts,
		m.teardowns, m.openTransactions, m.transactionTime,
	)
	return m
}

// FrameSent records a frame written to the connection.
func (m *Metrics) FrameSent(sType byte) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(strconv.Itoa(int(sType))).Inc()
}

// FrameReceived records a frame decoded from the connection.
func (m *Metrics) FrameReceived(sType byte) {
	if m == nil {
		return
	}
	m.framesReceived.WithLabelValues(strconv.Itoa(int(sType))).Inc()
}

// RejectSent records a Reject.req sent to the peer.
func (m *Metrics) RejectSent() {
	if m == nil {
		return
	}
	m.rejectsSent.Inc()
}

// TransactionTimeout records a transaction expired by its reply timer.
func (m *Metrics) TransactionTimeout() {
	if m == nil {
		return
	}
	m.timeouts.Inc()
}

// Teardown records a connection teardown.
func (m *Metrics) Teardown() {
	if m == nil {
		return
	}
	m.teardowns.Inc()
}

// TransactionOpened records a transaction entering the transaction table.
func (m *Metrics) TransactionOpened() {
	if m == nil {
		return
	}
	m.openTransactions.Inc()
}

// TransactionClosed records a transaction leaving the transaction table
// after the given round-trip time.
func (m *Metrics) TransactionClosed(roundTrip time.Duration) {
	if m == nil {
		return
	}
	m.openTransactions.Dec()
	m.transactionTime.Observe(roundTrip.Seconds())
}

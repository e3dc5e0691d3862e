package stats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests the Prometheus instrumentation
//
// Testing Strategy:
//
// Register the collectors on a fresh registry, drive each recording method,
// and gather the registry; separately, call every method on a nil *Metrics.
//
// Partitions:
//
// - receiver: registered, nil
// - collector: counter, counter vec, gauge, histogram

func TestMetrics_RecordAndGather(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New(registry)

	metrics.FrameSent(0)
	metrics.FrameSent(0)
	metrics.FrameSent(1)
	metrics.FrameReceived(2)
	metrics.RejectSent()
	metrics.TransactionTimeout()
	metrics.Teardown()
	metrics.TransactionOpened()
	metrics.TransactionOpened()
	metrics.TransactionClosed(3 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.framesSent.WithLabelValues("0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.framesSent.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.framesReceived.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejectsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.timeouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.teardowns))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.openTransactions))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}

func TestMetrics_RegistersOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	// A second registration on the same registry is a collector conflict.
	assert.Panics(t, func() { New(registry) })
}

func TestMetrics_NilReceiverIsNoOp(t *testing.T) {
	var metrics *Metrics

	metrics.FrameSent(0)
	metrics.FrameReceived(0)
	metrics.RejectSent()
	metrics.TransactionTimeout()
	metrics.Teardown()
	metrics.TransactionOpened()
	metrics.TransactionClosed(time.Millisecond)
}

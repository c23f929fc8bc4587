package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	// None of these may panic on a nil handle.
	m.GateDecision("allowed", "")
	m.SessionRotated()
	m.FeedEventApplied()
	m.ChannelResynced()
	m.MarkReadRetried()
}

func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(Options{Registry: registry})

	m.GateDecision("redirect", "unauthenticated")
	m.GateDecision("redirect", "unauthenticated")
	m.GateDecision("allowed", "")
	m.SessionRotated()
	m.FeedEventApplied()
	m.ChannelResynced()
	m.MarkReadRetried()

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.gateDecisions.WithLabelValues("redirect", "unauthenticated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.gateDecisions.WithLabelValues("allowed", "none")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessionRotations))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.feedEvents))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

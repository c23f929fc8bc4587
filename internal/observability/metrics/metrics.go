// Package metrics exposes the gateway's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics is
// valid everywhere and records nothing, so wiring stays optional in tests.
type Metrics struct {
	gateDecisions    *prometheus.CounterVec
	sessionRotations prometheus.Counter
	feedEvents       prometheus.Counter
	channelResyncs   prometheus.Counter
	markReadRetries  prometheus.Counter
}

// Options configures metric registration.
type Options struct {
	Namespace string // default "stayseek"
	Registry  prometheus.Registerer
}

// New registers the gateway collectors and returns the handle.
func New(opts Options) *Metrics {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "stayseek"
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		gateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Route authorization decisions by outcome and reason",
		}, []string{"outcome", "reason"}),

		sessionRotations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "session_rotations_total",
			Help:      "Sessions re-keyed near expiry",
		}),

		feedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "feed_events_applied_total",
			Help:      "Feed events applied to notification caches",
		}),

		channelResyncs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "channel_resyncs_total",
			Help:      "Full snapshot resyncs after a dropped subscription",
		}),

		markReadRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "mark_read_retries_total",
			Help:      "Background retries of failed mark-read persistence",
		}),
	}
}

// GateDecision records one authorization decision.
func (m *Metrics) GateDecision(outcome, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.gateDecisions.WithLabelValues(outcome, reason).Inc()
}

// SessionRotated records one session rotation.
func (m *Metrics) SessionRotated() {
	if m == nil {
		return
	}
	m.sessionRotations.Inc()
}

// FeedEventApplied records one applied feed event.
func (m *Metrics) FeedEventApplied() {
	if m == nil {
		return
	}
	m.feedEvents.Inc()
}

// ChannelResynced records one channel resync.
func (m *Metrics) ChannelResynced() {
	if m == nil {
		return
	}
	m.channelResyncs.Inc()
}

// MarkReadRetried records one mark-read retry attempt.
func (m *Metrics) MarkReadRetried() {
	if m == nil {
		return
	}
	m.markReadRetries.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RelayMetrics tracks the signal relay drain loop.
type RelayMetrics struct {
	published prometheus.Counter
	failed    prometheus.Counter
	retried   prometheus.Counter
}

func NewRelayMetrics() *RelayMetrics {
	return &RelayMetrics{
		published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "signal_relay_published_total",
			Help: "Signal intents successfully published to the broker.",
		}),
		failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "signal_relay_failed_total",
			Help: "Signal intents abandoned after exhausting retries.",
		}),
		retried: promauto.NewCounter(prometheus.CounterOpts{
			Name: "signal_relay_retried_total",
			Help: "Publish attempts that failed and were left for retry.",
		}),
	}
}

func (m *RelayMetrics) Published() {
	if m == nil {
		return
	}
	m.published.Inc()
}

func (m *RelayMetrics) Failed() {
	if m == nil {
		return
	}
	m.failed.Inc()
}

func (m *RelayMetrics) Retried() {
	if m == nil {
		return
	}
	m.retried.Inc()
}

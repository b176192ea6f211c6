// Package metrics collects Prometheus metrics for an embedding run.
//
// The run is a batch job rather than a server, so metrics are kept in a
// private registry and written once to a node_exporter textfile when the run
// ends.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qaembed"

// Metrics holds the registry and the collectors of a run.
type Metrics struct {
	// Registry is the registry all collectors are registered with.
	Registry *prometheus.Registry

	requestsTotal *prometheus.CounterVec
	recordsTotal  *prometheus.CounterVec
	usedLength    prometheus.Histogram
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Embedding requests sent, by search phase and outcome.",
		}, []string{"phase", "outcome"}),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records processed, by status.",
		}, []string{"status"}),
		usedLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "used_length_chars",
			Help:      "Characters of input text embedded per record.",
			Buckets:   prometheus.ExponentialBuckets(200, 2, 7),
		}),
	}

	m.Registry.MustRegister(m.requestsTotal, m.recordsTotal, m.usedLength)
	return m
}

// RecordRequest counts one embedding request.
func (m *Metrics) RecordRequest(phase, outcome string) {
	m.requestsTotal.WithLabelValues(phase, outcome).Inc()
}

// RecordRecord counts one processed record. usedLength is observed for
// records that were embedded.
func (m *Metrics) RecordRecord(status string, usedLength int) {
	m.recordsTotal.WithLabelValues(status).Inc()
	if usedLength > 0 {
		m.usedLength.Observe(float64(usedLength))
	}
}

// WriteFile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

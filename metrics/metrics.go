// Package metrics exposes Prometheus collectors for conversions, uploads and
// ontology reloads. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teranos/standoff/errors"
)

const namespace = "standoff"

// Status label values
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Metrics holds the collectors
type Metrics struct {
	// Conversions
	conversionsTotal   *prometheus.CounterVec
	conversionDuration prometheus.Histogram
	recordsTotal       *prometheus.CounterVec
	skippedTotal       *prometheus.CounterVec
	deferredEntities   prometheus.Counter
	storeLookups       *prometheus.CounterVec

	// Uploads
	uploadsTotal   *prometheus.CounterVec
	uploadDuration prometheus.Histogram

	ontologyReloads *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors, which tests read with testutil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		conversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "conversions_total",
			Help:      "Conversions by outcome",
		}, []string{"status"}),
		conversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "duration_seconds",
			Help:      "Time to convert one document",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "records_total",
			Help:      "Annotation records emitted, by kind",
		}, []string{"kind"}),
		skippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "skipped_records_total",
			Help:      "Annotation lines skipped, by reason",
		}, []string{"reason"}),
		deferredEntities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "deferred_entities_total",
			Help:      "Global entity description blocks emitted",
		}),
		storeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normdb",
			Name:      "lookups_total",
			Help:      "Normalization store calls, by call and outcome",
		}, []string{"call", "status"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "triplestore",
			Name:      "uploads_total",
			Help:      "Graph uploads by outcome",
		}, []string{"status"}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "triplestore",
			Name:      "upload_duration_seconds",
			Help:      "Time to upload one graph",
			Buckets:   prometheus.DefBuckets,
		}),
		ontologyReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ontology",
			Name:      "reloads_total",
			Help:      "Ontology reloads by outcome",
		}, []string{"status"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register metrics")
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.conversionsTotal,
		m.conversionDuration,
		m.recordsTotal,
		m.skippedTotal,
		m.deferredEntities,
		m.storeLookups,
		m.uploadsTotal,
		m.uploadDuration,
		m.ontologyReloads,
	}
}

// ConversionFinished records one conversion's outcome and duration
func (m *Metrics) ConversionFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.conversionsTotal.WithLabelValues(status).Inc()
	m.conversionDuration.Observe(d.Seconds())
}

// RecordEmitted counts one converted record of kind
func (m *Metrics) RecordEmitted(kind string) {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(kind).Inc()
}

// RecordSkipped counts one skipped line
func (m *Metrics) RecordSkipped(reason string) {
	if m == nil {
		return
	}
	m.skippedTotal.WithLabelValues(reason).Inc()
}

// EntitiesDeferred counts description blocks flushed at the end of a conversion
func (m *Metrics) EntitiesDeferred(n int) {
	if m == nil {
		return
	}
	m.deferredEntities.Add(float64(n))
}

// StoreLookup counts one normalization store call
func (m *Metrics) StoreLookup(call string, err error) {
	if m == nil {
		return
	}
	m.storeLookups.WithLabelValues(call, statusOf(err)).Inc()
}

// UploadFinished records one graph upload
func (m *Metrics) UploadFinished(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(statusOf(err)).Inc()
	m.uploadDuration.Observe(d.Seconds())
}

// OntologyReloaded counts one reload attempt
func (m *Metrics) OntologyReloaded(err error) {
	if m == nil {
		return
	}
	m.ontologyReloads.WithLabelValues(statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusOK
}

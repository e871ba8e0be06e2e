package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TelemetryMetrics records ingestion volume and request workflow outcomes.
type TelemetryMetrics struct {
	ingestDuration *prometheus.HistogramVec
	ingested       *prometheus.CounterVec
	ingestFailures *prometheus.CounterVec
	resolved       *prometheus.CounterVec
}

// NewTelemetryMetrics registers the telemetry metrics on the provided registerer.
func NewTelemetryMetrics(reg prometheus.Registerer) *TelemetryMetrics {
	if reg == nil {
		return &TelemetryMetrics{}
	}
	ingestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reading_ingest_duration_seconds",
		Help:    "Duration of reading ingestion in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ingested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "readings_ingested_total",
		Help: "Readings accepted per enclosure.",
	}, []string{"enclosure"})
	ingestFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reading_ingest_failures_total",
		Help: "Readings rejected, by error code.",
	}, []string{"code"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "requests_resolved_total",
		Help: "Workflow requests resolved, by final status.",
	}, []string{"status"})
	reg.MustRegister(ingestDuration, ingested, ingestFailures, resolved)
	return &TelemetryMetrics{
		ingestDuration: ingestDuration,
		ingested:       ingested,
		ingestFailures: ingestFailures,
		resolved:       resolved,
	}
}

// ObserveIngest records the duration of one ingestion attempt.
func (m *TelemetryMetrics) ObserveIngest(outcome string, duration time.Duration) {
	if m == nil || m.ingestDuration == nil {
		return
	}
	m.ingestDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncIngested increments the accepted-readings counter for an enclosure.
func (m *TelemetryMetrics) IncIngested(enclosureID string) {
	if m == nil || m.ingested == nil {
		return
	}
	m.ingested.WithLabelValues(normalizeLabel(enclosureID)).Inc()
}

// IncIngestFailure increments the rejected-readings counter for an error code.
func (m *TelemetryMetrics) IncIngestFailure(code string) {
	if m == nil || m.ingestFailures == nil {
		return
	}
	m.ingestFailures.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncResolved increments the resolved-requests counter for a final status.
func (m *TelemetryMetrics) IncResolved(status string) {
	if m == nil || m.resolved == nil {
		return
	}
	m.resolved.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

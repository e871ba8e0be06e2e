package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestTelemetryMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTelemetryMetrics(reg)

	m.ObserveIngest("ok", 30*time.Millisecond)
	m.IncIngested("tanque-1")
	m.IncIngestFailure("NOT_FOUND")
	m.IncResolved("aprovado")
	m.IncResolved("aprovado")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "readings_ingested_total", "enclosure", "tanque-1"); err != nil {
		t.Fatalf("fetch ingested: %v", err)
	} else if got != 1 {
		t.Fatalf("expected ingested=1, got %f", got)
	}

	if got, err := counterValue(mfs, "reading_ingest_failures_total", "code", "NOT_FOUND"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := counterValue(mfs, "requests_resolved_total", "status", "aprovado"); err != nil {
		t.Fatalf("fetch resolved: %v", err)
	} else if got != 2 {
		t.Fatalf("expected resolved=2, got %f", got)
	}

	if got, err := histogramSum(mfs, "reading_ingest_duration_seconds", "outcome", "ok"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestTelemetryMetricsNilSafe(t *testing.T) {
	var m *TelemetryMetrics
	m.IncIngested("x")
	m.IncIngestFailure("y")
	m.IncResolved("z")
	m.ObserveIngest("ok", time.Second)

	empty := NewTelemetryMetrics(nil)
	empty.IncIngested("x")
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if labelValue(metric, label) == value {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("label %s=%q not found on %q", label, value, name)
}

func histogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if labelValue(metric, label) == value {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("label %s=%q not found on %q", label, value, name)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

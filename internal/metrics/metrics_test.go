package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.FilesTotal.WithLabelValues("ok").Inc()
	m.FailuresTotal.WithLabelValues("EmptyFile").Add(2)
	m.RecordsTotal.Add(10)

	if got := testutil.ToFloat64(m.FilesTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("Expected 1 ok file, got %v", got)
	}
	if got := testutil.ToFloat64(m.FailuresTotal.WithLabelValues("EmptyFile")); got != 2 {
		t.Errorf("Expected 2 EmptyFile failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsTotal); got != 10 {
		t.Errorf("Expected 10 records, got %v", got)
	}

	n, err := testutil.GatherAndCount(reg, "postmarket_files_total", "postmarket_records_total")
	if err != nil {
		t.Fatalf("Expected no gather error, got %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 series, got %d", n)
	}
}

func TestNewMetricsNilRegisterer(t *testing.T) {
	m := NewMetrics(nil)
	m.SkippedLinesTotal.Inc()
	if got := testutil.ToFloat64(m.SkippedLinesTotal); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
}

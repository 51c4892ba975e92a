package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the batch driver.
type Metrics struct {
	FilesTotal           *prometheus.CounterVec // labels: status=ok|failed
	FailuresTotal        *prometheus.CounterVec // labels: kind
	RecordsTotal         prometheus.Counter
	ExcludedRecordsTotal prometheus.Counter
	SkippedLinesTotal    prometheus.Counter
	FileDuration         prometheus.Histogram
	BatchDuration        prometheus.Histogram
	NetAlpha             *prometheus.GaugeVec // labels: dealer_id
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postmarket_files_total",
			Help: "Dealer files processed, by outcome",
		}, []string{"status"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postmarket_file_failures_total",
			Help: "Dealer files that failed, by error kind",
		}, []string{"kind"}),
		RecordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postmarket_records_total",
			Help: "Trade records that reached the aggregator",
		}),
		ExcludedRecordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postmarket_excluded_records_total",
			Help: "Trade records dropped by the parity-asked sentinel",
		}),
		SkippedLinesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postmarket_skipped_lines_total",
			Help: "Lines without a field separator",
		}),
		FileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "postmarket_file_duration_seconds",
			Help:    "Per-file pipeline latency",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "postmarket_batch_duration_seconds",
			Help:    "Whole-batch latency",
			Buckets: prometheus.DefBuckets,
		}),
		NetAlpha: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "postmarket_dealer_net_alpha",
			Help: "Net alpha of the last summary per dealer",
		}, []string{"dealer_id"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FilesTotal,
			m.FailuresTotal,
			m.RecordsTotal,
			m.ExcludedRecordsTotal,
			m.SkippedLinesTotal,
			m.FileDuration,
			m.BatchDuration,
			m.NetAlpha,
		)
	}
	return m
}

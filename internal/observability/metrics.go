package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for one ETL run.
// The process is one-shot, so the values end up in the run summary rather
// than on a scrape endpoint.
type Metrics struct {
	PagesFetched    prometheus.Counter
	RecordsFetched  prometheus.Counter
	FetchErrors     prometheus.Counter
	FeaturesEmitted prometheus.Counter
	SkippedRecords  prometheus.Counter
	SwedishAddrs    prometheus.Counter

	PageFetchDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelter_etl",
			Name:      "pages_fetched_total",
			Help:      "Total pages successfully fetched from the feature service.",
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelter_etl",
			Name:      "records_fetched_total",
			Help:      "Total raw shelter records accumulated across pages.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelter_etl",
			Name:      "fetch_errors_total",
			Help:      "Transport, parse, or service-reported errors during fetching.",
		}),
		FeaturesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelter_etl",
			Name:      "features_emitted_total",
			Help:      "Normalized features placed in the output collection.",
		}),
		SkippedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelter_etl",
			Name:      "skipped_records_total",
			Help:      "Raw records skipped because geometry was missing.",
		}),
		SwedishAddrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelter_etl",
			Name:      "swedish_addresses_total",
			Help:      "Emitted addresses containing å, ä, or ö.",
		}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shelter_etl",
			Name:      "page_fetch_duration_seconds",
			Help:      "Duration of a single feature-service page request.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	prometheus.MustRegister(
		m.PagesFetched,
		m.RecordsFetched,
		m.FetchErrors,
		m.FeaturesEmitted,
		m.SkippedRecords,
		m.SwedishAddrs,
		m.PageFetchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PagesFetched:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shelter_etl", Name: "pages_fetched_total"}),
		RecordsFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shelter_etl", Name: "records_fetched_total"}),
		FetchErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shelter_etl", Name: "fetch_errors_total"}),
		FeaturesEmitted:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shelter_etl", Name: "features_emitted_total"}),
		SkippedRecords:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shelter_etl", Name: "skipped_records_total"}),
		SwedishAddrs:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shelter_etl", Name: "swedish_addresses_total"}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "shelter_etl", Name: "page_fetch_duration_seconds"}),
	}
}

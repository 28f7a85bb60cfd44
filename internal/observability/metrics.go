package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bewara"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Weather ingestion metrics.
	SyncTotal    *prometheus.CounterVec // labels: outcome={success,error,busy}
	SyncDuration prometheus.Histogram

	// Risk engine metrics.
	Assessments      *prometheus.CounterVec // labels: level={awaiting,low,medium,high}
	ValidationErrors prometheus.Counter

	// Publishing metrics.
	AssessmentsPublished *prometheus.CounterVec // labels: outcome={success,error}

	CatalogFeatures *prometheus.GaugeVec // labels: kind={zone,point,boundary}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SyncTotal,
		m.SyncDuration,
		m.Assessments,
		m.ValidationErrors,
		m.AssessmentsPublished,
		m.CatalogFeatures,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_sync_total",
			Help:      "Weather sync attempts by outcome.",
		}, []string{"outcome"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_sync_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Risk assessments computed, by verdict level.",
		}, []string{"level"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Risk inputs rejected by validation.",
		}),
		AssessmentsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_published_total",
			Help:      "Assessment events written to Kafka, by outcome.",
		}, []string{"outcome"}),
		CatalogFeatures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_features",
			Help:      "Number of catalog entries loaded, by kind.",
		}, []string{"kind"}),
	}
}

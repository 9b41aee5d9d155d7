// Package observability provides Prometheus metrics and the service
// logger.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms and gauges for the
// map service.
type Metrics struct {
	ZoneFetches       *prometheus.CounterVec // labels: outcome={success,error}
	ZoneFetchDuration prometheus.Histogram
	ZoneFeatures      prometheus.Gauge

	LayerCache *prometheus.CounterVec // labels: result={hit,miss}

	ComposeDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ZoneFetches,
		m.ZoneFetchDuration,
		m.ZoneFeatures,
		m.LayerCache,
		m.ComposeDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to
// avoid "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ZoneFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secheresse",
			Name:      "zone_fetches_total",
			Help:      "Zone layer fetches by outcome.",
		}, []string{"outcome"}),
		ZoneFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "secheresse",
			Name:      "zone_fetch_duration_seconds",
			Help:      "Duration of zone layer fetches.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ZoneFeatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "secheresse",
			Name:      "zone_features",
			Help:      "Surface-water zone features in the last successful fetch.",
		}),
		LayerCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secheresse",
			Name:      "layer_cache_total",
			Help:      "Itinerary layer lookups by cache result.",
		}, []string{"result"}),
		ComposeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "secheresse",
			Name:      "compose_duration_seconds",
			Help:      "Duration of a complete fetch-reproject-compose cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

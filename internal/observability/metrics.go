package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ERA5
// cache and download layer.
type Metrics struct {
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	DownloadFailures  prometheus.Counter
	DownloadDuration  prometheus.Histogram
	ExtractionErrors  *prometheus.CounterVec // labels: kind={scalar_wind,skewt,vert_cross}
	SectionsExtracted *prometheus.CounterVec // labels: kind={scalar_wind,skewt,vert_cross}
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5vis",
			Name:      "cache_hits_total",
			Help:      "Resolutions satisfied by an existing cached file.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5vis",
			Name:      "cache_misses_total",
			Help:      "Resolutions that had to invoke the downloader.",
		}),
		DownloadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5vis",
			Name:      "download_failures_total",
			Help:      "Downloads that returned without producing the target file.",
		}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "era5vis",
			Name:      "download_duration_seconds",
			Help:      "Wall-clock duration of CDS downloads.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		ExtractionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "era5vis",
			Name:      "extraction_errors_total",
			Help:      "Failed cross-section or profile extractions by kind.",
		}, []string{"kind"}),
		SectionsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "era5vis",
			Name:      "sections_extracted_total",
			Help:      "Successful cross-section or profile extractions by kind.",
		}, []string{"kind"}),
	}
}

// NewMetrics creates and registers all metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.DownloadFailures,
		m.DownloadDuration,
		m.ExtractionErrors,
		m.SectionsExtracted,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// tests can construct them repeatedly without "already registered"
// panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch-aggregate-render pipeline.
type Metrics struct {
	EventsFetched  *prometheus.CounterVec // labels: catalog
	FetchRequests  *prometheus.CounterVec // labels: catalog, outcome={success,network_error,parse_error}
	ChartsRendered *prometheus.CounterVec // labels: chart, outcome={success,error}
	EventsDropped  *prometheus.CounterVec // labels: catalog (outside the requested range)

	FetchDuration  *prometheus.HistogramVec // labels: catalog
	RenderDuration prometheus.Histogram
	RunDuration    prometheus.Histogram

	RefreshRunning prometheus.Gauge
	LastRunSuccess prometheus.Gauge // unix timestamp of the last complete run

	// Response cache metrics (daemon mode).
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsFetched,
		m.FetchRequests,
		m.ChartsRendered,
		m.EventsDropped,
		m.FetchDuration,
		m.RenderDuration,
		m.RunDuration,
		m.RefreshRunning,
		m.LastRunSuccess,
		m.CacheLookups,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swp",
			Name:      "events_fetched_total",
			Help:      "Total events fetched from the DONKI API by catalog.",
		}, []string{"catalog"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swp",
			Name:      "fetch_requests_total",
			Help:      "DONKI API requests by catalog and outcome.",
		}, []string{"catalog", "outcome"}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swp",
			Name:      "charts_rendered_total",
			Help:      "Chart artifacts rendered by name and outcome.",
		}, []string{"chart", "outcome"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swp",
			Name:      "events_dropped_total",
			Help:      "Events discarded for falling outside the requested date range.",
		}, []string{"catalog"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swp",
			Name:      "fetch_duration_seconds",
			Help:      "DONKI API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"catalog"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swp",
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering a single chart artifact.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swp",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-aggregate-render run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swp",
			Name:      "refresh_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swp",
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix timestamp of the last complete pipeline run.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swp",
			Name:      "response_cache_total",
			Help:      "DONKI response cache lookups by result.",
		}, []string{"result"}),
	}
}

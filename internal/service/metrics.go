package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors for the coordination engine.
// Collectors are usable without registration, so tests exercise them freely;
// RegisterMetrics hooks them into the default registry at startup.
var Metrics = struct {
	RefreshCycles      *prometheus.CounterVec
	RefreshDuration    prometheus.Histogram
	EnrichOutcomes     *prometheus.CounterVec
	Broadcasts         prometheus.Counter
	ActiveCoordinators prometheus.Gauge
	ActiveSubscribers  prometheus.Gauge
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
}{
	RefreshCycles: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytanalytics_refresh_cycles_total",
			Help: "Refresh cycles run, by outcome.",
		},
		[]string{"outcome"},
	),
	RefreshDuration: prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytanalytics_refresh_duration_seconds",
			Help:    "Duration of full refresh cycles (search, fan-out, fan-in).",
			Buckets: prometheus.DefBuckets,
		},
	),
	EnrichOutcomes: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytanalytics_enrichment_items_total",
			Help: "Item enrichment steps, by terminal status.",
		},
		[]string{"status"},
	),
	Broadcasts: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalytics_broadcasts_total",
			Help: "Aggregate results delivered to subscribers.",
		},
	),
	ActiveCoordinators: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytanalytics_active_coordinators",
			Help: "Query coordinators currently alive.",
		},
	),
	ActiveSubscribers: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytanalytics_active_subscribers",
			Help: "Subscribers currently registered across all queries.",
		},
	),
	CacheHits: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalytics_detail_cache_hits_total",
			Help: "Video detail lookups served from Redis.",
		},
	),
	CacheMisses: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalytics_detail_cache_misses_total",
			Help: "Video detail lookups that went to the upstream API.",
		},
	),
}

// RegisterMetrics registers all coordination metrics. Call once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(
		Metrics.RefreshCycles,
		Metrics.RefreshDuration,
		Metrics.EnrichOutcomes,
		Metrics.Broadcasts,
		Metrics.ActiveCoordinators,
		Metrics.ActiveSubscribers,
		Metrics.CacheHits,
		Metrics.CacheMisses,
	)
}

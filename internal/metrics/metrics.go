package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are created eagerly so packages can record into them whether
// or not Register was called (the CLI never registers).
var (
	ChannelsAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standout_channels_analyzed_total",
			Help: "Channels analyzed, by outcome (ok, error).",
		},
		[]string{"outcome"},
	)

	ChannelDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "standout_channel_analysis_duration_seconds",
			Help:    "Duration of a single channel analysis, fetch included.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standout_jobs_total",
			Help: "Analysis jobs that reached a terminal status, by status.",
		},
		[]string{"status"},
	)

	JobsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "standout_jobs_in_flight",
			Help: "Analysis jobs currently processing.",
		},
	)

	ExportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "standout_export_duration_seconds",
			Help:    "Duration of report exports, by target.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "standout_cache_hits_total",
			Help: "Total Redis fetch-cache hits.",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "standout_cache_misses_total",
			Help: "Total Redis fetch-cache misses.",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "standout_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "standout_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
)

// Register adds all collectors to reg. Call once at startup. pool may be
// nil when the Postgres export target is disabled.
func Register(reg prometheus.Registerer, pool *pgxpool.Pool) {
	reg.MustRegister(
		ChannelsAnalyzed,
		ChannelDuration,
		JobsTotal,
		JobsInFlight,
		ExportDuration,
		CacheHits,
		CacheMisses,
		RequestDuration,
		RequestsInFlight,
	)

	// DB pool gauges read live stats from pgxpool
	if pool != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "standout_db_connection_pool_active",
					Help: "Number of active database connections.",
				},
				func() float64 {
					return float64(pool.Stat().AcquiredConns())
				},
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "standout_db_connection_pool_idle",
					Help: "Number of idle database connections.",
				},
				func() float64 {
					return float64(pool.Stat().IdleConns())
				},
			),
		)
	}
}

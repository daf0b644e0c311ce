package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ScanLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketscan",
			Subsystem: "scan",
			Name:      "latency_seconds",
			Help:      "Latency of scan pipeline runs",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	CacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketscan",
			Subsystem: "scan",
			Name:      "cache_results_total",
			Help:      "Cache lookups by resulting state",
		},
		[]string{"state"},
	)

	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketscan",
			Subsystem: "scan",
			Name:      "upstream_errors_total",
			Help:      "Upstream fetch failures by kind",
		},
		[]string{"kind"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketscan",
			Subsystem: "scan",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
	)

	SnapshotErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketscan",
			Subsystem: "scan",
			Name:      "snapshot_errors_total",
			Help:      "Failed snapshot persistence attempts",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ScanLatency, CacheResults, UpstreamErrors, RateLimited, SnapshotErrors)
	})
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holder_snapshot_lookup_requests_total",
			Help: "Total number of requests to the indexing service",
		},
		[]string{"operation", "status"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "holder_snapshot_lookup_duration_seconds",
			Help:    "Duration of requests to the indexing service",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~41s
		},
		[]string{"operation"},
	)

	LookupRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holder_snapshot_lookup_retries_total",
			Help: "Total number of retried requests to the indexing service",
		},
		[]string{"operation"},
	)

	SnapshotRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holder_snapshot_runs_total",
			Help: "Total number of snapshot runs",
		},
		[]string{"status"},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "holder_snapshot_run_duration_seconds",
			Help:    "Duration of snapshot runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~2.3h
		},
	)

	SnapshotPayoutHolders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "holder_snapshot_payout_holders",
			Help: "Number of holders receiving a payout in the last snapshot",
		},
	)
)

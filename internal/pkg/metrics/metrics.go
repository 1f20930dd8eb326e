package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts moderation lookups by kind and how they were resolved.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_requests_total",
			Help: "Moderation requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// ClassifierCalls counts upstream classifier calls by kind and result.
	ClassifierCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_classifier_calls_total",
			Help: "Upstream classifier calls by kind and result",
		},
		[]string{"kind", "result"},
	)

	// ClassifierDuration tracks upstream classifier latency.
	ClassifierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_classifier_duration_seconds",
			Help:    "Time spent waiting on the upstream classifier",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// CacheOps counts verdict cache operations by op (get, set) and result.
	CacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_cache_ops_total",
			Help: "Verdict cache operations by op and result",
		},
		[]string{"op", "result"},
	)
)

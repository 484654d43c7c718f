package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvoiceMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_mutations_total",
			Help:      "Total number of invoice mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ViewCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_lookups_total",
			Help:      "Total number of view cache lookups by result",
		},
		[]string{"result"},
	)

	ViewCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_invalidations_total",
			Help:      "Total number of view cache invalidations by path",
		},
		[]string{"path"},
	)

	ViewCacheStaleWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_stale_writes_total",
			Help:      "Total number of view renders discarded because the path was invalidated meanwhile",
		},
	)

	ViewCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "view_cache_entries",
			Help:      "Number of live view cache entries",
		},
	)
)

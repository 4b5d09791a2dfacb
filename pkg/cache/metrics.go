package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apiclient_cache_hits_total",
			Help: "Total number of fresh cache hits",
		},
	)

	// CacheMisses tracks cache misses, expired entries included.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apiclient_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheEvictions tracks LRU evictions at capacity.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apiclient_cache_evictions_total",
			Help: "Total number of entries evicted by the LRU policy",
		},
	)

	// CacheEntries tracks the current number of stored entries.
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apiclient_cache_entries",
			Help: "Current number of entries in the cache",
		},
	)

	// CacheInvalidations tracks explicit removals by operation.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiclient_cache_invalidations_total",
			Help: "Total number of entries removed by explicit invalidation",
		},
		[]string{"operation"}, // "delete", "clear", "match"
	)
)

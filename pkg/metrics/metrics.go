// Package metrics provides the central Prometheus registry reference
// for the API client. All metrics are defined in their respective
// packages (client, cache) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the API client.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - apiclient_cache_hits_total (Counter): Fresh cache hits
//   - apiclient_cache_misses_total (Counter): Cache misses, expired entries included
//   - apiclient_cache_evictions_total (Counter): Entries evicted by the LRU policy
//   - apiclient_cache_entries (Gauge): Current number of stored entries
//   - apiclient_cache_invalidations_total{operation} (Counter): Explicit removals
//     by operation ("delete", "clear", "match")
//
// Request Metrics (pkg/client):
//   - apiclient_requests_total{endpoint, status} (Counter): Requests by endpoint
//     and outcome (HTTP status, "cache_hit", "error")
//   - apiclient_request_duration_seconds{label} (Histogram): Request duration
//     by measurement label
//
// Retry Metrics (pkg/client):
//   - apiclient_retries_total (Counter): Retry attempts
//   - apiclient_retry_backoff_seconds (Histogram): Backoff before retries
//   - apiclient_retry_exhausted_total (Counter): Requests that spent every attempt
//
// Resilience Metrics (pkg/client):
//   - apiclient_dedup_shared_total (Counter): Callers served by an in-flight request
//   - apiclient_stale_serves_total (Counter): Expired entries served while revalidating
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(apiclient_cache_hits_total[5m]) /
//   (rate(apiclient_cache_hits_total[5m]) + rate(apiclient_cache_misses_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(apiclient_request_duration_seconds_bucket[5m]))
//
//   # Retry Pressure
//   rate(apiclient_retries_total[5m])
//
//   # Requests Saved by Deduplication
//   rate(apiclient_dedup_shared_total[5m])

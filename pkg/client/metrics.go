package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for request, retry, and deduplication behavior.
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiclient_requests_total",
		Help: "Total API requests by endpoint and outcome",
	}, []string{"endpoint", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apiclient_request_duration_seconds",
		Help:    "Request duration in seconds by measurement label",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"label"})

	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apiclient_retries_total",
		Help: "Total number of retry attempts",
	})

	RetryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "apiclient_retry_backoff_seconds",
		Help:    "Backoff duration before retries",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	RetryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apiclient_retry_exhausted_total",
		Help: "Total number of requests that exhausted their retry attempts",
	})

	DedupSharedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apiclient_dedup_shared_total",
		Help: "Total number of callers served by an already in-flight request",
	})

	StaleServesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apiclient_stale_serves_total",
		Help: "Total number of expired cache entries served while revalidating",
	})
)

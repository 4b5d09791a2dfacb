// Package client provides the resilient request layer in front of the
// REST API: an LRU cache with TTL expiry and stale-while-revalidate
// serving, in-flight request deduplication, and retry with exponential
// backoff, composed around a pluggable transport.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/senthilnathang/fastnext-api-client/pkg/batch"
	"github.com/senthilnathang/fastnext-api-client/pkg/cache"
)

// revalidateTimeout bounds a detached background refresh.
const revalidateTimeout = 30 * time.Second

// Client is the request orchestrator. It owns its cache store and
// in-flight registry; construct one per process (or per upstream) and
// share it.
type Client struct {
	transport Transport
	store     *cache.Store
	pending   *pendingRegistry
	batch     *batch.Runner
	config    Config
	observer  Observer
	logger    zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Transport executes requests against the upstream API.
	Transport Transport

	// Caching
	CacheTTL             time.Duration // default freshness window
	CacheMaxSize         int           // LRU capacity
	StaleWhileRevalidate bool          // serve expired entries while refreshing

	// Retry
	RetryAttempts    int           // total tries per request, first included
	RetryDelay       time.Duration // wait before the second attempt
	RetryExponential bool          // double the delay per further attempt

	// Deduplication coalesces concurrent identical GETs into one
	// upstream call.
	Deduplication bool

	// Batch controls the Batch fan-out worker pool.
	Batch batch.Config

	// Observer receives request timing measurements. Nil defaults to
	// the Prometheus histogram.
	Observer Observer

	// Clock drives cache expiry. Nil defaults to the cached system
	// clock; tests inject a manual one.
	Clock cache.Clock
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(transport Transport) Config {
	return Config{
		Transport:        transport,
		CacheTTL:         5 * time.Minute,
		CacheMaxSize:     cache.DefaultMaxSize,
		RetryAttempts:    3,
		RetryDelay:       1 * time.Second,
		RetryExponential: true,
		Deduplication:    true,
		Batch:            batch.DefaultConfig(),
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}

	observer := cfg.Observer
	if observer == nil {
		observer = PrometheusObserver{}
	}

	logger := log.With().Str("component", "api-client").Logger()

	return &Client{
		transport: cfg.Transport,
		store:     cache.NewStoreWithClock(cfg.CacheMaxSize, cfg.Clock),
		pending:   newPendingRegistry(),
		batch:     batch.NewRunner(cfg.Batch),
		config:    cfg,
		observer:  observer,
		logger:    logger,
	}, nil
}

// Get performs a GET request. A fresh cache hit returns immediately and
// short-circuits deduplication and retry. On a miss with an expired
// entry still present and stale-while-revalidate enabled, the stale
// entry is returned and a detached refresh repopulates the cache.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, cfg *RequestConfig) (*Response, error) {
	rc := normalizeConfig(cfg)
	pol := c.cachePolicy(rc.Cache)
	key := cache.Key{Endpoint: endpoint, Method: http.MethodGet, Query: query}.String()
	label := rc.label(http.MethodGet, endpoint)

	if pol.enabled {
		// Store.Get removes expired entries, so the stale-while-revalidate
		// path has to peek with GetStale before a hard Get would destroy
		// the entry it wants to serve.
		if pol.staleWhileRevalidate {
			if entry, stale, ok := c.store.GetStale(key); ok {
				if stale {
					StaleServesTotal.Inc()
					c.logger.Debug().
						Str("endpoint", endpoint).
						Msg("Serving stale entry, refreshing in background")
					go c.revalidate(endpoint, query, key, label, rc, pol)
					return entryToResponse(entry), nil
				}
				// Fresh: promote recency like a normal hit.
				if fresh, ok := c.store.Get(key); ok {
					entry = fresh
				}
				c.logger.Debug().
					Str("endpoint", endpoint).
					Msg("Cache hit")
				RequestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
				return entryToResponse(entry), nil
			}
		} else if entry, ok := c.store.Get(key); ok {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Msg("Cache hit")
			RequestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
			return entryToResponse(entry), nil
		}
	}

	resp, err := c.fetch(ctx, endpoint, query, key, label, rc)
	if err != nil {
		RequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if pol.enabled && is2xx(resp.StatusCode) {
		c.store.Set(key, responseToEntry(resp, pol.ttl))
	}
	return resp, nil
}

// Post performs a POST request and invalidates cached GETs under the
// endpoint on success.
func (c *Client) Post(ctx context.Context, endpoint string, body any, cfg *RequestConfig) (*Response, error) {
	return c.mutate(ctx, http.MethodPost, endpoint, body, cfg)
}

// Put performs a PUT request and invalidates cached GETs under the
// endpoint on success.
func (c *Client) Put(ctx context.Context, endpoint string, body any, cfg *RequestConfig) (*Response, error) {
	return c.mutate(ctx, http.MethodPut, endpoint, body, cfg)
}

// Delete performs a DELETE request and invalidates cached GETs under
// the endpoint on success.
func (c *Client) Delete(ctx context.Context, endpoint string, body any, cfg *RequestConfig) (*Response, error) {
	return c.mutate(ctx, http.MethodDelete, endpoint, body, cfg)
}

// mutate executes a mutating request. Mutations never read the cache;
// on success every cached key containing the endpoint path is removed
// (coarse substring invalidation, so "/users" clears "/users-extended"
// keys too).
func (c *Client) mutate(ctx context.Context, method, endpoint string, body any, cfg *RequestConfig) (*Response, error) {
	rc := normalizeConfig(cfg)
	label := rc.label(method, endpoint)
	policy := c.retryPolicy(rc.Retry)

	resp, err := c.measure(label, func() (*Response, error) {
		return c.withRetry(ctx, policy, label, func() (*Response, error) {
			return c.transport.Do(ctx, method, endpoint, nil, body)
		})
	})
	if err != nil {
		RequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if removed := c.store.DeleteMatching(endpoint); removed > 0 {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Int("removed", removed).
			Msg("Invalidated cached entries after mutation")
	}

	return resp, nil
}

// fetch executes one GET against the transport, composed as
// dedup(measure(retry(transport))). Deduplication shares the whole
// retry sequence between coalesced callers.
func (c *Client) fetch(ctx context.Context, endpoint string, query url.Values, key, label string, rc *RequestConfig) (*Response, error) {
	policy := c.retryPolicy(rc.Retry)

	if rc.Priority != "" && rc.Priority != PriorityNormal {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("priority", string(rc.Priority)).
			Msg("Request priority noted (no scheduling effect)")
	}

	op := func() (*Response, error) {
		return c.measure(label, func() (*Response, error) {
			return c.withRetry(ctx, policy, label, func() (*Response, error) {
				return c.transport.Do(ctx, http.MethodGet, endpoint, query, nil)
			})
		})
	}

	if c.dedupEnabled(rc.Deduplication) {
		return c.pending.do(ctx, key, op)
	}
	return op()
}

// revalidate runs a detached background refresh after a stale serve.
// Failures are logged and swallowed: the caller already has data.
func (c *Client) revalidate(endpoint string, query url.Values, key, label string, rc *RequestConfig, pol cachePolicy) {
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()

	resp, err := c.fetch(ctx, endpoint, query, key, label, rc)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Msg("Background revalidation failed")
		return
	}
	if is2xx(resp.StatusCode) {
		c.store.Set(key, responseToEntry(resp, pol.ttl))
	}
}

// InvalidateCache removes cached entries. An empty pattern clears the
// whole cache; otherwise every key containing pattern is removed.
func (c *Client) InvalidateCache(pattern string) {
	if pattern == "" {
		c.store.Clear()
		return
	}
	c.store.DeleteMatching(pattern)
}

// CacheStats reports the current cache occupancy.
type CacheStats struct {
	Size    int
	MaxSize int
}

// GetCacheStats returns the current cache occupancy.
func (c *Client) GetCacheStats() CacheStats {
	return CacheStats{
		Size:    c.store.Size(),
		MaxSize: c.store.MaxSize(),
	}
}

// Preload fires a best-effort GET to warm the cache. Failures are
// logged, never surfaced.
func (c *Client) Preload(ctx context.Context, endpoint string, query url.Values, cfg *RequestConfig) {
	go func() {
		if _, err := c.Get(ctx, endpoint, query, cfg); err != nil {
			c.logger.Warn().
				Err(err).
				Str("endpoint", endpoint).
				Msg("Preload failed")
		}
	}()
}

// BatchRequest is one GET in a Batch fan-out.
type BatchRequest struct {
	Endpoint string
	Query    url.Values
	Config   *RequestConfig
}

// BatchResult is the outcome of one BatchRequest.
type BatchResult struct {
	Response *Response
	Err      error
}

// Batch fans out the GETs concurrently and waits for all of them.
// Results are index-aligned with the requests; each request honors its
// own cache/retry/deduplication configuration, and one failure does not
// stop the others.
func (c *Client) Batch(ctx context.Context, requests []BatchRequest) []BatchResult {
	results := make([]BatchResult, len(requests))

	c.batch.Run(ctx, len(requests), func(ctx context.Context, i int) error {
		resp, err := c.Get(ctx, requests[i].Endpoint, requests[i].Query, requests[i].Config)
		results[i] = BatchResult{Response: resp, Err: err}
		return err
	})

	return results
}

func entryToResponse(entry *cache.Entry) *Response {
	return &Response{
		Data:       entry.Data,
		StatusCode: entry.StatusCode,
		Header:     entry.Header,
	}
}

func responseToEntry(resp *Response, ttl time.Duration) *cache.Entry {
	return &cache.Entry{
		Data:       resp.Data,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		TTL:        ttl,
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

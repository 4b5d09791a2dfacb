package client

import (
	"time"
)

// Mode selects between the client defaults, disabling a feature, and
// explicit per-request values.
type Mode int

const (
	// ModeDefault applies the client configuration.
	ModeDefault Mode = iota

	// ModeDisabled turns the feature off for this request.
	ModeDisabled

	// ModeCustom applies the values carried by the option.
	ModeCustom
)

// CacheOption overrides caching for one request.
type CacheOption struct {
	Mode Mode

	// TTL overrides the freshness window (ModeCustom). Zero falls back
	// to the client default.
	TTL time.Duration

	// MaxSize is accepted for interface compatibility but has no effect
	// at request time: store capacity is fixed at client construction.
	MaxSize int

	// StaleWhileRevalidate serves an expired entry immediately while a
	// background fetch refreshes it (ModeCustom).
	StaleWhileRevalidate bool
}

// CacheDisabled turns caching off for one request.
func CacheDisabled() CacheOption {
	return CacheOption{Mode: ModeDisabled}
}

// CacheTTL caches the response with an explicit freshness window.
func CacheTTL(ttl time.Duration) CacheOption {
	return CacheOption{Mode: ModeCustom, TTL: ttl}
}

// CacheStaleWhileRevalidate caches with an explicit TTL and serves
// expired entries while refreshing them in the background.
func CacheStaleWhileRevalidate(ttl time.Duration) CacheOption {
	return CacheOption{Mode: ModeCustom, TTL: ttl, StaleWhileRevalidate: true}
}

// RetryOption overrides retry behavior for one request.
type RetryOption struct {
	Mode Mode

	// Attempts is the total number of tries, the first included (>= 1).
	Attempts int

	// Delay is the wait before the second attempt.
	Delay time.Duration

	// Exponential doubles the delay for each further attempt.
	Exponential bool
}

// RetryDisabled runs the request exactly once.
func RetryDisabled() RetryOption {
	return RetryOption{Mode: ModeDisabled}
}

// RetryWith retries with an explicit schedule.
func RetryWith(attempts int, delay time.Duration, exponential bool) RetryOption {
	return RetryOption{Mode: ModeCustom, Attempts: attempts, Delay: delay, Exponential: exponential}
}

// DedupMode controls request coalescing for one request.
type DedupMode int

const (
	// DedupDefault applies the client configuration.
	DedupDefault DedupMode = iota

	// DedupEnabled coalesces this request with identical in-flight ones.
	DedupEnabled

	// DedupDisabled always issues a fresh upstream call.
	DedupDisabled
)

// Priority is accepted on requests and recorded for log context, but
// has no scheduling effect. Reserved for future use.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// RequestConfig carries per-request overrides. The zero value (or a nil
// pointer) means "use client defaults" for everything.
type RequestConfig struct {
	Cache         CacheOption
	Retry         RetryOption
	Deduplication DedupMode
	Priority      Priority

	// MeasurementLabel names the timing span recorded for this request.
	// Empty derives "<METHOD> <endpoint>".
	MeasurementLabel string
}

func normalizeConfig(cfg *RequestConfig) *RequestConfig {
	if cfg == nil {
		return &RequestConfig{}
	}
	return cfg
}

func (rc *RequestConfig) label(method, endpoint string) string {
	if rc.MeasurementLabel != "" {
		return rc.MeasurementLabel
	}
	return method + " " + endpoint
}

// cachePolicy is the resolved caching behavior for one request.
type cachePolicy struct {
	enabled              bool
	ttl                  time.Duration
	staleWhileRevalidate bool
}

func (c *Client) cachePolicy(opt CacheOption) cachePolicy {
	switch opt.Mode {
	case ModeDisabled:
		return cachePolicy{}
	case ModeCustom:
		ttl := opt.TTL
		if ttl <= 0 {
			ttl = c.config.CacheTTL
		}
		return cachePolicy{
			enabled:              true,
			ttl:                  ttl,
			staleWhileRevalidate: opt.StaleWhileRevalidate,
		}
	default:
		return cachePolicy{
			enabled:              true,
			ttl:                  c.config.CacheTTL,
			staleWhileRevalidate: c.config.StaleWhileRevalidate,
		}
	}
}

func (c *Client) retryPolicy(opt RetryOption) RetryPolicy {
	switch opt.Mode {
	case ModeDisabled:
		return RetryPolicy{Attempts: 1}
	case ModeCustom:
		policy := RetryPolicy{
			Attempts:    opt.Attempts,
			Delay:       opt.Delay,
			Exponential: opt.Exponential,
		}
		if policy.Attempts < 1 {
			policy.Attempts = 1
		}
		return policy
	default:
		return RetryPolicy{
			Attempts:    c.config.RetryAttempts,
			Delay:       c.config.RetryDelay,
			Exponential: c.config.RetryExponential,
		}
	}
}

func (c *Client) dedupEnabled(mode DedupMode) bool {
	switch mode {
	case DedupDisabled:
		return false
	case DedupEnabled:
		return true
	default:
		return c.config.Deduplication
	}
}

package client

import (
	"time"
)

// Observer receives the wall-clock duration of each measured request.
// It is a pure timing sink: implementations must not influence request
// results, and the client never propagates anything from them.
type Observer interface {
	ObserveRequestDuration(label string, d time.Duration)
}

// PrometheusObserver is the default Observer; it records durations in
// the apiclient_request_duration_seconds histogram.
type PrometheusObserver struct{}

// ObserveRequestDuration implements Observer.
func (PrometheusObserver) ObserveRequestDuration(label string, d time.Duration) {
	RequestDuration.WithLabelValues(label).Observe(d.Seconds())
}

// measure wraps fn in a named timing span. The result and error pass
// through untouched.
func (c *Client) measure(label string, fn func() (*Response, error)) (*Response, error) {
	start := time.Now()
	resp, err := fn()
	c.observer.ObserveRequestDuration(label, time.Since(start))
	return resp, err
}

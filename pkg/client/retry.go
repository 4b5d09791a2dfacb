package client

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy describes the bounded retry schedule for one request.
type RetryPolicy struct {
	// Attempts is the total number of tries, the first included.
	Attempts int

	// Delay is the wait before the second attempt.
	Delay time.Duration

	// Exponential doubles the delay for each further attempt.
	Exponential bool
}

// BackoffFor returns the wait before attempt n (n >= 2). The backoff is
// deterministic: Delay for attempt 2, doubled per further attempt when
// Exponential. No jitter is applied.
func (p RetryPolicy) BackoffFor(attempt int) time.Duration {
	if attempt <= 1 || p.Delay <= 0 {
		return 0
	}
	if !p.Exponential {
		return p.Delay
	}
	return p.Delay << uint(attempt-2)
}

// withRetry executes op up to policy.Attempts times, sleeping the
// policy backoff between tries. The backoff sleep aborts when ctx is
// done. On exhaustion the LAST error observed is returned unchanged.
func (c *Client) withRetry(ctx context.Context, policy RetryPolicy, label string, op func() (*Response, error)) (*Response, error) {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if attempt > 1 {
			backoff := policy.BackoffFor(attempt)
			RetriesTotal.Inc()
			RetryBackoffSeconds.Observe(backoff.Seconds())

			c.logger.Warn().
				Str("label", label).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Err(lastErr).
				Msg("Retrying request after backoff")

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err := op()
		if err == nil {
			if attempt > 1 {
				c.logger.Info().
					Str("label", label).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return resp, nil
		}
		lastErr = err
	}

	RetryExhaustedTotal.Inc()
	c.logger.Warn().
		Str("label", label).
		Int("attempts", policy.Attempts).
		Err(lastErr).
		Msg("Retry attempts exhausted")

	return nil, lastErr
}

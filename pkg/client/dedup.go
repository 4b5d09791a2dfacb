package client

import (
	"context"
	"fmt"
	"sync"
)

// pendingRequest is one in-flight request shared between callers.
// resp and err are written exactly once, before done is closed.
type pendingRequest struct {
	done chan struct{}
	resp *Response
	err  error
}

// pendingRegistry coalesces concurrent identical requests so a single
// upstream call serves every waiter.
type pendingRegistry struct {
	mu      sync.Mutex
	entries map[string]*pendingRequest
}

func newPendingRegistry() *pendingRegistry {
	return &pendingRegistry{
		entries: make(map[string]*pendingRequest),
	}
}

// do runs producer under signature, sharing the result with every
// caller that arrives before settlement. The registry entry is removed
// exactly once, at settlement, before waiters are released, so a caller
// arriving after settlement always starts a fresh producer.
func (r *pendingRegistry) do(ctx context.Context, signature string, producer func() (*Response, error)) (*Response, error) {
	r.mu.Lock()
	if entry, ok := r.entries[signature]; ok {
		r.mu.Unlock()
		DedupSharedTotal.Inc()
		select {
		case <-entry.done:
			return entry.resp, entry.err
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}
	}

	entry := &pendingRequest{done: make(chan struct{})}
	r.entries[signature] = entry
	r.mu.Unlock()

	resp, err := producer()

	r.mu.Lock()
	delete(r.entries, signature)
	r.mu.Unlock()

	entry.resp = resp
	entry.err = err
	close(entry.done)

	return resp, err
}

// size returns the number of in-flight signatures.
func (r *pendingRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Package testutil provides testing utilities for the API client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockAPI is a configurable mock REST API server. It counts requests
// per path and can script failures or delays, which is what the retry,
// deduplication, and stale-while-revalidate tests need.
type MockAPI struct {
	server *httptest.Server

	mu         sync.Mutex
	handlers   map[string]http.HandlerFunc
	failures   map[string]int
	failStatus map[string]int
	hits       map[string]int
	delay      time.Duration
}

// NewMockAPI creates and starts a mock API server.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		handlers:   make(map[string]http.HandlerFunc),
		failures:   make(map[string]int),
		failStatus: make(map[string]int),
		hits:       make(map[string]int),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.dispatch))
	return m
}

// URL returns the server's base URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts the server down.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Handle installs a custom handler for path.
func (m *MockAPI) Handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Respond makes path answer with a fixed status and JSON body.
func (m *MockAPI) Respond(path string, status int, body string) {
	m.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

// FailTimes scripts the next n requests to path to fail with status
// before the regular handler takes over again.
func (m *MockAPI) FailTimes(path string, n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = n
	m.failStatus[path] = status
}

// SetDelay makes every response wait d before being written.
func (m *MockAPI) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Hits returns the number of requests seen for path.
func (m *MockAPI) Hits(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[path]
}

// TotalHits returns the number of requests seen across all paths.
func (m *MockAPI) TotalHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.hits {
		total += n
	}
	return total
}

func (m *MockAPI) dispatch(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.hits[r.URL.Path]++
	delay := m.delay

	if m.failures[r.URL.Path] > 0 {
		m.failures[r.URL.Path]--
		status := m.failStatus[r.URL.Path]
		m.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		http.Error(w, "scripted failure", status)
		return
	}

	handler := m.handlers[r.URL.Path]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if handler != nil {
		handler(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"path":%q,"method":%q}`, r.URL.Path, r.Method)
}

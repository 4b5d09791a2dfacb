package cache

import (
	"net/http"
	"time"
)

// Entry represents a cached API response.
type Entry struct {
	// Data is the response body.
	Data []byte

	// StatusCode is the HTTP status code of the cached response.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// StoredAt is when the entry was written to the store.
	StoredAt time.Time

	// TTL is how long the entry stays fresh after StoredAt.
	TTL time.Duration
}

// Expired reports whether the entry is logically expired at now.
// Staleness is derived from StoredAt and TTL on every read, never
// stored, so a refresh that overwrites StoredAt always makes the entry
// fresh again.
func (e *Entry) Expired(now time.Time) bool {
	return now.Sub(e.StoredAt) > e.TTL
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

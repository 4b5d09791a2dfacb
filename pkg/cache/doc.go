// Package cache provides the in-memory response cache for the API
// client: a bounded LRU store with per-entry TTL, stale reads for
// stale-while-revalidate serving, and substring-based invalidation
// after mutations.
//
// The store is process-local and not durable; entries do not survive a
// restart.
package cache

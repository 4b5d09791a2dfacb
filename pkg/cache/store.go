package cache

import (
	"container/list"
	"strings"
	"sync"
)

// DefaultMaxSize bounds the store when no capacity is configured.
const DefaultMaxSize = 200

// Store is a bounded in-memory LRU cache with per-entry TTL.
//
// A map gives O(1) key lookup and a doubly-linked list maintains
// recency order (front = most recently used, back = least recently
// used). All operations are serialized by a single mutex, so one Store
// may be shared across goroutines.
type Store struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
	clock   Clock
}

// storeItem is the value held in the LRU list elements. The key lives
// here because eviction starts from list nodes.
type storeItem struct {
	key   string
	entry *Entry
}

// NewStore creates a store holding at most maxSize entries.
// maxSize <= 0 falls back to DefaultMaxSize.
func NewStore(maxSize int) *Store {
	return NewStoreWithClock(maxSize, systemClock{})
}

// NewStoreWithClock creates a store with an explicit clock. Tests use
// this to control expiry without sleeping.
func NewStoreWithClock(maxSize int, clock Clock) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Store{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		clock:   clock,
	}
}

// Get returns the entry for key if present and fresh, promoting it to
// most recently used. An expired entry is removed and reported as a
// miss; Get never returns stale data.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		CacheMisses.Inc()
		return nil, false
	}

	item := el.Value.(*storeItem)
	if item.entry.Expired(s.clock.Now()) {
		s.removeLocked(el)
		CacheMisses.Inc()
		return nil, false
	}

	s.lru.MoveToFront(el)
	CacheHits.Inc()
	return item.entry, true
}

// GetStale returns the entry for key regardless of expiry, together
// with a flag reporting whether it is expired. It neither deletes
// expired entries nor refreshes recency; it exists for the
// stale-while-revalidate path only.
func (s *Store) GetStale(key string) (entry *Entry, stale bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, found := s.items[key]
	if !found {
		return nil, false, false
	}

	item := el.Value.(*storeItem)
	return item.entry, item.entry.Expired(s.clock.Now()), true
}

// IsStale reports whether an entry exists for key and is expired.
func (s *Store) IsStale(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return false
	}
	return el.Value.(*storeItem).entry.Expired(s.clock.Now())
}

// Set stores entry under key, stamping StoredAt with the current time.
// Inserting a new key at capacity evicts exactly the least-recently-used
// entry first; overwriting an existing key never evicts.
func (s *Store) Set(key string, entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.StoredAt = s.clock.Now()

	if el, ok := s.items[key]; ok {
		el.Value.(*storeItem).entry = entry
		s.lru.MoveToFront(el)
		return
	}

	if s.lru.Len() >= s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeLocked(oldest)
			CacheEvictions.Inc()
		}
	}

	el := s.lru.PushFront(&storeItem{key: key, entry: entry})
	s.items[key] = el
	CacheEntries.Set(float64(s.lru.Len()))
}

// Delete removes the entry for key, if any.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.removeLocked(el)
		CacheInvalidations.WithLabelValues("delete").Inc()
	}
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*list.Element)
	s.lru.Init()
	CacheEntries.Set(0)
	CacheInvalidations.WithLabelValues("clear").Inc()
}

// DeleteMatching removes every entry whose key contains pattern and
// returns the number removed. Mutations use this with the endpoint path
// as pattern; the match is a plain substring, so "/users" also clears
// "/users-extended" keys.
func (s *Store) DeleteMatching(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, el := range s.items {
		if strings.Contains(key, pattern) {
			s.removeLocked(el)
			removed++
		}
	}
	if removed > 0 {
		CacheInvalidations.WithLabelValues("match").Add(float64(removed))
	}
	return removed
}

// Size returns the current number of entries, expired ones included.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// MaxSize returns the configured capacity.
func (s *Store) MaxSize() int {
	return s.maxSize
}

func (s *Store) removeLocked(el *list.Element) {
	item := el.Value.(*storeItem)
	s.lru.Remove(el)
	delete(s.items, item.key)
	CacheEntries.Set(float64(s.lru.Len()))
}

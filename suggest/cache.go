package suggest

import (
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"nushcenume/catalog"
)

// Cache maps normalized keys to the full ordered result list of a previous fetch.
// Stored lists are never modified; Put replaces an entry wholesale.
type Cache interface {
	Get(key Key) ([]catalog.Suggestion, bool)
	Put(key Key, suggestions []catalog.Suggestion)
	Len() int
}

// NewCache returns an LRU cache holding at most size entries,
// or an unbounded MemoryCache when size <= 0
func NewCache(size int) Cache {
	if size <= 0 {
		return NewMemoryCache()
	}
	c, err := NewLRUCache(size)
	if err != nil {
		return NewMemoryCache()
	}
	return c
}

// MemoryCache never evicts. Growth is bounded by the queries typed in one session.
type MemoryCache struct {
	store map[Key][]catalog.Suggestion
	mu    sync.RWMutex
}

// NewMemoryCache creates an empty unbounded cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: make(map[Key][]catalog.Suggestion)}
}

// Get returns the cached list; callers must not modify it
func (c *MemoryCache) Get(key Key) ([]catalog.Suggestion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.store[key]
	return s, ok
}

// Put stores a private copy of suggestions
func (c *MemoryCache) Put(key Key, suggestions []catalog.Suggestion) {
	entry := slices.Clone(suggestions)
	if entry == nil {
		entry = []catalog.Suggestion{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry
}

// Len returns the number of cached keys
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// LRUCache evicts the least recently used key once full
type LRUCache struct {
	store *lru.Cache[Key, []catalog.Suggestion]
}

// NewLRUCache creates a cache holding at most size keys
func NewLRUCache(size int) (*LRUCache, error) {
	store, err := lru.New[Key, []catalog.Suggestion](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{store: store}, nil
}

// Get returns the cached list and marks it recently used; callers must not modify it
func (c *LRUCache) Get(key Key) ([]catalog.Suggestion, bool) {
	return c.store.Get(key)
}

// Put stores a private copy of suggestions
func (c *LRUCache) Put(key Key, suggestions []catalog.Suggestion) {
	entry := slices.Clone(suggestions)
	if entry == nil {
		entry = []catalog.Suggestion{}
	}
	c.store.Add(key, entry)
}

// Len returns the number of cached keys
func (c *LRUCache) Len() int {
	return c.store.Len()
}

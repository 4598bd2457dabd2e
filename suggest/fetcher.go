package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"nushcenume/catalog"
)

// ErrCancelled marks a fetch that was superseded or torn down.
// It is the expected outcome of typing ahead, not a failure.
var ErrCancelled = errors.New("suggestion fetch cancelled")

// Trigger records what started a lookup; it selects the display limit
type Trigger int

const (
	TriggerKeystroke Trigger = iota // settle timer after typing
	TriggerRefresh                  // focus or click on an already-typed query
)

// Display limits per trigger. The cache always keeps the full list.
const (
	KeystrokeLimit = 6
	RefreshLimit   = 8
)

// DisplayLimit returns how many suggestions to show for a trigger
func DisplayLimit(t Trigger) int {
	if t == TriggerRefresh {
		return RefreshLimit
	}
	return KeystrokeLimit
}

// Truncate returns at most n leading suggestions without copying
func Truncate(s []catalog.Suggestion, n int) []catalog.Suggestion {
	if len(s) > n {
		return s[:n:n]
	}
	return s
}

// Fetcher wraps the catalog provider with fetch-or-cache semantics
type Fetcher struct {
	provider catalog.Provider
	cache    Cache
	log      *log.Logger
}

// NewFetcher creates a fetcher. A nil cache gets an unbounded MemoryCache.
func NewFetcher(provider catalog.Provider, cache Cache, logger *log.Logger) *Fetcher {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{provider: provider, cache: cache, log: logger}
}

// Cached is the synchronous half of Fetch: no I/O, no context
func (f *Fetcher) Cached(query, lang string) ([]catalog.Suggestion, bool) {
	return f.cache.Get(NewKey(query, lang))
}

// Fetch returns the full result list for query, from cache when possible.
// On a miss it makes exactly one provider call and caches a successful result.
// Errors are ErrCancelled (wrapped) or the provider's typed error; nothing is
// cached on failure.
func (f *Fetcher) Fetch(ctx context.Context, query, lang string) ([]catalog.Suggestion, error) {
	key := NewKey(query, lang)
	if cached, ok := f.cache.Get(key); ok {
		return cached, nil
	}

	results, err := f.provider.Search(ctx, query, lang)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
			f.log.Debug("suggestion fetch cancelled", "key", key)
			return nil, fmt.Errorf("%w: %s", ErrCancelled, key)
		}
		f.log.Warn("suggestion fetch failed", "key", key, "err", err)
		return nil, err
	}

	f.cache.Put(key, results)
	f.log.Debug("suggestions cached", "key", key, "count", len(results))

	// Hand back the stored copy so every caller sees the same list
	if stored, ok := f.cache.Get(key); ok {
		return stored, nil
	}
	return results, nil
}

// Len reports how many keys are cached
func (f *Fetcher) Len() int {
	return f.cache.Len()
}

package resolve

import (
	"context"
	"sync"
)

// fetchCache coalesces external fetches: at most one in-flight request per
// (endpoint, subject) key, with late awaiters receiving the same settled
// result. Successful results live until ClearCache; failures are dropped once
// settled so a later user-triggered resolution can retry.
type fetchCache struct {
	mu      sync.Mutex
	entries map[string]*fetchEntry
}

type fetchEntry struct {
	done  chan struct{}
	value any
	err   error
}

func newFetchCache() *fetchCache {
	return &fetchCache{entries: make(map[string]*fetchEntry)}
}

// do returns the cached value for key, or runs fetch exactly once while
// concurrent callers for the same key wait on the shared result.
func (c *fetchCache) do(ctx context.Context, key string, fetch func() (any, error)) (any, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-entry.done:
			return entry.value, entry.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry := &fetchEntry{done: make(chan struct{})}
	c.entries[key] = entry
	c.mu.Unlock()

	entry.value, entry.err = fetch()
	close(entry.done)

	if entry.err != nil {
		c.mu.Lock()
		if c.entries[key] == entry {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}
	return entry.value, entry.err
}

func (c *fetchCache) clear() {
	c.mu.Lock()
	c.entries = make(map[string]*fetchEntry)
	c.mu.Unlock()
}

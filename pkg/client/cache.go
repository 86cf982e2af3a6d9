package client

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached query: the resource name plus its canonically
// serialized parameters. Two reads with the same logical parameters always
// produce the same Key.
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a Key. url.Values.Encode sorts by parameter name, so the
// serialization is canonical regardless of insertion order.
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: params.Encode()}
}

func (k Key) String() string {
	return k.Resource + "?" + k.Params
}

// FetchFunc loads the value for a key.
type FetchFunc func(ctx context.Context) (interface{}, error)

type cacheEntry struct {
	value      interface{}
	err        error
	hasValue   bool
	stale      bool
	refreshing bool
}

// Cache is a keyed read cache with request deduplication and
// stale-while-revalidate. Concurrent reads of the same key share one
// in-flight fetch; a read of a stale key returns the last good value
// immediately and triggers a single background refetch; errors are retained
// per key and never poison other keys. Mutations do not write the cache;
// they call Invalidate and the next read refetches.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*cacheEntry
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*cacheEntry)}
}

// Get returns the cached value for key, fetching it if needed. A never-
// fetched key blocks until the fetch resolves; a stale key serves the old
// value while one refetch runs in the background.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if !e.stale {
			if e.err != nil {
				err := e.err
				c.mu.Unlock()
				return nil, err
			}
			if e.hasValue {
				v := e.value
				c.mu.Unlock()
				return v, nil
			}
		} else if e.hasValue {
			v := e.value
			if !e.refreshing {
				e.refreshing = true
				go c.refresh(key, fetch)
			}
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		val, err := fetch(ctx)
		c.store(key, val, err)
		return val, err
	})
	return v, err
}

// refresh refetches a stale key once, detached from any caller's context so
// the caller that happened to trigger it can move on.
func (c *Cache) refresh(key Key, fetch FetchFunc) {
	_, _, _ = c.group.Do(key.String(), func() (interface{}, error) {
		val, err := fetch(context.Background())
		if err != nil {
			// Keep serving the stale value; the entry stays stale so a
			// later read retries.
			c.mu.Lock()
			if e, ok := c.entries[key]; ok {
				e.refreshing = false
			}
			c.mu.Unlock()
			return nil, err
		}
		c.store(key, val, nil)
		return val, nil
	})
}

func (c *Cache) store(key Key, value interface{}, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.entries[key] = &cacheEntry{err: err}
		return
	}
	c.entries[key] = &cacheEntry{value: value, hasValue: true}
}

// Invalidate marks every key of the given resources stale. Entries holding an
// error are dropped outright so the next read blocks on a fresh fetch.
func (c *Cache) Invalidate(resources ...string) {
	tagged := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		tagged[r] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if _, ok := tagged[key.Resource]; !ok {
			continue
		}
		if e.err != nil || !e.hasValue {
			delete(c.entries, key)
			continue
		}
		e.stale = true
	}
}

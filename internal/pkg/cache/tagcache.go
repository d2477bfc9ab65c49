// Package cache provides the tag-based invalidation surface the submission
// pipeline signals after every successful write, plus a tagged response
// cache the read endpoints consume, so an invalidation is observable end
// to end rather than a fire-and-forget no-op.
package cache

import (
	"sync"
	"time"
)

// entry is one cached value and the tag versions it was stored under.
type entry struct {
	value    interface{}
	tagVers  map[string]uint64
	pathVer  uint64
	path     string
	storedAt time.Time
}

// TagCache is an in-process response cache whose entries are keyed by path
// and guarded by tag version counters: invalidating a tag bumps its
// version, which lazily expires every entry stored under the old version.
type TagCache struct {
	mu       sync.RWMutex
	tagVers  map[string]uint64
	pathVers map[string]uint64
	entries  map[string]entry
	ttl      time.Duration
}

// NewTagCache creates a TagCache. A zero ttl disables time-based expiry;
// tag and path invalidation always apply.
func NewTagCache(ttl time.Duration) *TagCache {
	return &TagCache{
		tagVers:  make(map[string]uint64),
		pathVers: make(map[string]uint64),
		entries:  make(map[string]entry),
		ttl:      ttl,
	}
}

// InvalidateTag marks every entry stored under tag as stale.
func (c *TagCache) InvalidateTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tagVers[tag]++
}

// InvalidatePath marks every entry stored under path as stale.
func (c *TagCache) InvalidatePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pathVers[path]++
}

// Set stores value under key for the given path and tags.
func (c *TagCache) Set(key, path string, tags []string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vers := make(map[string]uint64, len(tags))
	for _, tag := range tags {
		vers[tag] = c.tagVers[tag]
	}
	c.entries[key] = entry{
		value:    value,
		tagVers:  vers,
		pathVer:  c.pathVers[path],
		path:     path,
		storedAt: time.Now(),
	}
}

// Get returns the cached value for key, or false when the entry is absent,
// expired, or stored under a since-invalidated tag or path version.
func (c *TagCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		return nil, false
	}
	stale := e.pathVer != c.pathVers[e.path]
	if !stale {
		for tag, ver := range e.tagVers {
			if ver != c.tagVers[tag] {
				stale = true
				break
			}
		}
	}
	if !stale && c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		stale = true
	}
	c.mu.RUnlock()

	if stale {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Len returns the number of entries currently held, stale or not.
func (c *TagCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

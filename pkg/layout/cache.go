package layout

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// PositionCache remembers the last simulated position of every node id so
// later runs can start where the previous one stopped. It also remembers the
// key of the last input that ran to rest.
type PositionCache struct {
	mu        sync.RWMutex
	positions map[string]r2.Vec
	settled   string
}

// NewPositionCache returns an empty cache.
func NewPositionCache() *PositionCache {
	return &PositionCache{positions: make(map[string]r2.Vec)}
}

// Get returns the cached position for id.
func (c *PositionCache) Get(id string) (r2.Vec, bool) {
	if c == nil {
		return r2.Vec{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.positions[id]
	return p, ok
}

// Set stores the position for id.
func (c *PositionCache) Set(id string, p r2.Vec) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.positions[id] = p
	c.mu.Unlock()
}

// Len returns the number of cached ids.
func (c *PositionCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.positions)
}

// Settled returns the key of the last input whose run came to rest, or ""
// when the cached positions belong to an unfinished run.
func (c *PositionCache) Settled() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settled
}

func (c *PositionCache) setSettled(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.settled = key
	c.mu.Unlock()
}

// Clear forgets every position. Used when the topic changes.
func (c *PositionCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.positions = make(map[string]r2.Vec)
	c.settled = ""
	c.mu.Unlock()
}

package driver

import (
	"sync"

	"buble/internal/project"
)

// minimal per-process cache by input path + cache key
type cached struct {
	key project.Digest
	res *Result
}

// MemCache keeps the last result of every input in memory so a rebuild in
// watch mode skips unchanged files.
type MemCache struct {
	mu     sync.RWMutex
	byPath map[string]cached
}

// NewMemCache creates a MemCache with the given capacity hint.
func NewMemCache(capHint int) *MemCache {
	return &MemCache{byPath: make(map[string]cached, capHint)}
}

// Get returns the result stored for path when it was built with key.
func (c *MemCache) Get(path string, key project.Digest) (*Result, bool) {
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.key != key {
		return nil, false
	}
	return rec.res, true
}

// Put stores res for path.
func (c *MemCache) Put(path string, key project.Digest, res *Result) {
	c.mu.Lock()
	c.byPath[path] = cached{key: key, res: res}
	c.mu.Unlock()
}

// Forget drops path, e.g. after it was deleted.
func (c *MemCache) Forget(path string) {
	c.mu.Lock()
	delete(c.byPath, path)
	c.mu.Unlock()
}

// Len reports the number of stored results.
func (c *MemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPath)
}

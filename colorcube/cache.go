package colorcube

import "sync"

// hueQuantization is the number of hue buckets used for cache keying. Finer
// than any input slider step, coarse enough that float jitter between ticks
// cannot force rebuilds.
const hueQuantization = 4096

// Cache holds the cube for the most recent hue. Building 262,144 samples is
// far too expensive to repeat per frame, so the table is rebuilt only when
// the quantized hue changes. Safe for concurrent use; a caller never observes
// a table mid-construction.
type Cache struct {
	mu     sync.Mutex
	size   int
	key    int64
	cube   *Cube
	builds int
}

// NewCache returns an empty cache producing cubes with the given axis size.
func NewCache(size int) *Cache {
	return &Cache{size: size, key: -1}
}

// Get returns the cube for the given hue in [0, 1), building and retaining it
// if the hue changed since the last call. The cube is built from the
// quantized hue so identical keys always yield identical tables.
func (c *Cache) Get(hue float64) *Cube {
	key := int64(hue * hueQuantization)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cube != nil && c.key == key {
		return c.cube
	}
	c.cube = Build(float64(key)/hueQuantization, c.size)
	c.key = key
	c.builds++
	return c.cube
}

// Builds reports how many cube constructions the cache has performed.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

package assets

import (
	"image"
	"sync"

	"github.com/Faultbox/folio/internal/book"
)

// Cache is a simple in-memory cache for decoded surfaces.
type Cache struct {
	data map[book.SurfaceID]*image.RGBA
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[book.SurfaceID]*image.RGBA),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(id book.SurfaceID) (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[id]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Set stores an item in cache.
func (c *Cache) Set(id book.SurfaceID, img *image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = img
}

// Len returns the number of cached surfaces.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[book.SurfaceID]*image.RGBA)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

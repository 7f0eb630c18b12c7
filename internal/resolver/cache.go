package resolver

import (
	"container/list"
	"sync"

	"github.com/tomasvidal/trackseek/internal/models"
)

// DefaultCacheSize bounds the memo cache when no capacity is configured.
const DefaultCacheSize = 100

type cacheEntry struct {
	key        string
	resolution models.Resolution
}

// Cache is a bounded LRU memo of successful resolutions keyed by
// descriptor identity. Concurrent batch resolutions share one instance,
// so every access holds the lock.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	items    map[string]*list.Element
}

// NewCache creates a cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}

	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached resolution for key and marks it recently used.
func (c *Cache) Get(key string) (models.Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return models.Resolution{}, false
	}

	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).resolution, true
}

// Put stores a resolution under key, evicting the least recently used
// entry once capacity is exceeded.
func (c *Cache) Put(key string, resolution models.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).resolution = resolution
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, resolution: resolution})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

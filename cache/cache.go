package cache

import (
	"container/list"
	"sync"
)

const defaultCapacity = 4096

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is a bounded LRU cache keyed by K.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	lookup   map[K]*list.Element
}

// New creates a cache holding at most capacity entries.
// A capacity below 1 falls back to the default.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		order:    list.New(),
		lookup:   make(map[K]*list.Element, capacity),
	}
}

// Get returns the value for key and promotes it to most-recently-used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.lookup[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Set stores value under key. An existing key is updated in place and
// promoted; a new key evicts the least-recently-used entry first if the
// cache is at capacity.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.lookup[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.lookup, oldest.Value.(*entry[K, V]).key)
		}
	}

	c.lookup[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.lookup = make(map[K]*list.Element, c.capacity)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is a single cached value with its expiry
type entry[K comparable, V any] struct {
	key    K
	value  V
	expiry time.Time
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !e.expiry.IsZero() && now.After(e.expiry)
}

// LRUCache is a thread-safe least recently used cache with an optional TTL
type LRUCache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	items    map[K]*list.Element
	order    *list.List
	mutex    sync.Mutex
	now      func() time.Time

	// Statistics
	hits      int64
	misses    int64
	evictions int64
}

// NewLRUCache creates a new LRU cache with the specified capacity and TTL.
// A zero TTL keeps entries until they are evicted.
func NewLRUCache[K comparable, V any](capacity int, ttl time.Duration) *LRUCache[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get retrieves a value from the cache
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	elem, exists := c.items[key]
	if !exists {
		c.misses++
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if e.expired(c.now()) {
		c.removeElement(elem)
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// Set adds or updates a value in the cache
func (c *LRUCache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var expiry time.Time
	if c.ttl > 0 {
		expiry = c.now().Add(c.ttl)
	}

	if elem, exists := c.items[key]; exists {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expiry = expiry
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, expiry: expiry})

	// Evict if over capacity
	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
		c.evictions++
	}
}

// Delete removes a key from the cache
func (c *LRUCache[K, V]) Delete(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
		return true
	}
	return false
}

// Clear removes all entries and resets statistics
func (c *LRUCache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// Len returns the current number of entries in the cache
func (c *LRUCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.order.Len()
}

// CleanExpired removes expired entries and returns how many were dropped
func (c *LRUCache[K, V]) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	cleaned := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[K, V]).expired(now) {
			c.removeElement(elem)
			cleaned++
		}
		elem = prev
	}
	return cleaned
}

// Stats returns cache statistics
func (c *LRUCache[K, V]) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
		Size:      c.order.Len(),
		Capacity:  c.capacity,
	}
}

func (c *LRUCache[K, V]) removeElement(elem *list.Element) {
	delete(c.items, elem.Value.(*entry[K, V]).key)
	c.order.Remove(elem)
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
}

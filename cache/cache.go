package cache

import (
	"container/list"
	"expvar"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Callbacks are optional hooks invoked while the cache lock is held; they
// must not call back into the cache.
type Callbacks[K comparable, V any] struct {
	OnEvicted func(key K, value V)
	OnHit     func(key K)
	OnMiss    func(key K)
}

// LRU is a fixed-size least-recently-used cache. A capacity <= 0 disables it.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	order     *list.List
	items     map[K]*list.Element
	callbacks Callbacks[K, V]

	hits   *expvar.Int
	misses *expvar.Int
}

var _ Interface[int, string] = (*LRU[int, string])(nil)

func NewLRU[K comparable, V any](capacity int, callbacks Callbacks[K, V]) *LRU[K, V] {
	return &LRU[K, V]{
		capacity:  capacity,
		order:     list.New(),
		items:     make(map[K]*list.Element),
		callbacks: callbacks,
	}
}

func (c *LRU[K, V]) SetMetrics(hits, misses *expvar.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = hits
	c.misses = misses
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return value, false
	}
	if elem, found := c.items[key]; found {
		if c.hits != nil {
			c.hits.Add(1)
		}
		if c.callbacks.OnHit != nil {
			c.callbacks.OnHit(key)
		}
		c.order.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}

	if c.misses != nil {
		c.misses.Add(1)
	}
	if c.callbacks.OnMiss != nil {
		c.callbacks.OnMiss(key)
	}
	return value, false
}

// Put adds or replaces a value, evicting the least recently used one when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return
	}
	if elem, found := c.items[key]; found {
		c.order.MoveToFront(elem)
		elem.Value.(*entry[K, V]).value = value
		return
	}
	if c.order.Len() >= c.capacity {
		c.evict()
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}

// Remove drops key without calling OnEvicted.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, found := c.items[key]; found {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// evict must be called with c.mu held.
func (c *LRU[K, V]) evict() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	e := c.order.Remove(elem).(*entry[K, V])
	delete(c.items, e.key)
	if c.callbacks.OnEvicted != nil {
		c.callbacks.OnEvicted(e.key, e.value)
	}
}

// Clear removes all entries and resets the metrics.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.callbacks.OnEvicted != nil {
		for _, elem := range c.items {
			e := elem.Value.(*entry[K, V])
			c.callbacks.OnEvicted(e.key, e.value)
		}
	}
	c.order = list.New()
	c.items = make(map[K]*list.Element)
	if c.hits != nil {
		c.hits.Set(0)
	}
	if c.misses != nil {
		c.misses.Set(0)
	}
}

// GetHitRate returns hits / (hits + misses), or 0 before any lookup.
func (c *LRU[K, V]) GetHitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hits, misses float64
	if c.hits != nil {
		hits = float64(c.hits.Value())
	}
	if c.misses != nil {
		misses = float64(c.misses.Value())
	}
	if hits+misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

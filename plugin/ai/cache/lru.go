package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// LRUCache is a bounded, TTL-aware least-recently-used map.
type LRUCache struct {
	capacity   int
	defaultTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	hits    int64
	misses  int64
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewLRUCache creates a cache holding at most capacity entries.
func NewLRUCache(capacity int, defaultTTL time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &LRUCache{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		now:        time.Now,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.remove(el)
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return e.value, true
}

func (c *LRUCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := c.now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.capacity {
		c.remove(c.order.Back())
	}
	c.entries[key] = c.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
}

// Invalidate removes a key, or every key with the prefix before a trailing '*'.
// Returns the number of removed entries.
func (c *LRUCache) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix, wildcard := strings.CutSuffix(pattern, "*")
	if !wildcard {
		if el, ok := c.entries[pattern]; ok {
			c.remove(el)
			return 1
		}
		return 0
	}

	removed := 0
	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
			removed++
		}
	}
	return removed
}

func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (c *LRUCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// CleanupExpired drops expired entries and returns how many were removed.
func (c *LRUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry).expiresAt) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

// remove must be called with mu held.
func (c *LRUCache) remove(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry).key)
}

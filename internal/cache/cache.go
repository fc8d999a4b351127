package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a bounded in-memory store with a fixed per-entry TTL.
// When full it evicts the earliest inserted entry, regardless of reads.
// Expired entries are dropped lazily on Get and in bulk by Cleanup.
// It is safe for concurrent use by multiple goroutines.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*list.Element
	order *list.List // front = oldest insertion

	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
}

type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

var (
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
	ErrInvalidTTL      = errors.New("cache: ttl must be positive")
)

// New creates a cache holding at most capacity entries, each valid for ttl.
func New[V any](capacity int, ttl time.Duration, opts ...Option) (*Cache[V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      o.now,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}, nil
}

// Get returns the value for key if present and not older than the TTL.
// An expired entry is removed as a side effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	e := el.Value.(*entry[V])
	if c.expiredLocked(e, c.now()) {
		c.removeLocked(el)
		c.expirations.Add(1)
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key. Overwriting refreshes the entry's age but
// keeps its position in eviction order.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.insertedAt = now
		return
	}
	if len(c.items) >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest)
			c.evictions.Add(1)
		}
	}
	c.items[key] = c.order.PushBack(&entry[V]{key: key, value: value, insertedAt: now})
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
	c.order.Init()
}

// Cleanup removes all expired entries and reports how many were dropped.
func (c *Cache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if c.expiredLocked(el.Value.(*entry[V]), now) {
			c.removeLocked(el)
			removed++
		}
		el = next
	}
	c.expirations.Add(uint64(removed))
	return removed
}

// Sweep runs Cleanup every interval until ctx is done.
func (c *Cache[V]) Sweep(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the configured maximum entry count.
func (c *Cache[V]) Capacity() int { return c.capacity }

// TTL returns the configured entry lifetime.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries     int    `json:"entries"`
	Capacity    int    `json:"capacity"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// Stats returns a snapshot of the entry count and lifetime counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Entries:     c.Len(),
		Capacity:    c.capacity,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
	}
}

func (c *Cache[V]) expiredLocked(e *entry[V], now time.Time) bool {
	return now.Sub(e.insertedAt) > c.ttl
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	e := c.order.Remove(el).(*entry[V])
	delete(c.items, e.key)
}

// Package cache stores successful replies keyed by normalized message text and
// keeps a per-session request history for analytics.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/keywords"
)

const (
	// DefaultMaxSize bounds the number of cached replies.
	DefaultMaxSize = 1000
	// DefaultTTL is how long a cached reply stays valid.
	DefaultTTL = time.Hour
)

// Lookup is the request context that is part of the cache key
type Lookup struct {
	Location string
	Category internal.Category
}

// Key builds the composite cache key. Requests with the same normalized text,
// location and category share an entry.
func Key(message string, l Lookup) string {
	return strings.Join([]string{keywords.Normalize(message), l.Location, string(l.Category)}, "|")
}

type entry struct {
	reply    internal.Reply
	storedAt time.Time
	seq      uint64
}

// ResponseCache is a TTL cache of successful replies. It is safe for
// concurrent use.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	seq     uint64
}

// Option configures a ResponseCache
type Option func(*ResponseCache)

// WithMaxSize bounds the number of entries
func WithMaxSize(n int) Option {
	return func(c *ResponseCache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTTL sets the entry lifetime
func WithTTL(d time.Duration) Option {
	return func(c *ResponseCache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty response cache
func New(opts ...Option) *ResponseCache {
	c := &ResponseCache{
		entries: make(map[string]*entry),
		maxSize: DefaultMaxSize,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached reply marked with cache info. Expired entries are
// removed on access.
func (c *ResponseCache) Get(message string, l Lookup) (internal.Reply, bool) {
	key := Key(message, l)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.now().Sub(e.storedAt) < c.ttl {
		internal.LogDebug("Cache HIT for: %s", internal.Preview(message, 50))
		return e.reply.WithCacheInfo(e.storedAt), true
	}
	if ok {
		delete(c.entries, key)
	}
	internal.LogDebug("Cache MISS for: %s", internal.Preview(message, 50))
	return internal.Reply{}, false
}

// Put stores a successful reply. Failed replies are never cached.
// It reports whether the reply was stored.
func (c *ResponseCache) Put(message string, l Lookup, reply internal.Reply) bool {
	if !reply.Success {
		return false
	}
	key := Key(message, l)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[key] = &entry{
		reply:    reply,
		storedAt: c.now(),
		seq:      c.seq,
	}
	if len(c.entries) > c.maxSize {
		c.evictOldest()
	}
	internal.LogDebug("Cached response for: %s", internal.Preview(message, 50))
	return true
}

// evictOldest drops about a tenth of the cache, oldest first, and always
// enough to bring the size under the limit. Caller holds mu.
func (c *ResponseCache) evictOldest() {
	n := c.maxSize / 10
	if over := len(c.entries) - c.maxSize + 1; over > n {
		n = over
	}

	type aged struct {
		key      string
		storedAt time.Time
		seq      uint64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.storedAt, e.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].storedAt.Equal(all[j].storedAt) {
			return all[i].seq < all[j].seq
		}
		return all[i].storedAt.Before(all[j].storedAt)
	})

	if n > len(all) {
		n = len(all)
	}
	for _, a := range all[:n] {
		delete(c.entries, a.key)
	}
	internal.LogInfo("Evicted %d oldest cache entries", n)
}

// Clear removes every entry when pattern is empty, otherwise only entries
// whose key contains the lowercased pattern. It returns how many were removed.
func (c *ResponseCache) Clear(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "" {
		n := len(c.entries)
		c.entries = make(map[string]*entry)
		internal.LogInfo("Cleared entire cache (%d entries)", n)
		return n
	}

	needle := keywords.Normalize(pattern)
	cleared := 0
	for k := range c.entries {
		if strings.Contains(k, needle) {
			delete(c.entries, k)
			cleared++
		}
	}
	internal.LogInfo("Cleared %d cache entries matching: %s", cleared, pattern)
	return cleared
}

// CleanupExpired removes entries older than the TTL
func (c *ResponseCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached replies
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// MaxSize returns the configured size limit
func (c *ResponseCache) MaxSize() int {
	return c.maxSize
}

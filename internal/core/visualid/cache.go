// Package visualid caches visual-ID format/uniqueness checks. The check
// runs against the server on every form edit, so identical requests inside
// a short window are answered from cache and concurrent identical requests
// collapse into a single remote call.
package visualid

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Checker validates a candidate visual ID against an outbreak mask.
type Checker interface {
	CheckVisualID(ctx context.Context, outbreakID, mask, value string) (bool, error)
}

const DefaultTTL = 5 * time.Second

// Cache decorates a Checker with a per-key TTL cache. Keys resolve
// independently; failures are returned to the caller and never cached.
type Cache struct {
	checker Checker
	ttl     time.Duration
	group   singleflight.Group

	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time
}

type entry struct {
	valid   bool
	expires time.Time
}

func NewCache(checker Checker, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		checker: checker,
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Cache) CheckVisualID(ctx context.Context, outbreakID, mask, value string) (bool, error) {
	key := outbreakID + "\x00" + mask + "\x00" + value

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expires) {
			c.mu.Unlock()
			return e.valid, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		valid, err := c.checker.CheckVisualID(ctx, outbreakID, mask, value)
		if err != nil {
			return false, err
		}
		c.mu.Lock()
		c.entries[key] = entry{valid: valid, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return valid, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

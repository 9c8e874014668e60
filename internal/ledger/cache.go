package ledger

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how stale a product listing may be when no local
// mutation has occurred.
const DefaultCacheTTL = 30 * time.Second

// productCache holds a single snapshot of the product list. The snapshot is
// replaced wholesale; the backing sheet stays the system of record and write
// decisions never read from here.
type productCache struct {
	mu       sync.RWMutex
	products []Product
	setAt    time.Time
	ttl      time.Duration
	now      func() time.Time
}

func newProductCache(ttl time.Duration, now func() time.Time) *productCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &productCache{ttl: ttl, now: now}
}

// Get returns the cached snapshot if one is present and inside the TTL.
func (c *productCache) Get() ([]Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.products == nil || c.now().Sub(c.setAt) >= c.ttl {
		return nil, false
	}
	return c.products, true
}

// Set replaces the snapshot and restarts the TTL window.
func (c *productCache) Set(products []Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.setAt = c.now()
}

// Invalidate drops the snapshot. Every mutation calls this before returning.
func (c *productCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.setAt = time.Time{}
}

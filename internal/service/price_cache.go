package service

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PriceCache holds the last live quote for a short time. A zero ttl disables it.
type PriceCache struct {
	mu       sync.RWMutex
	price    decimal.Decimal
	cached   bool
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	return &PriceCache{ttl: ttl, now: time.Now}
}

func (c *PriceCache) Get() (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ttl <= 0 || !c.cached || c.now().Sub(c.cachedAt) > c.ttl {
		return decimal.Zero, false
	}
	return c.price, true
}

func (c *PriceCache) Set(price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.price = price
	c.cached = true
	c.cachedAt = c.now()
}

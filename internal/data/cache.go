package data

import (
	"sync"
	"time"
)

type cacheEntry struct {
	prices    []float64
	expiresAt time.Time
}

// PriceCache keeps fetched price series in memory for a fixed TTL.
// A nil *PriceCache is valid and caches nothing.
type PriceCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewPriceCache starts a cache whose entries live for ttl. Call Close to stop
// the background cleanup.
func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &PriceCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go c.cleanup(cleanupInterval(ttl))
	return c
}

// Get returns a copy of the cached series if present and not expired.
func (c *PriceCache) Get(key string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return append([]float64(nil), entry.prices...), true
}

func (c *PriceCache) Set(key string, prices []float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry{
		prices:    append([]float64(nil), prices...),
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *PriceCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *PriceCache) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

func (c *PriceCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.store {
				if now.After(entry.expiresAt) {
					delete(c.store, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

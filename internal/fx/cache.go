package fx

import (
	"context"
	"sort"
	"sync"
)

// RateTable holds one day's conversion rates from a single base currency,
// keyed by lowercase target currency code.
type RateTable map[string]float64

// Cache stores whole-day rate tables keyed by (day, base currency). Writes
// replace the entire table for a key; concurrent same-key writes are
// last-write-wins, which is acceptable for read-mostly historical data.
type Cache interface {
	// Get returns the cached table for the day and base currency, or nil
	// when there is no entry.
	Get(ctx context.Context, day, currency string) (RateTable, error)
	// Set upserts the whole table for the day and base currency.
	Set(ctx context.Context, day, currency string, table RateTable) error
	// Dates returns every cached day for the base currency in ascending
	// order.
	Dates(ctx context.Context, currency string) ([]string, error)
}

// MemoryCache is the in-process Cache used by tests and cache-free
// deployments. There is no eviction: historical rate tables are small and
// read-mostly.
type MemoryCache struct {
	mu     sync.RWMutex
	tables map[string]map[string]RateTable // currency -> day -> table
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tables: make(map[string]map[string]RateTable)}
}

func (c *MemoryCache) Get(_ context.Context, day, currency string) (RateTable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables[currency][day], nil
}

func (c *MemoryCache) Set(_ context.Context, day, currency string, table RateTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	days, ok := c.tables[currency]
	if !ok {
		days = make(map[string]RateTable)
		c.tables[currency] = days
	}
	days[day] = table
	return nil
}

func (c *MemoryCache) Dates(_ context.Context, currency string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	days := make([]string, 0, len(c.tables[currency]))
	for day := range c.tables[currency] {
		days = append(days, day)
	}
	sort.Strings(days)
	return days, nil
}

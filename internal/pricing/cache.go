// Package pricing resolves market prices through a three-tier cache:
// memory (in-process map or Redis), the persistent prices table, and the
// remote provider. Each tier is checked in order and the first hit
// short-circuits. Negative results are never cached.
package pricing

import (
	"time"

	"github.com/mswatii/cs2-vault/internal/logger"
	"github.com/mswatii/cs2-vault/internal/models"
)

var priceLogger = logger.WithContext("pricing")

// PersistentStore is the second tier, backed by the prices table.
type PersistentStore interface {
	GetPriceRecord(marketHashName string) (*models.PriceRecord, error)
	UpsertPrice(marketHashName string, price float64) error
	BulkUpsertPrices(prices map[string]float64) (int, error)
}

// RemoteProvider is the third tier, the external price API.
type RemoteProvider interface {
	SearchPrice(marketHashName string) (float64, error)
	FetchAllPrices() (map[string]float64, error)
}

// PriceResult is a resolved price. Stale records are returned, not hidden:
// a two-hour-old price under a one-hour window comes back with IsStale set.
type PriceResult struct {
	Price   float64 `json:"price"`
	IsStale bool    `json:"isStale"`
	Source  string  `json:"source"` // memory, store or provider
}

// Cache is the three-tier price resolver. The cache key is always the
// market hash name; currency conversion is a display concern handled by the
// caller and never qualifies the key.
type Cache struct {
	memory     MemoryTier
	store      PersistentStore
	provider   RemoteProvider
	staleAfter time.Duration
	now        func() time.Time
}

// NewCache wires the three tiers together. staleAfter is the persistent-tier
// staleness window; now is injectable for tests.
func NewCache(memory MemoryTier, store PersistentStore, provider RemoteProvider, staleAfter time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		memory:     memory,
		store:      store,
		provider:   provider,
		staleAfter: staleAfter,
		now:        now,
	}
}

// GetPrice resolves a price for one name. Resolution order: fresh memory
// entry, fresh persistent row (refreshing memory), remote provider (writing
// through both lower tiers). When the provider fails but a stale persistent
// row exists, the stale price is returned flagged rather than dropped.
// Returns nil when the price is unknown everywhere.
func (c *Cache) GetPrice(marketHashName string) (*PriceResult, error) {
	if price, ok := c.memory.Get(marketHashName); ok {
		return &PriceResult{Price: price, Source: "memory"}, nil
	}

	record, err := c.store.GetPriceRecord(marketHashName)
	if err != nil {
		return nil, err
	}
	if record != nil && !record.IsStale(c.now(), c.staleAfter) {
		c.memory.Set(marketHashName, record.Price)
		return &PriceResult{Price: record.Price, Source: "store"}, nil
	}

	price, err := c.provider.SearchPrice(marketHashName)
	if err != nil {
		priceLogger.WithError(err).Debugf("provider lookup failed for %s", marketHashName)
		if record != nil {
			return &PriceResult{Price: record.Price, IsStale: true, Source: "store"}, nil
		}
		// Unknown, and not cached as such.
		return nil, nil
	}

	if err := c.store.UpsertPrice(marketHashName, price); err != nil {
		// The caller still gets the price; only the cache write failed.
		priceLogger.WithError(err).Warnf("failed to persist price for %s", marketHashName)
	}
	c.memory.Set(marketHashName, price)

	return &PriceResult{Price: price, Source: "provider"}, nil
}

// SyncAll pulls the provider's full catalog and writes every price to the
// persistent tier in batches. Returns how many rows were written; a mid-sync
// failure leaves earlier batches in place.
func (c *Cache) SyncAll() (int, error) {
	prices, err := c.provider.FetchAllPrices()
	if err != nil {
		return 0, err
	}

	written, err := c.store.BulkUpsertPrices(prices)
	if err != nil {
		return written, err
	}

	priceLogger.Infof("price sync complete: %d prices written", written)
	return written, nil
}

// StaleAfter exposes the configured staleness window for stats reporting.
func (c *Cache) StaleAfter() time.Duration {
	return c.staleAfter
}

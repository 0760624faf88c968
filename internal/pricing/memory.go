package pricing

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// memoryTTL is how long a price stays valid in the first-tier cache.
const memoryTTL = 5 * time.Minute

// MemoryTier is the first cache tier. Implementations must be safe for
// concurrent use; last-write-wins on concurrent sets is acceptable since
// prices are advisory.
type MemoryTier interface {
	Get(marketHashName string) (float64, bool)
	Set(marketHashName string, price float64)
}

// mapTier is the in-process tier: one shared map per process, entries expire
// by timestamp. Not shared across horizontally scaled instances.
type mapTier struct {
	mu      sync.RWMutex
	entries map[string]mapEntry
	ttl     time.Duration
	now     func() time.Time
}

type mapEntry struct {
	price     float64
	fetchedAt time.Time
}

// NewMapTier builds the in-process memory tier. now is injectable for tests.
func NewMapTier(ttl time.Duration, now func() time.Time) MemoryTier {
	if now == nil {
		now = time.Now
	}
	return &mapTier{
		entries: make(map[string]mapEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (t *mapTier) Get(marketHashName string) (float64, bool) {
	t.mu.RLock()
	entry, ok := t.entries[marketHashName]
	t.mu.RUnlock()

	if !ok || t.now().Sub(entry.fetchedAt) >= t.ttl {
		return 0, false
	}
	return entry.price, true
}

func (t *mapTier) Set(marketHashName string, price float64) {
	t.mu.Lock()
	t.entries[marketHashName] = mapEntry{price: price, fetchedAt: t.now()}
	t.mu.Unlock()
}

// redisTier backs the memory tier with a shared Redis instance so multiple
// server replicas see the same first-tier cache. Expiry is delegated to
// Redis TTLs.
type redisTier struct {
	client *redis.Client
	ttl    time.Duration
}

const redisPriceKeyPrefix = "price:"

// NewRedisTier builds a Redis-backed memory tier.
func NewRedisTier(client *redis.Client, ttl time.Duration) MemoryTier {
	return &redisTier{client: client, ttl: ttl}
}

func (t *redisTier) Get(marketHashName string) (float64, bool) {
	raw, err := t.client.Get(context.Background(), redisPriceKeyPrefix+marketHashName).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			priceLogger.WithError(err).Debug("redis get failed")
		}
		return 0, false
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func (t *redisTier) Set(marketHashName string, price float64) {
	err := t.client.Set(context.Background(), redisPriceKeyPrefix+marketHashName,
		strconv.FormatFloat(price, 'f', -1, 64), t.ttl).Err()
	if err != nil {
		// Cache writes are best-effort; the persistent tier still has the row.
		priceLogger.WithError(err).Debug("redis set failed")
	}
}

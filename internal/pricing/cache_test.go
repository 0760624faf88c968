package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/mswatii/cs2-vault/internal/models"
)

type fakeStore struct {
	records map[string]models.PriceRecord
	upserts map[string]float64
	bulk    map[string]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]models.PriceRecord),
		upserts: make(map[string]float64),
	}
}

func (s *fakeStore) GetPriceRecord(name string) (*models.PriceRecord, error) {
	if record, ok := s.records[name]; ok {
		return &record, nil
	}
	return nil, nil
}

func (s *fakeStore) UpsertPrice(name string, price float64) error {
	s.upserts[name] = price
	s.records[name] = models.PriceRecord{MarketHashName: name, Price: price, UpdatedAt: time.Now()}
	return nil
}

func (s *fakeStore) BulkUpsertPrices(prices map[string]float64) (int, error) {
	s.bulk = prices
	return len(prices), nil
}

type fakeProvider struct {
	prices  map[string]float64
	catalog map[string]float64
	err     error
	calls   int
}

func (p *fakeProvider) SearchPrice(name string) (float64, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	if price, ok := p.prices[name]; ok {
		return price, nil
	}
	return 0, ErrNoExactMatch
}

func (p *fakeProvider) FetchAllPrices() (map[string]float64, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.catalog, nil
}

const testItem = "AK-47 | Redline (Field-Tested)"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestGetPrice_MemoryHit(t *testing.T) {
	now := time.Now()
	memory := NewMapTier(memoryTTL, fixedClock(now))
	memory.Set(testItem, 120.5)

	provider := &fakeProvider{}
	cache := NewCache(memory, newFakeStore(), provider, time.Hour, fixedClock(now))

	result, err := cache.GetPrice(testItem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Price != 120.5 || result.Source != "memory" {
		t.Errorf("got %+v, want price 120.5 from memory", result)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times on a memory hit", provider.calls)
	}
}

func TestGetPrice_StoreHitRefreshesMemory(t *testing.T) {
	now := time.Now()
	memory := NewMapTier(memoryTTL, fixedClock(now))
	store := newFakeStore()
	store.records[testItem] = models.PriceRecord{
		MarketHashName: testItem,
		Price:          99.0,
		UpdatedAt:      now.Add(-30 * time.Minute),
	}

	provider := &fakeProvider{}
	cache := NewCache(memory, store, provider, time.Hour, fixedClock(now))

	result, err := cache.GetPrice(testItem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Price != 99.0 || result.IsStale || result.Source != "store" {
		t.Errorf("got %+v, want fresh 99.0 from store", result)
	}
	if price, ok := memory.Get(testItem); !ok || price != 99.0 {
		t.Error("store hit should refresh the memory tier")
	}
	if provider.calls != 0 {
		t.Error("provider should not be called on a fresh store hit")
	}
}

func TestGetPrice_RemoteWritesThrough(t *testing.T) {
	now := time.Now()
	memory := NewMapTier(memoryTTL, fixedClock(now))
	store := newFakeStore()
	provider := &fakeProvider{prices: map[string]float64{testItem: 150.0}}
	cache := NewCache(memory, store, provider, time.Hour, fixedClock(now))

	result, err := cache.GetPrice(testItem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Price != 150.0 || result.Source != "provider" {
		t.Errorf("got %+v, want 150.0 from provider", result)
	}
	if store.upserts[testItem] != 150.0 {
		t.Error("remote result should be written to the persistent tier")
	}
	if price, ok := memory.Get(testItem); !ok || price != 150.0 {
		t.Error("remote result should be written to the memory tier")
	}
}

func TestGetPrice_StaleRecordStillReturned(t *testing.T) {
	// A two-hour-old record under a one-hour window comes back flagged
	// stale when the provider is down, never dropped.
	now := time.Now()
	store := newFakeStore()
	store.records[testItem] = models.PriceRecord{
		MarketHashName: testItem,
		Price:          80.0,
		UpdatedAt:      now.Add(-2 * time.Hour),
	}
	provider := &fakeProvider{err: ErrProviderUnavailable}
	cache := NewCache(NewMapTier(memoryTTL, fixedClock(now)), store, provider, time.Hour, fixedClock(now))

	result, err := cache.GetPrice(testItem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("stale record must still be returned")
	}
	if result.Price != 80.0 || !result.IsStale {
		t.Errorf("got %+v, want stale 80.0", result)
	}
}

func TestGetPrice_UnknownNotCached(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	provider := &fakeProvider{} // returns ErrNoExactMatch for everything
	cache := NewCache(NewMapTier(memoryTTL, fixedClock(now)), store, provider, time.Hour, fixedClock(now))

	result, err := cache.GetPrice("Nonexistent Item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil for unknown item, got %+v", result)
	}
	if len(store.upserts) != 0 {
		t.Error("negative results must not be cached")
	}
}

func TestSyncAll(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{catalog: map[string]float64{
		testItem:                          150.0,
		"AWP | Dragon Lore (Factory New)": 60000.0,
	}}
	cache := NewCache(NewMapTier(memoryTTL, nil), store, provider, time.Hour, nil)

	written, err := cache.SyncAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}
	if store.bulk[testItem] != 150.0 {
		t.Error("sync should bulk-write provider prices")
	}
}

func TestSyncAll_ProviderDown(t *testing.T) {
	cache := NewCache(NewMapTier(memoryTTL, nil), newFakeStore(),
		&fakeProvider{err: ErrProviderUnavailable}, time.Hour, nil)

	if _, err := cache.SyncAll(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestMapTierExpiry(t *testing.T) {
	current := time.Now()
	tier := NewMapTier(5*time.Minute, func() time.Time { return current })

	tier.Set(testItem, 42.0)
	if _, ok := tier.Get(testItem); !ok {
		t.Fatal("fresh entry should hit")
	}

	current = current.Add(5*time.Minute + time.Second)
	if _, ok := tier.Get(testItem); ok {
		t.Error("expired entry should miss")
	}
}

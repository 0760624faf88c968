// Package floatsvc resolves wear floats for catalog items through an ordered
// chain of lookup providers, batched and rate-limited. Float failures are
// always soft: an unresolvable item keeps a null float and the batch moves on.
package floatsvc

import (
	"sync"
	"time"

	"github.com/mswatii/cs2-vault/internal/classify"
	"github.com/mswatii/cs2-vault/internal/logger"
	"github.com/mswatii/cs2-vault/internal/models"
)

const (
	// enrichBatchSize lookups run concurrently, then the loop sleeps
	// interBatchDelay before the next batch. A crude limiter, but it keeps
	// the providers from seeing bursts.
	enrichBatchSize = 5
	interBatchDelay = 1 * time.Second

	// catchUpCap bounds one bulk catch-up pass over the catalog.
	catchUpCap = 50
)

// Categories that never carry a wear value and are skipped by catch-up.
var floatExcludedCategories = []string{classify.CategoryAgent, classify.CategoryOther}

var floatLogger = logger.WithContext("floatsvc")

// Store is the persistence surface the service writes resolved floats to.
type Store interface {
	UpdateItemFloat(assetID string, floatValue float64, paintSeed *int, condition string) error
	ItemsMissingFloat(limit int, excludedCategories []string) ([]models.CatalogItem, error)
	CountItemsMissingFloat(excludedCategories []string) (int, error)
}

// Service runs float enrichment.
type Service struct {
	providers []Provider
	store     Store

	batchSize int
	delay     time.Duration
}

// NewService builds a service with the default provider chain.
func NewService(store Store, primaryAPIKey string) *Service {
	return &Service{
		providers: defaultProviders(primaryAPIKey),
		store:     store,
		batchSize: enrichBatchSize,
		delay:     interBatchDelay,
	}
}

// Resolve runs one inspect link through the provider chain and returns the
// first usable result. Returns nil when every provider fails; that is an
// unknown float, not an error.
func (s *Service) Resolve(inspectLink string) *FloatInfo {
	for _, provider := range s.providers {
		info, err := provider.Lookup(inspectLink)
		if err != nil {
			floatLogger.WithError(err).Debugf("provider %s failed", provider.Name())
			continue
		}
		return info
	}
	return nil
}

// EnrichItems resolves floats for every item that has an inspect link,
// mutating the slice in place. Batches run strictly sequentially with the
// inter-batch delay between them; lookups within a batch are concurrent.
// Each resolved float is also persisted fire-and-forget, so the caller gets
// enriched items even if a write fails. Returns how many items were resolved.
func (s *Service) EnrichItems(items []models.CatalogItem) int {
	var candidates []*models.CatalogItem
	for i := range items {
		if items[i].InspectLink != "" && items[i].FloatValue == nil {
			candidates = append(candidates, &items[i])
		}
	}

	resolved := 0
	for start := 0; start < len(candidates); start += s.batchSize {
		end := start + s.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		resolved += s.enrichBatch(candidates[start:end])

		if end < len(candidates) {
			time.Sleep(s.delay)
		}
	}

	floatLogger.Infof("enrichment finished: %d/%d items resolved", resolved, len(candidates))
	return resolved
}

// enrichBatch runs one batch of concurrent lookups. Each item is touched by
// exactly one goroutine, so writes to the shared slice never collide.
func (s *Service) enrichBatch(batch []*models.CatalogItem) int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	resolved := 0

	for _, item := range batch {
		wg.Add(1)
		go func(item *models.CatalogItem) {
			defer wg.Done()

			info := s.Resolve(item.InspectLink)
			if info == nil {
				return
			}

			item.FloatValue = &info.FloatValue
			item.PaintSeed = info.PaintSeed
			item.ConditionName = models.ConditionFromFloat(info.FloatValue)

			mu.Lock()
			resolved++
			mu.Unlock()

			s.persistAsync(item.AssetID, info)
		}(item)
	}
	wg.Wait()

	return resolved
}

// persistAsync writes a resolved float back to the catalog without blocking
// the enrichment loop. The write is best-effort: the in-memory item already
// carries the float, a failed row update only costs a later catch-up pass.
func (s *Service) persistAsync(assetID string, info *FloatInfo) {
	go func() {
		condition := models.ConditionFromFloat(info.FloatValue)
		if err := s.store.UpdateItemFloat(assetID, info.FloatValue, info.PaintSeed, condition); err != nil {
			floatLogger.WithError(err).Warnf("failed to persist float for asset %s", assetID)
		}
	}()
}

// CatchUpResult reports one bulk catch-up pass.
type CatchUpResult struct {
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}

// CatchUp scans the catalog for persisted items that are eligible for a
// float but don't have one, and processes up to the fixed cap through the
// same provider chain and batch pacing. Writes here are awaited, not
// fire-and-forget: the whole point of the pass is the persisted row.
func (s *Service) CatchUp() (*CatchUpResult, error) {
	items, err := s.store.ItemsMissingFloat(catchUpCap, floatExcludedCategories)
	if err != nil {
		return nil, err
	}

	result := &CatchUpResult{}
	for start := 0; start < len(items); start += s.batchSize {
		end := start + s.batchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(item models.CatalogItem) {
				defer wg.Done()

				info := s.Resolve(item.InspectLink)
				if info == nil {
					mu.Lock()
					result.Failed++
					mu.Unlock()
					return
				}

				condition := models.ConditionFromFloat(info.FloatValue)
				if err := s.store.UpdateItemFloat(item.AssetID, info.FloatValue, info.PaintSeed, condition); err != nil {
					floatLogger.WithError(err).Warnf("failed to persist float for asset %s", item.AssetID)
					mu.Lock()
					result.Failed++
					mu.Unlock()
					return
				}

				mu.Lock()
				result.Updated++
				mu.Unlock()
			}(items[i])
		}
		wg.Wait()

		if end < len(items) {
			time.Sleep(s.delay)
		}
	}

	remaining, err := s.store.CountItemsMissingFloat(floatExcludedCategories)
	if err != nil {
		return nil, err
	}
	result.Remaining = remaining

	return result, nil
}

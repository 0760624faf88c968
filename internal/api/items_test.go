package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mswatii/cs2-vault/internal/database"
	"github.com/mswatii/cs2-vault/internal/floatsvc"
	"github.com/mswatii/cs2-vault/internal/models"
	"github.com/mswatii/cs2-vault/internal/pricing"
	"github.com/valyala/fasthttp"
)

type fakeCatalogStore struct {
	upserts     []models.CatalogItem
	statsCutoff time.Time
}

func (s *fakeCatalogStore) UpsertItem(item *models.CatalogItem) (bool, error) {
	s.upserts = append(s.upserts, *item)
	return true, nil
}

func (s *fakeCatalogStore) ReplaceItemStickers(string, []models.StickerEntry) error { return nil }

func (s *fakeCatalogStore) UpdateItemFloat(string, float64, *int, string) error { return nil }

func (s *fakeCatalogStore) ListItems(database.ItemFilter) (*database.ItemPage, error) {
	return &database.ItemPage{}, nil
}

func (s *fakeCatalogStore) GetCatalogStats() (*database.CatalogStats, error) {
	return &database.CatalogStats{}, nil
}

func (s *fakeCatalogStore) DistinctStickers() ([]models.StickerCatalogEntry, error) {
	return nil, nil
}

func (s *fakeCatalogStore) DistinctCollections() ([]string, error) { return nil, nil }

func (s *fakeCatalogStore) GetPriceRecords([]string) (map[string]models.PriceRecord, error) {
	return nil, nil
}

func (s *fakeCatalogStore) GetPriceStats(cutoff time.Time) (*database.PriceStats, error) {
	s.statsCutoff = cutoff
	return &database.PriceStats{}, nil
}

type fakeFloatService struct {
	enriched chan []models.CatalogItem
}

func (f *fakeFloatService) Resolve(string) *floatsvc.FloatInfo { return nil }

func (f *fakeFloatService) EnrichItems(items []models.CatalogItem) int {
	f.enriched <- items
	return len(items)
}

func (f *fakeFloatService) CatchUp() (*floatsvc.CatchUpResult, error) {
	return &floatsvc.CatchUpResult{}, nil
}

func postCtx(t *testing.T, payload interface{}) *fasthttp.RequestCtx {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBody(body)
	return ctx
}

func TestHandleSaveItems_TriggersEnrichment(t *testing.T) {
	store := &fakeCatalogStore{}
	floats := &fakeFloatService{enriched: make(chan []models.CatalogItem, 1)}
	h := &Handler{db: store, floats: floats}

	ctx := postCtx(t, itemsActionRequest{
		Action: "save",
		Items: []saveItemWire{
			{
				ID:             "42",
				ClassID:        "2",
				InstanceID:     "3",
				Name:           "AK-47 | Redline (Field-Tested)",
				MarketHashName: "AK-47 | Redline (Field-Tested)",
				InspectLink:    "steam://rungame/730/+csgo_econ_action_preview%20S1A42D7",
				Tradable:       true,
			},
			{ID: "43", Name: "Name Tag"},
		},
	})
	h.handleItemsAction(ctx, apiLogger.WithField("test", t.Name()))

	var resp saveItemsResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp.Saved != 1 || resp.Skipped != 1 {
		t.Errorf("got saved=%d skipped=%d, want 1/1", resp.Saved, resp.Skipped)
	}

	select {
	case items := <-floats.enriched:
		if len(items) != 1 || items[0].AssetID != "42" {
			t.Errorf("enrichment received %d items, want just asset 42", len(items))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("saving a floatless item must hand it to background enrichment")
	}
}

func TestHandleSaveItems_NoEnrichmentWhenFloatKnown(t *testing.T) {
	store := &fakeCatalogStore{}
	floats := &fakeFloatService{enriched: make(chan []models.CatalogItem, 1)}
	h := &Handler{db: store, floats: floats}

	floatValue := 0.23
	ctx := postCtx(t, itemsActionRequest{
		Action: "save",
		Items: []saveItemWire{
			{
				ID:             "42",
				Name:           "AK-47 | Redline (Field-Tested)",
				MarketHashName: "AK-47 | Redline (Field-Tested)",
				InspectLink:    "steam://rungame/730/+csgo_econ_action_preview%20S1A42D7",
				FloatValue:     &floatValue,
			},
		},
	})
	h.handleItemsAction(ctx, apiLogger.WithField("test", t.Name()))

	select {
	case <-floats.enriched:
		t.Error("items saved with a float must not be re-enriched")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandlePriceStats_CutoffFromWindow(t *testing.T) {
	store := &fakeCatalogStore{}
	h := &Handler{
		db:     store,
		prices: pricing.NewCache(pricing.NewMapTier(time.Minute, nil), nil, nil, 72*time.Hour, nil),
	}

	ctx := &fasthttp.RequestCtx{}
	h.handlePriceStats(ctx, apiLogger.WithField("test", t.Name()))

	want := time.Now().Add(-72 * time.Hour)
	if diff := store.statsCutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("stats cutoff = %v, want about %v", store.statsCutoff, want)
	}
}

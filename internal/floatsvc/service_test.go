package floatsvc

import (
	"errors"
	"sync"
	"testing"

	"github.com/mswatii/cs2-vault/internal/models"
)

type scriptedProvider struct {
	label string
	info  *FloatInfo
	err   error
	calls int
}

func (p *scriptedProvider) Name() string { return p.label }

func (p *scriptedProvider) Lookup(inspectLink string) (*FloatInfo, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.info, nil
}

type recordingStore struct {
	mu      sync.Mutex
	floats  map[string]float64
	missing []models.CatalogItem
	count   int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{floats: make(map[string]float64)}
}

func (s *recordingStore) UpdateItemFloat(assetID string, floatValue float64, paintSeed *int, condition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats[assetID] = floatValue
	return nil
}

func (s *recordingStore) ItemsMissingFloat(limit int, excludedCategories []string) ([]models.CatalogItem, error) {
	if limit < len(s.missing) {
		return s.missing[:limit], nil
	}
	return s.missing, nil
}

func (s *recordingStore) CountItemsMissingFloat(excludedCategories []string) (int, error) {
	return s.count, nil
}

func testService(store Store, providers ...Provider) *Service {
	return &Service{
		providers: providers,
		store:     store,
		batchSize: enrichBatchSize,
		delay:     0, // no pacing in tests
	}
}

func TestResolve_FallsBackThroughChain(t *testing.T) {
	primary := &scriptedProvider{label: "primary", err: errors.New("rate limited")}
	secondary := &scriptedProvider{label: "secondary", info: &FloatInfo{FloatValue: 0.23}}
	svc := testService(newRecordingStore(), primary, secondary)

	info := svc.Resolve("steam://rungame/730/...S123A456D789")
	if info == nil || info.FloatValue != 0.23 {
		t.Fatalf("got %+v, want float 0.23 from secondary", info)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = primary %d, secondary %d; want 1 each", primary.calls, secondary.calls)
	}
}

func TestResolve_AllProvidersFail(t *testing.T) {
	svc := testService(newRecordingStore(),
		&scriptedProvider{label: "a", err: ErrLookupFailed},
		&scriptedProvider{label: "b", err: ErrLookupFailed})

	if info := svc.Resolve("link"); info != nil {
		t.Errorf("expected nil on total failure, got %+v", info)
	}
}

func TestEnrichItems(t *testing.T) {
	seed := 420
	provider := &scriptedProvider{label: "p", info: &FloatInfo{FloatValue: 0.23, PaintSeed: &seed}}
	svc := testService(newRecordingStore(), provider)

	existing := 0.01
	items := []models.CatalogItem{
		{AssetID: "1", InspectLink: "S1A1D1"},
		{AssetID: "2", InspectLink: ""}, // no link, skipped
		{AssetID: "3", InspectLink: "S3A3D3", FloatValue: &existing}, // already has a float
		{AssetID: "4", InspectLink: "S4A4D4"},
	}

	resolved := svc.EnrichItems(items)
	if resolved != 2 {
		t.Fatalf("resolved = %d, want 2", resolved)
	}
	if items[0].FloatValue == nil || *items[0].FloatValue != 0.23 {
		t.Error("item 1 should carry the resolved float")
	}
	if items[0].ConditionName != models.WearFieldTested {
		t.Errorf("condition = %q, want %q", items[0].ConditionName, models.WearFieldTested)
	}
	if items[0].PaintSeed == nil || *items[0].PaintSeed != 420 {
		t.Error("item 1 should carry the paint seed")
	}
	if items[1].FloatValue != nil {
		t.Error("item without an inspect link must be untouched")
	}
	if *items[2].FloatValue != 0.01 {
		t.Error("item with an existing float must keep it")
	}
}

func TestCatchUp(t *testing.T) {
	store := newRecordingStore()
	store.missing = []models.CatalogItem{
		{AssetID: "10", InspectLink: "S1A1D1"},
		{AssetID: "11", InspectLink: "S2A2D2"},
	}
	store.count = 7

	svc := testService(store, &scriptedProvider{label: "p", info: &FloatInfo{FloatValue: 0.05}})

	result, err := svc.CatchUp()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated != 2 || result.Failed != 0 {
		t.Errorf("got updated=%d failed=%d, want 2/0", result.Updated, result.Failed)
	}
	if result.Remaining != 7 {
		t.Errorf("remaining = %d, want 7", result.Remaining)
	}
	if store.floats["10"] != 0.05 || store.floats["11"] != 0.05 {
		t.Error("catch-up writes must be persisted before returning")
	}
}

func TestCatchUp_CountsFailures(t *testing.T) {
	store := newRecordingStore()
	store.missing = []models.CatalogItem{{AssetID: "10", InspectLink: "S1A1D1"}}

	svc := testService(store, &scriptedProvider{label: "p", err: ErrLookupFailed})

	result, err := svc.CatchUp()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated != 0 || result.Failed != 1 {
		t.Errorf("got updated=%d failed=%d, want 0/1", result.Updated, result.Failed)
	}
}

func TestValidateInspectLink(t *testing.T) {
	valid := "steam://rungame/730/76561202255233023/+csgo_econ_action_preview%20S76561198084749846A698323590D7935523998312483177"
	if err := ValidateInspectLink(valid); err != nil {
		t.Errorf("valid link rejected: %v", err)
	}
	if err := ValidateInspectLink("steam://rungame/730/S123"); !errors.Is(err, ErrInvalidInspectLink) {
		t.Error("link with fewer than three parameter segments must be rejected")
	}
}

package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

// MockStore is a testify mock of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadDaily(ctx context.Context) (DailyRecord, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(DailyRecord), args.Bool(1), args.Error(2)
}

func (m *MockStore) SaveDaily(ctx context.Context, rec DailyRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) LoadCampaign(ctx context.Context) (CampaignRecord, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(CampaignRecord), args.Bool(1), args.Error(2)
}

func (m *MockStore) SaveCampaign(ctx context.Context, rec CampaignRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

type recordingWatcher struct {
	calls []watchCall
}

type watchCall struct {
	total int
	force bool
}

func (w *recordingWatcher) StockChanged(_ context.Context, total int, force bool) {
	w.calls = append(w.calls, watchCall{total: total, force: force})
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func testCatalog(t *testing.T, lapisDaily int) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(370, false, []catalog.Category{
		{
			ID:         0,
			Name:       "Top",
			ManualBand: catalog.Band{Min: 82, Max: 100},
			Items: []catalog.Item{
				{ID: "labubu", Name: "Labubu", InitialDailyStock: 1, TotalCampaignStock: 3},
			},
		},
		{
			ID:         1,
			Name:       "Common",
			ManualBand: catalog.Band{Min: 0, Max: 81},
			Items: []catalog.Item{
				{ID: "lapis", Name: "Lapis", InitialDailyStock: lapisDaily, TotalCampaignStock: 5},
				{ID: "canetazero", Name: "Caneta", InitialDailyStock: 2, TotalCampaignStock: 0},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func newTestLedger(t *testing.T, store Store, clock *fakeClock) *Ledger {
	t.Helper()
	return NewLedger(store, WithClock(clock.Now), WithLocation(time.UTC))
}

func TestLedger_LoadFromDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, cat))

	assert.Equal(t, 1, l.RemainingForItem("labubu"))
	assert.Equal(t, 50, l.RemainingForItem("lapis"))
	assert.Equal(t, 53, l.TotalRemaining())
	assert.Equal(t, 5, l.CampaignRemainingForItem("lapis"))
	assert.Equal(t, 55, l.TotalRemainingForItem("lapis"))
	assert.Equal(t, 53+8, l.TotalRemainingAll())
	assert.Equal(t, "2026-03-01", l.Date())

	daily, found, err := store.LoadDaily(ctx)
	require.NoError(t, err)
	require.True(t, found, "rebuilt records are persisted")
	assert.Equal(t, "2026-03-01", daily.Date)
	assert.Equal(t, cat.Signature(), daily.ConfigurationSignature)

	campaign, found, err := store.LoadCampaign(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cat.Signature(), campaign.ConfigurationSignature)
}

func TestLedger_LoadNilCatalog(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	assert.ErrorIs(t, l.Load(context.Background(), nil), domain.ErrNoCatalog)
	assert.False(t, l.Loaded())
}

func TestLedger_DecrementToZero(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLedger(t, NewMemoryStore(), clock)
	require.NoError(t, l.Load(ctx, testCatalog(t, 7)))

	for i := 0; i < 7; i++ {
		assert.True(t, l.Decrement(ctx, "lapis"))
	}
	assert.Equal(t, 0, l.RemainingForItem("lapis"))

	for i := 0; i < 3; i++ {
		assert.False(t, l.Decrement(ctx, "lapis"))
	}
	assert.Equal(t, 0, l.RemainingForItem("lapis"))
	assert.Equal(t, 5, l.CampaignRemainingForItem("lapis"), "decrement never touches the campaign pool")

	assert.False(t, l.Decrement(ctx, "unknown"))
}

func TestLedger_RestoresSameDay(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	first := newTestLedger(t, store, clock)
	require.NoError(t, first.Load(ctx, cat))
	first.Decrement(ctx, "lapis")
	first.Decrement(ctx, "labubu")
	require.NoError(t, first.SetCampaignRemaining(ctx, "lapis", 2))

	clock.t = clock.t.Add(6 * time.Hour)
	second := newTestLedger(t, store, clock)
	require.NoError(t, second.Load(ctx, cat))

	assert.Equal(t, 49, second.RemainingForItem("lapis"))
	assert.Equal(t, 0, second.RemainingForItem("labubu"))
	assert.Equal(t, 2, second.CampaignRemainingForItem("lapis"))
}

func TestLedger_NewDayResetsDaily(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	first := newTestLedger(t, store, clock)
	require.NoError(t, first.Load(ctx, cat))
	for i := 0; i < 10; i++ {
		first.Decrement(ctx, "lapis")
	}
	require.NoError(t, first.SetCampaignRemaining(ctx, "lapis", 1))

	clock.t = clock.t.Add(2 * time.Hour)
	second := newTestLedger(t, store, clock)
	require.NoError(t, second.Load(ctx, cat))

	assert.Equal(t, 50, second.RemainingForItem("lapis"))
	assert.Equal(t, "2026-03-02", second.Date())
	assert.Equal(t, 1, second.CampaignRemainingForItem("lapis"), "campaign survives a new day")
}

func TestLedger_SignatureChangeInvalidatesBothRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	first := newTestLedger(t, store, clock)
	require.NoError(t, first.Load(ctx, testCatalog(t, 50)))
	first.Decrement(ctx, "lapis")
	require.NoError(t, first.SetCampaignRemaining(ctx, "lapis", 0))

	changed := testCatalog(t, 40)
	second := newTestLedger(t, store, clock)
	require.NoError(t, second.Load(ctx, changed))

	assert.Equal(t, 40, second.RemainingForItem("lapis"))
	assert.Equal(t, 5, second.CampaignRemainingForItem("lapis"))

	daily, _, _ := store.LoadDaily(ctx)
	assert.Equal(t, changed.Signature(), daily.ConfigurationSignature)
}

func TestLedger_RestoredDailyIsClamped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	require.NoError(t, store.SaveDaily(ctx, DailyRecord{
		Date:                   "2026-03-01",
		ConfigurationSignature: cat.Signature(),
		Items: []ItemRemaining{
			{ID: "lapis", Remaining: -4},
			{ID: "ghost", Remaining: 9},
		},
	}))

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, cat))
	assert.Equal(t, 0, l.RemainingForItem("lapis"))
	assert.Equal(t, 0, l.RemainingForItem("ghost"))
	assert.Equal(t, 1, l.RemainingForItem("labubu"), "items missing from the record keep their defaults")
}

func TestLedger_UnreadableRecordsAreRebuilt(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	store.On("LoadDaily", mock.Anything).Return(DailyRecord{}, false, errors.New("corrupt"))
	store.On("LoadCampaign", mock.Anything).Return(CampaignRecord{}, false, errors.New("corrupt"))
	store.On("SaveDaily", mock.Anything, mock.Anything).Return(nil)
	store.On("SaveCampaign", mock.Anything, mock.Anything).Return(nil)

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))

	assert.Equal(t, 50, l.RemainingForItem("lapis"))
	assert.False(t, l.Dirty())
	store.AssertNumberOfCalls(t, "SaveDaily", 1)
	store.AssertNumberOfCalls(t, "SaveCampaign", 1)
}

func TestLedger_TopUpToday(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := newTestLedger(t, NewMemoryStore(), clock)
	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))

	require.NoError(t, l.TopUpToday(ctx, "lapis", 10))
	assert.Equal(t, -5, l.CampaignRemainingForItem("lapis"))
	assert.Equal(t, 60, l.RemainingForItem("lapis"))
	assert.Equal(t, 55, l.TotalRemainingForItem("lapis"))

	assert.ErrorIs(t, l.TopUpToday(ctx, "lapis", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, l.TopUpToday(ctx, "lapis", -3), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, l.TopUpToday(ctx, "ghost", 1), domain.ErrItemNotFound)
	assert.Equal(t, 60, l.RemainingForItem("lapis"))
}

func TestLedger_SetTodayFromCampaign(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := newTestLedger(t, NewMemoryStore(), clock)
	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))

	require.NoError(t, l.SetTodayFromCampaign(ctx, "lapis", 20))
	assert.Equal(t, 20, l.RemainingForItem("lapis"))
	assert.Equal(t, 5, l.CampaignRemainingForItem("lapis"), "lowering does not refund the campaign")

	require.NoError(t, l.SetTodayFromCampaign(ctx, "lapis", 23))
	assert.Equal(t, 23, l.RemainingForItem("lapis"))
	assert.Equal(t, 2, l.CampaignRemainingForItem("lapis"))

	require.NoError(t, l.SetTodayFromCampaign(ctx, "lapis", -8))
	assert.Equal(t, 0, l.RemainingForItem("lapis"))

	assert.ErrorIs(t, l.SetTodayFromCampaign(ctx, "ghost", 1), domain.ErrItemNotFound)
	assert.ErrorIs(t, l.SetCampaignRemaining(ctx, "ghost", 1), domain.ErrItemNotFound)
}

func TestLedger_ForceResetAndRollover(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)}
	w := &recordingWatcher{}
	l := NewLedger(NewMemoryStore(), WithClock(clock.Now), WithLocation(time.UTC), WithWatcher(w))
	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))

	l.Decrement(ctx, "lapis")
	assert.False(t, l.Rollover(ctx), "same day")

	require.NoError(t, l.ForceResetToday(ctx))
	assert.Equal(t, 50, l.RemainingForItem("lapis"))
	assert.True(t, w.calls[len(w.calls)-1].force)

	l.Decrement(ctx, "lapis")
	clock.t = clock.t.Add(2 * time.Minute)
	assert.True(t, l.Rollover(ctx))
	assert.Equal(t, 50, l.RemainingForItem("lapis"))
	assert.Equal(t, "2026-03-02", l.Date())
	assert.False(t, w.calls[len(w.calls)-1].force)
}

func TestLedger_NotifiesWatcherWithDailyTotal(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	w := &recordingWatcher{}
	l := NewLedger(NewMemoryStore(), WithClock(clock.Now), WithLocation(time.UTC), WithWatcher(w))
	require.NoError(t, l.Load(ctx, testCatalog(t, 5)))

	l.Decrement(ctx, "lapis")
	require.NoError(t, l.TopUpToday(ctx, "labubu", 2))

	require.Len(t, w.calls, 3)
	assert.Equal(t, 8, w.calls[0].total)
	assert.Equal(t, 7, w.calls[1].total)
	assert.Equal(t, 9, w.calls[2].total)
}

func TestLedger_FailedWriteIsRetried(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	store.On("LoadDaily", mock.Anything).Return(DailyRecord{}, false, nil)
	store.On("LoadCampaign", mock.Anything).Return(CampaignRecord{}, false, nil)
	store.On("SaveCampaign", mock.Anything, mock.Anything).Return(nil)
	store.On("SaveDaily", mock.Anything, mock.Anything).Return(errors.New("disk full")).Times(2)
	store.On("SaveDaily", mock.Anything, mock.Anything).Return(nil)

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))
	assert.True(t, l.Dirty())

	assert.True(t, l.Decrement(ctx, "lapis"), "in-memory change survives a failed write")
	assert.Equal(t, 49, l.RemainingForItem("lapis"))
	assert.True(t, l.Dirty())

	require.NoError(t, l.SetCampaignRemaining(ctx, "lapis", 4))
	assert.False(t, l.Dirty(), "next mutation rewrites the dirty daily record")

	store.AssertNumberOfCalls(t, "SaveDaily", 3)
	last := store.Calls[len(store.Calls)-2]
	require.Equal(t, "SaveDaily", last.Method)
	rec := last.Arguments.Get(1).(DailyRecord)
	assert.Contains(t, rec.Items, ItemRemaining{ID: "lapis", Remaining: 49})
}

func TestLedger_ReloadSameCatalogKeepsUnsavedDecrement(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	stale := DailyRecord{
		Date:                   "2026-03-01",
		ConfigurationSignature: cat.Signature(),
		Items: []ItemRemaining{
			{ID: "labubu", Remaining: 1},
			{ID: "lapis", Remaining: 50},
			{ID: "canetazero", Remaining: 2},
		},
	}
	store.On("LoadDaily", mock.Anything).Return(stale, true, nil)
	store.On("LoadCampaign", mock.Anything).Return(CampaignRecord{}, false, nil)
	store.On("SaveCampaign", mock.Anything, mock.Anything).Return(nil)
	store.On("SaveDaily", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, cat))
	require.True(t, l.Decrement(ctx, "labubu"))
	require.True(t, l.Dirty())

	require.NoError(t, l.Load(ctx, cat))

	assert.Equal(t, 0, l.RemainingForItem("labubu"), "stale record must not bring the prize back")
	assert.True(t, l.Dirty())
	store.AssertNumberOfCalls(t, "LoadDaily", 1)
}

// flakyStore fails daily writes while failDaily is set
type flakyStore struct {
	*MemoryStore
	failDaily bool
}

func (s *flakyStore) SaveDaily(ctx context.Context, rec DailyRecord) error {
	if s.failDaily {
		return errors.New("disk full")
	}
	return s.MemoryStore.SaveDaily(ctx, rec)
}

func TestLedger_ReloadFlushesBeforeRestoring(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, cat))

	store.failDaily = true
	require.True(t, l.Decrement(ctx, "labubu"))
	require.True(t, l.Decrement(ctx, "lapis"))

	store.failDaily = false
	require.NoError(t, l.Load(ctx, cat))

	assert.Equal(t, 0, l.RemainingForItem("labubu"))
	assert.Equal(t, 49, l.RemainingForItem("lapis"))
	assert.False(t, l.Dirty())

	daily, found, err := store.LoadDaily(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, daily.Items, ItemRemaining{ID: "labubu", Remaining: 0})
}

func TestLedger_ReloadKeepingMemoryStillRollsOverDay(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)}
	cat := testCatalog(t, 50)

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, cat))

	store.failDaily = true
	require.True(t, l.Decrement(ctx, "labubu"))

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, l.Load(ctx, cat))

	assert.Equal(t, "2026-03-02", l.Date())
	assert.Equal(t, 1, l.RemainingForItem("labubu"), "a new day starts from defaults")
}

func TestLedger_Flush(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	store.On("LoadDaily", mock.Anything).Return(DailyRecord{}, false, nil)
	store.On("LoadCampaign", mock.Anything).Return(CampaignRecord{}, false, nil)
	store.On("SaveDaily", mock.Anything, mock.Anything).Return(nil)
	store.On("SaveCampaign", mock.Anything, mock.Anything).Return(errors.New("locked")).Once()
	store.On("SaveCampaign", mock.Anything, mock.Anything).Return(nil)

	l := newTestLedger(t, store, clock)
	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))
	assert.True(t, l.Dirty())

	require.NoError(t, l.Flush(ctx))
	assert.False(t, l.Dirty())
	require.NoError(t, l.Flush(ctx))
	store.AssertNumberOfCalls(t, "SaveCampaign", 2)
}

func TestLedger_Snapshot(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := newTestLedger(t, NewMemoryStore(), clock)
	assert.Nil(t, l.Snapshot())

	require.NoError(t, l.Load(ctx, testCatalog(t, 50)))
	snap := l.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, domain.ItemStock{
		ItemID:       "labubu",
		ItemName:     "Labubu",
		CategoryID:   0,
		CategoryName: "Top",
		Today:        1,
		Campaign:     3,
		Total:        4,
	}, snap[0])
	assert.Equal(t, "lapis", snap[1].ItemID)
	assert.Equal(t, "canetazero", snap[2].ItemID)
}

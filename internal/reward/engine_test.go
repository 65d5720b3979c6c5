package reward

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/stock"
)

// MockFetcher is a testify mock of catalog.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context) (*catalog.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Catalog), args.Error(1)
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(_ context.Context, e event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) ofType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func item(id string, daily, campaign int) catalog.Item {
	return catalog.Item{ID: id, Name: id, InitialDailyStock: daily, TotalCampaignStock: campaign}
}

// kioskCatalog is the two-tier catalog used across the engine tests
func kioskCatalog(t *testing.T, labubu, lapis, caneta int) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(370, false, []catalog.Category{
		{ID: 0, Name: "Top", ManualBand: catalog.Band{Min: 82, Max: 100}, Items: []catalog.Item{item("labubu", labubu, 10)}},
		{ID: 1, Name: "Common", ManualBand: catalog.Band{Min: 0, Max: 81}, Items: []catalog.Item{
			item("lapis", lapis, 5),
			item("canetazero", caneta, 20),
		}},
	})
	require.NoError(t, err)
	return cat
}

func newEngine(t *testing.T, cat *catalog.Catalog, opts ...Option) (*Engine, *recordingBus) {
	t.Helper()
	bus := &recordingBus{}
	opts = append([]Option{
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
		WithLocation(time.UTC),
	}, opts...)
	e := NewEngine(stock.NewMemoryStore(), bus, opts...)
	if cat != nil {
		require.NoError(t, e.LoadConfig(context.Background(), cat))
	}
	return e, bus
}

func TestEvaluate_TopBandThenFallsForward(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0))

	first := e.Evaluate(ctx, 370)
	require.False(t, first.Empty())
	assert.Equal(t, "labubu", first.ItemID)
	assert.Equal(t, 0, first.CategoryIndex)
	assert.InDelta(t, 100, first.Percent, 1e-9)
	assert.NotEmpty(t, first.Token)
	assert.False(t, first.Forced)

	require.NoError(t, e.Decrement(ctx, first))
	assert.Equal(t, 0, e.RemainingForItem("labubu"))

	second := e.Evaluate(ctx, 370)
	assert.Equal(t, "lapis", second.ItemID)
	assert.Equal(t, 1, second.CategoryIndex, "category reflects where the item was found")
	assert.Equal(t, "Common", second.CategoryName)
}

func TestEvaluate_ForcesTopPrizeWhenOnlyOneLeft(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 0, 20))

	assert.True(t, e.OnlyTopPrizeLeft(), "the ignored item does not count")

	res := e.Evaluate(ctx, 0)
	assert.Equal(t, "labubu", res.ItemID)
	assert.True(t, res.Forced)
	assert.Equal(t, ForcedPercent, res.Percent)
	assert.Equal(t, 0, res.Score)
}

func TestEvaluate_FallsBackToNearestBetterCategory(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.New(300, false, []catalog.Category{
		{ID: 10, Name: "Gold", ManualBand: catalog.Band{Min: 66, Max: 100}, Items: []catalog.Item{item("gold", 5, 0)}},
		{ID: 11, Name: "Silver", ManualBand: catalog.Band{Min: 33, Max: 66}, Items: []catalog.Item{item("silver", 5, 0)}},
		{ID: 12, Name: "Bronze", ManualBand: catalog.Band{Min: 0, Max: 33}, Items: []catalog.Item{item("bronze", 0, 0)}},
	})
	require.NoError(t, err)
	e, _ := newEngine(t, cat, WithTopPrizeItemID("gold"))

	res := e.Evaluate(ctx, 10)
	assert.Equal(t, "silver", res.ItemID)
	assert.Equal(t, 11, res.CategoryID)
}

func TestEvaluate_RandomDrawWithinStartCategory(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.New(100, false, []catalog.Category{
		{Name: "Top", ManualBand: catalog.Band{Min: 50, Max: 100}, Items: []catalog.Item{item("labubu", 1, 0)}},
		{Name: "Low", ManualBand: catalog.Band{Min: 0, Max: 50}, Items: []catalog.Item{
			item("a", 1, 0), item("canetazero", 9, 0), item("b", 0, 0), item("c", 1, 0),
		}},
	})
	require.NoError(t, err)

	low, _ := newEngine(t, cat, WithRandomSource(fixedSource(0)))
	assert.Equal(t, "a", low.Evaluate(ctx, 10).ItemID)

	high, _ := newEngine(t, cat, WithRandomSource(fixedSource(0.99)))
	assert.Equal(t, "c", high.Evaluate(ctx, 10).ItemID, "ignored and empty items are not in the pool")
}

func TestEvaluate_NothingEligible(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 0, 0, 20))

	res := e.Evaluate(ctx, 200)
	assert.True(t, res.Empty())
	assert.Empty(t, res.Token)
	assert.Equal(t, -1, res.CategoryIndex)
	assert.Equal(t, 0, e.Report().PendingReserved)

	g, err := e.Commit(ctx, res, domain.CauseGameOver)
	require.NoError(t, err, "committing an empty result is a no-op")
	assert.True(t, g.Result.Empty())
}

func TestEvaluate_NoCatalog(t *testing.T) {
	e, _ := newEngine(t, nil)
	assert.True(t, e.Evaluate(context.Background(), 100).Empty())
	_, ok := e.TryForceItem(context.Background(), "labubu")
	assert.False(t, ok)
	assert.ErrorIs(t, e.TopUpToday(context.Background(), "lapis", 1), domain.ErrNoCatalog)
	assert.ErrorIs(t, e.CheckHealth(context.Background()), domain.ErrNoCatalog)
}

func TestTryForceItem(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0))

	_, ok := e.TryForceItem(ctx, "canetazero")
	assert.False(t, ok, "no stock today")

	_, ok = e.TryForceItem(ctx, "ghost")
	assert.False(t, ok)

	res, ok := e.TryForceItem(ctx, "LAPIS")
	require.True(t, ok)
	assert.Equal(t, "lapis", res.ItemID)
	assert.Equal(t, 1, res.CategoryIndex)
	assert.True(t, res.Forced)
	assert.NotEmpty(t, res.Token)
}

func TestCommit_ExactlyOnce(t *testing.T) {
	ctx := context.Background()
	e, bus := newEngine(t, kioskCatalog(t, 1, 50, 0))

	res := e.Evaluate(ctx, 100)
	require.Equal(t, "lapis", res.ItemID)

	g, err := e.Commit(ctx, res, domain.CauseWin)
	require.NoError(t, err)
	assert.Equal(t, 50, g.StockBefore)
	assert.Equal(t, 49, g.StockAfter)
	assert.Equal(t, 50, g.TotalRemaining)
	assert.Equal(t, domain.CauseWin, g.Cause)

	_, err = e.Commit(ctx, res, domain.CauseWin)
	assert.ErrorIs(t, err, domain.ErrReservationConsumed)
	assert.Equal(t, 49, e.RemainingForItem("lapis"))

	granted := bus.ofType(event.RewardGranted)
	require.Len(t, granted, 1)
	p := granted[0].Payload.(event.RewardGrantedPayloadV1)
	assert.Equal(t, "lapis", p.ItemID)
	assert.Equal(t, domain.CauseWin, p.Cause)
	assert.Equal(t, 50, p.StockBefore)
	assert.Equal(t, 49, p.StockAfter)
	assert.Equal(t, 100, p.Score)
}

func TestCommit_RejectsUnknownAndReleasedTokens(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0))

	res := e.Evaluate(ctx, 100)
	assert.True(t, e.Release(ctx, res.Token))
	assert.False(t, e.Release(ctx, res.Token))
	assert.ErrorIs(t, e.Decrement(ctx, res), domain.ErrReservationUnknown)

	forged := res
	forged.Token = "not-a-token"
	assert.ErrorIs(t, e.Decrement(ctx, forged), domain.ErrReservationUnknown)

	other := e.Evaluate(ctx, 100)
	other.ItemID = "labubu"
	assert.ErrorIs(t, e.Decrement(ctx, other), domain.ErrReservationUnknown, "token is bound to its item")

	assert.Equal(t, 50, e.RemainingForItem("lapis"))
}

func TestCommit_ExpiredReservation(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0), WithReservationTTL(20*time.Millisecond))

	res := e.Evaluate(ctx, 100)
	time.Sleep(60 * time.Millisecond)
	assert.ErrorIs(t, e.Decrement(ctx, res), domain.ErrReservationUnknown)
}

func TestCommit_ReservationExpiresOnEngineClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0), WithClock(clock), WithReservationTTL(time.Hour))

	fresh := e.Evaluate(ctx, 100)
	stale := e.Evaluate(ctx, 100)

	mu.Lock()
	now = now.Add(30 * time.Minute)
	mu.Unlock()
	require.NoError(t, e.Decrement(ctx, fresh), "within the TTL")

	mu.Lock()
	now = now.Add(31 * time.Minute)
	mu.Unlock()
	assert.ErrorIs(t, e.Decrement(ctx, stale), domain.ErrReservationUnknown)
	assert.Equal(t, 49, e.RemainingForItem("lapis"))
	assert.False(t, e.Release(ctx, stale.Token), "an expired token is dropped")
}

func TestCommit_OutOfStockSinceEvaluation(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0))

	a, ok := e.TryForceItem(ctx, "labubu")
	require.True(t, ok)
	b, ok := e.TryForceItem(ctx, "labubu")
	require.True(t, ok)

	require.NoError(t, e.Decrement(ctx, a))
	assert.ErrorIs(t, e.Decrement(ctx, b), domain.ErrOutOfStock)
	assert.Equal(t, 0, e.RemainingForItem("labubu"))
}

func TestDecrementByItemID(t *testing.T) {
	ctx := context.Background()
	e, bus := newEngine(t, kioskCatalog(t, 1, 50, 0))

	assert.True(t, e.DecrementByItemID(ctx, "Labubu"))
	assert.False(t, e.DecrementByItemID(ctx, "labubu"))
	assert.False(t, e.DecrementByItemID(ctx, "ghost"))
	assert.Equal(t, 0, e.RemainingForItem("labubu"))

	granted := bus.ofType(event.RewardGranted)
	require.Len(t, granted, 1)
	assert.Equal(t, domain.CauseAdmin, granted[0].Payload.(event.RewardGrantedPayloadV1).Cause)
}

func TestLowStockEventsThroughEngine(t *testing.T) {
	ctx := context.Background()
	e, bus := newEngine(t, kioskCatalog(t, 0, 12, 0), WithLowStockThreshold(10))

	initial := bus.ofType(event.StockLowCleared)
	require.Len(t, initial, 1, "loading announces the current state")

	for i := 0; i < 5; i++ {
		res := e.Evaluate(ctx, 0)
		require.NoError(t, e.Decrement(ctx, res))
	}
	low := bus.ofType(event.StockLow)
	require.Len(t, low, 1)
	assert.Equal(t, event.LowStockPayloadV1{TotalRemaining: 10, Threshold: 10}, low[0].Payload)

	require.NoError(t, e.TopUpToday(ctx, "lapis", 5))
	assert.Len(t, bus.ofType(event.StockLowCleared), 2)

	e.EmitCurrentLowStock(ctx)
	assert.Len(t, bus.ofType(event.StockLowCleared), 3)
}

func TestTopUpToday(t *testing.T) {
	ctx := context.Background()
	e, bus := newEngine(t, kioskCatalog(t, 1, 50, 0))

	require.NoError(t, e.TopUpToday(ctx, "lapis", 10))
	assert.Equal(t, -5, e.CampaignRemainingForItem("lapis"))
	assert.Equal(t, 60, e.RemainingForItem("lapis"))
	assert.Equal(t, 55, e.TotalRemainingForItem("lapis"))

	adjusted := bus.ofType(event.StockAdjusted)
	require.Len(t, adjusted, 1)
	p := adjusted[0].Payload.(event.StockAdjustedPayloadV1)
	assert.Equal(t, OpTopUp, p.Operation)
	assert.Equal(t, 60, p.Today)
	assert.Equal(t, -5, p.Campaign)

	assert.ErrorIs(t, e.TopUpToday(ctx, "lapis", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, e.TopUpToday(ctx, "ghost", 1), domain.ErrItemNotFound)
}

func TestSetStockAndReset(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0))

	require.NoError(t, e.SetTodayStock(ctx, "lapis", 7))
	assert.Equal(t, 7, e.RemainingForItem("lapis"))
	require.NoError(t, e.SetCampaignStock(ctx, "LAPIS", 99))
	assert.Equal(t, 99, e.CampaignRemainingForItem("lapis"))

	require.NoError(t, e.ForceResetToday(ctx))
	assert.Equal(t, 50, e.RemainingForItem("lapis"))
	assert.Equal(t, 99, e.CampaignRemainingForItem("lapis"))
}

func TestRollover(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	e, bus := newEngine(t, kioskCatalog(t, 1, 50, 0), WithClock(clock))

	require.True(t, e.DecrementByItemID(ctx, "lapis"))
	rolled, err := e.Rollover(ctx)
	require.NoError(t, err)
	assert.False(t, rolled)

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	rolled, err = e.Rollover(ctx)
	require.NoError(t, err)
	assert.True(t, rolled)
	assert.Equal(t, 50, e.RemainingForItem("lapis"))

	rolledEvents := bus.ofType(event.DailyRollover)
	require.Len(t, rolledEvents, 1)
	assert.Equal(t, event.DailyRolloverPayloadV1{PreviousDate: "2026-03-01", Date: "2026-03-02", TotalRemaining: 51}, rolledEvents[0].Payload)
}

func TestLoadConfigRemote(t *testing.T) {
	ctx := context.Background()
	local := kioskCatalog(t, 1, 50, 0)
	remote := kioskCatalog(t, 2, 30, 0)

	t.Run("remote applied", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", mock.Anything).Return(remote, nil)
		e, bus := newEngine(t, nil, WithRemoteFetcher(f))

		ok, err := e.LoadConfigRemote(ctx, local)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, e.RemoteLoaded())
		assert.Equal(t, 30, e.RemainingForItem("lapis"))

		loaded := bus.ofType(event.CatalogLoaded)
		require.Len(t, loaded, 1)
		p := loaded[0].Payload.(event.CatalogLoadedPayloadV1)
		assert.True(t, p.Remote)
		assert.Equal(t, remote.Signature(), p.Signature)
		f.AssertExpectations(t)
	})

	t.Run("falls back to local", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", mock.Anything).Return(nil, domain.ErrRemoteCatalog)
		e, _ := newEngine(t, nil, WithRemoteFetcher(f))

		ok, err := e.LoadConfigRemote(ctx, local)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, e.RemoteLoaded())
		assert.Equal(t, 50, e.RemainingForItem("lapis"))
	})

	t.Run("no fetcher", func(t *testing.T) {
		e, _ := newEngine(t, nil)
		ok, err := e.LoadConfigRemote(ctx, local)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("async", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", mock.Anything).Return(remote, nil)
		e, _ := newEngine(t, nil, WithRemoteFetcher(f))

		select {
		case res := <-e.LoadConfigAsync(ctx, local):
			require.NoError(t, res.Err)
			assert.True(t, res.Remote)
		case <-time.After(2 * time.Second):
			t.Fatal("async load did not complete")
		}
		assert.Same(t, remote, e.Catalog())
	})

	t.Run("nil local after remote failure", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", mock.Anything).Return(nil, errors.New("boom"))
		e, _ := newEngine(t, nil, WithRemoteFetcher(f))

		_, err := e.LoadConfigRemote(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrNoCatalog)
	})
}

func TestReloadKeepsStockForSameSignature(t *testing.T) {
	ctx := context.Background()
	store := stock.NewMemoryStore()
	clock := WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })

	first := NewEngine(store, nil, clock, WithLocation(time.UTC))
	require.NoError(t, first.LoadConfig(ctx, kioskCatalog(t, 1, 50, 0)))
	require.True(t, first.DecrementByItemID(ctx, "lapis"))

	second := NewEngine(store, nil, clock, WithLocation(time.UTC))
	require.NoError(t, second.LoadConfig(ctx, kioskCatalog(t, 1, 50, 0)))
	assert.Equal(t, 49, second.RemainingForItem("lapis"))

	require.NoError(t, second.LoadConfig(ctx, kioskCatalog(t, 1, 40, 0)))
	assert.Equal(t, 40, second.RemainingForItem("lapis"), "a changed catalog rebuilds the ledger")
}

// failingDailyStore rejects daily writes while failing is set
type failingDailyStore struct {
	*stock.MemoryStore
	failing bool
}

func (s *failingDailyStore) SaveDaily(ctx context.Context, rec stock.DailyRecord) error {
	if s.failing {
		return errors.New("disk full")
	}
	return s.MemoryStore.SaveDaily(ctx, rec)
}

func TestReloadAfterFailedWriteDoesNotRegrant(t *testing.T) {
	ctx := context.Background()
	store := &failingDailyStore{MemoryStore: stock.NewMemoryStore()}
	e := NewEngine(store, nil,
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
		WithLocation(time.UTC))
	require.NoError(t, e.LoadConfig(ctx, kioskCatalog(t, 1, 50, 0)))

	store.failing = true
	res, ok := e.TryForceItem(ctx, "labubu")
	require.True(t, ok)
	require.NoError(t, e.Decrement(ctx, res))
	require.Equal(t, 0, e.RemainingForItem("labubu"))

	require.NoError(t, e.LoadConfig(ctx, kioskCatalog(t, 1, 50, 0)))
	assert.Equal(t, 0, e.RemainingForItem("labubu"))
	_, ok = e.TryForceItem(ctx, "labubu")
	assert.False(t, ok, "the granted prize stays granted")

	rolled, err := e.Rollover(ctx)
	assert.False(t, rolled)
	assert.ErrorContains(t, err, "disk full", "rollover surfaces the failed retry")

	store.failing = false
	require.NoError(t, e.LoadConfig(ctx, kioskCatalog(t, 1, 50, 0)))
	assert.Equal(t, 0, e.RemainingForItem("labubu"))
	assert.NoError(t, e.Flush(ctx))
}

func TestReportAndBands(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, kioskCatalog(t, 1, 50, 0))
	res := e.Evaluate(ctx, 10)
	require.False(t, res.Empty())

	r := e.Report()
	assert.Equal(t, "2026-03-01", r.Date)
	assert.Equal(t, 51, r.TotalToday)
	assert.Equal(t, 51+35, r.TotalAll)
	assert.Len(t, r.Items, 3)
	assert.Equal(t, 1, r.PendingReserved)
	assert.False(t, r.LowStock)
	assert.Equal(t, 10, r.LowStockAt)
	assert.NotEmpty(t, r.Signature)

	b := e.Bands()
	assert.False(t, b.Auto)
	assert.Equal(t, 370, b.MaxScore)
	require.Len(t, b.Bands, 2)
	assert.Equal(t, CategoryBand{Index: 0, ID: 0, Name: "Top", Min: 82, Max: 100}, b.Bands[0])
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
	"github.com/osse101/PrizeKiosk_Go/internal/stock"
)

func TestResetToday(t *testing.T) {
	store, err := stock.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cat, err := catalog.New(100, true, []catalog.Category{
		{Name: "Top", Items: []catalog.Item{{ID: "labubu", InitialDailyStock: 1, TotalCampaignStock: 5}}},
		{Name: "Common", Items: []catalog.Item{{ID: "lapis", InitialDailyStock: 4, TotalCampaignStock: 40}}},
	})
	require.NoError(t, err)

	ctx := context.Background()
	engine := reward.NewEngine(store, event.NewMemoryBus())
	require.NoError(t, engine.LoadConfig(ctx, cat))
	require.True(t, engine.DecrementByItemID(ctx, "lapis"))
	require.NoError(t, engine.SetTodayStock(ctx, "labubu", 0))
	before := engine.Report()

	require.NoError(t, resetToday(ctx, engine))

	assert.Equal(t, 1, engine.RemainingForItem("labubu"))
	assert.Equal(t, 4, engine.RemainingForItem("lapis"))

	reopened := reward.NewEngine(store, event.NewMemoryBus())
	require.NoError(t, reopened.LoadConfig(ctx, cat))
	assert.Equal(t, 4, reopened.RemainingForItem("lapis"), "reset is persisted")

	var out bytes.Buffer
	printReport(&out, before, engine.Report())
	assert.Contains(t, out.String(), "Total today: 3 -> 5")
}

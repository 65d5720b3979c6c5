package stock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	sqliteStore, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "rewards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStores_RecordsRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.LoadDaily(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			_, found, err = store.LoadCampaign(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			daily := DailyRecord{
				Date:                   "2026-03-01",
				ConfigurationSignature: "sig-1",
				Items:                  []ItemRemaining{{ID: "labubu", Remaining: 1}, {ID: "lapis", Remaining: 49}},
			}
			require.NoError(t, store.SaveDaily(ctx, daily))

			campaign := CampaignRecord{
				ConfigurationSignature: "sig-1",
				Items:                  []ItemRemaining{{ID: "lapis", Remaining: -5}},
			}
			require.NoError(t, store.SaveCampaign(ctx, campaign))

			gotDaily, found, err := store.LoadDaily(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, daily, gotDaily)

			gotCampaign, found, err := store.LoadCampaign(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, campaign, gotCampaign)

			daily.Items[1].Remaining = 48
			require.NoError(t, store.SaveDaily(ctx, daily))
			gotDaily, _, err = store.LoadDaily(ctx)
			require.NoError(t, err)
			assert.Equal(t, 48, gotDaily.Items[1].Remaining)
		})
	}
}

func TestFileStore_WritesNamedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveDaily(ctx, DailyRecord{Date: "2026-03-01"}))
	require.NoError(t, store.SaveCampaign(ctx, CampaignRecord{ConfigurationSignature: "x"}))

	data, err := os.ReadFile(filepath.Join(dir, DailyFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": "2026-03-01"`)
	assert.FileExists(t, filepath.Join(dir, CampaignFileName))
}

func TestFileStore_CorruptRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DailyFileName), []byte("{not json"), 0600))

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, found, err := store.LoadDaily(context.Background())
	assert.Error(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "rewards.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveCampaign(ctx, CampaignRecord{
		ConfigurationSignature: "sig",
		Items:                  []ItemRemaining{{ID: "lapis", Remaining: 3}},
	}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, found, err := reopened.LoadCampaign(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, rec.Items[0].Remaining)
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore("memory", dir, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore("FILE", dir, "")
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = NewStore("sqlite", dir, "")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.FileExists(t, filepath.Join(dir, DefaultSQLiteFile))
	require.NoError(t, s.Close())

	_, err = NewStore("redis", dir, "")
	assert.ErrorIs(t, err, domain.ErrUnknownBackend)
}

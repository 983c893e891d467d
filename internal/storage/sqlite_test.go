package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cltpj/cltpj/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cltpj.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSlotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "token", "abc123"))

	value, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", value)

	// Overwrite replaces, never duplicates.
	require.NoError(t, store.Set(ctx, "token", "def456"))
	value, _, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def456", value)
}

func TestSlotDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", `{"email":"a@b.c"}`))
	require.NoError(t, store.Delete(ctx, "user"))

	_, ok, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is fine.
	assert.NoError(t, store.Delete(ctx, "user"))
}

func TestSlotsAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", "tok"))
	require.NoError(t, store.Set(ctx, "user", "usr"))
	require.NoError(t, store.Delete(ctx, "user"))

	value, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", value)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestHistoryCacheReplaceAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := model.HistoryRecord{
		ID:        "rec-1",
		CreatedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		NetPayCLT: 4100.50,
		NetPayPJ:  4800.00,
		Verdict:   "PJ leva vantagem",
		Payload:   `{"reservaEmergencia":10}`,
	}
	newer := model.HistoryRecord{
		ID:        "rec-2",
		CreatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		NetPayCLT: 5200.00,
		NetPayPJ:  5100.00,
		Verdict:   "CLT leva vantagem",
	}

	require.NoError(t, store.ReplaceHistory(ctx, []model.HistoryRecord{older, newer}))

	recs, err := store.CachedHistory(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec-2", recs[0].ID)
	assert.Equal(t, "rec-1", recs[1].ID)
	assert.InDelta(t, 4100.50, recs[1].NetPayCLT, 0.001)
	assert.Equal(t, "PJ leva vantagem", recs[1].Verdict)

	// A new fetch wholly supersedes the cache.
	require.NoError(t, store.ReplaceHistory(ctx, []model.HistoryRecord{newer}))
	recs, err = store.CachedHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

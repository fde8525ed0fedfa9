//go:build cgo

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/config"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestAcquireRateSlotQuotaBoundary(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	window := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		count, ok, err := store.AcquireRateSlot(ctx, "user-1", window, 3)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, count)
	}

	_, ok, err := store.AcquireRateSlot(ctx, "user-1", window, 3)
	require.NoError(t, err)
	require.False(t, ok)

	state, err := store.GetRateWindow(ctx, "user-1", window)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, 3, state.Count)
}

func TestAcquireRateSlotIsolatesSubjectsAndWindows(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	window := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_, ok, err := store.AcquireRateSlot(ctx, "user-1", window, 1)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.AcquireRateSlot(ctx, "user-1", window, 1)
	require.NoError(t, err)
	require.False(t, ok)

	// A different subject and a later window each get a fresh budget.
	_, ok, err = store.AcquireRateSlot(ctx, "user-2", window, 1)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.AcquireRateSlot(ctx, "user-1", window.Add(time.Minute), 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAcquireRateSlotConcurrent(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	window := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	const quota = 10
	const attempts = 40

	var wg sync.WaitGroup
	granted := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := store.AcquireRateSlot(ctx, "user-1", window, quota)
			require.NoError(t, err)
			if ok {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	require.Equal(t, quota, len(granted))

	state, err := store.GetRateWindow(ctx, "user-1", window)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, quota, state.Count)
}

func TestPruneRateWindows(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	old := time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC)
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_, _, err := store.AcquireRateSlot(ctx, "user-1", old, 5)
	require.NoError(t, err)
	_, _, err = store.AcquireRateSlot(ctx, "user-1", current, 5)
	require.NoError(t, err)

	pruned, err := store.PruneRateWindows(ctx, current)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	state, err := store.GetRateWindow(ctx, "user-1", old)
	require.NoError(t, err)
	require.Nil(t, state)

	state, err = store.GetRateWindow(ctx, "user-1", current)
	require.NoError(t, err)
	require.NotNil(t, state)
}

func TestRateWindowAdminQueries(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	window := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for _, subject := range []string{"user-1", "user-2", "team-1"} {
		_, _, err := store.AcquireRateSlot(ctx, subject, window, 5)
		require.NoError(t, err)
	}

	entries, err := store.ListRateWindows(ctx, RateWindowQuery{All: true})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	count, err := store.CountRateWindows(ctx, RateWindowQuery{Prefix: "user-"})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	affected, err := store.ResetRateWindows(ctx, RateWindowQuery{Subject: "user-1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	count, err = store.CountRateWindows(ctx, RateWindowQuery{All: true})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

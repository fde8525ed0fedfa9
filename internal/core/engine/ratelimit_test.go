package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRateStore struct {
	counts map[string]int
	calls  int
}

func rateKey(subjectID string, windowStart time.Time) string {
	return subjectID + "|" + windowStart.UTC().Format(time.RFC3339)
}

func (m *memoryRateStore) AcquireRateSlot(ctx context.Context, subjectID string, windowStart time.Time, quota int) (int, bool, error) {
	m.calls++
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	key := rateKey(subjectID, windowStart)
	if m.counts[key] >= quota {
		return 0, false, nil
	}
	m.counts[key]++
	return m.counts[key], true, nil
}

func TestLimiterQuotaBoundary(t *testing.T) {
	store := &memoryRateStore{}
	clock := time.Date(2026, 8, 1, 12, 0, 30, 0, time.UTC)
	limiter := &Limiter{
		Store:  store,
		Quota:  5,
		Window: time.Minute,
		Clock:  func() time.Time { return clock },
	}

	for i := 1; i <= 5; i++ {
		decision, err := limiter.TryAcquire(context.Background(), "u1")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
		require.Equal(t, i, decision.Count)
	}

	decision, err := limiter.TryAcquire(context.Background(), "u1")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Greater(t, decision.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, decision.RetryAfter, time.Minute)

	// 30s elapsed in the window, 30s remain.
	require.Equal(t, 30*time.Second, decision.RetryAfter)
	require.Equal(t, 30, decision.RetryAfterSeconds())
}

func TestLimiterWindowRollover(t *testing.T) {
	store := &memoryRateStore{}
	clock := time.Date(2026, 8, 1, 12, 0, 59, 0, time.UTC)
	limiter := &Limiter{
		Store:  store,
		Quota:  1,
		Window: time.Minute,
		Clock:  func() time.Time { return clock },
	}

	decision, err := limiter.TryAcquire(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = limiter.TryAcquire(context.Background(), "u1")
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	// Crossing into the next window grants a fresh budget.
	clock = clock.Add(2 * time.Second)
	decision, err = limiter.TryAcquire(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestLimiterRejectsBlankSubject(t *testing.T) {
	limiter := &Limiter{Store: &memoryRateStore{}, Quota: 1, Window: time.Minute}

	_, err := limiter.TryAcquire(context.Background(), "  ")
	require.Error(t, err)
}

func TestLimiterRequiresConfiguration(t *testing.T) {
	limiter := &Limiter{Store: &memoryRateStore{}, Quota: 0, Window: time.Minute}

	_, err := limiter.TryAcquire(context.Background(), "u1")
	require.Error(t, err)
}

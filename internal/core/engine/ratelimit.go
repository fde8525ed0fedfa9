package engine

import (
	"context"
	"errors"
	"strings"
	"time"
)

// RateStore is the persistence contract the limiter depends on. The
// conditional increment must be atomic for a (subject, window) key so
// concurrent callers can never overshoot the quota.
type RateStore interface {
	AcquireRateSlot(ctx context.Context, subjectID string, windowStart time.Time, quota int) (int, bool, error)
}

// Limiter enforces a fixed-window request quota per subject. State
// lives in the store, never in the process, so restarts do not reset
// anyone's budget.
type Limiter struct {
	Store  RateStore
	Quota  int
	Window time.Duration
	Clock  func() time.Time
}

// Decision is the result of one acquisition attempt. RetryAfter is set
// only when the request was denied and never exceeds the window size.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

// TryAcquire consumes one slot from the subject's current window.
func (l *Limiter) TryAcquire(ctx context.Context, subjectID string) (Decision, error) {
	if l == nil || l.Store == nil {
		return Decision{}, errors.New("rate limiter is not configured")
	}
	if l.Quota < 1 || l.Window < time.Second {
		return Decision{}, errors.New("rate limiter quota and window must be positive")
	}

	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return Decision{}, errors.New("subject id is required")
	}

	now := l.now()
	windowStart := now.Truncate(l.Window)

	count, ok, err := l.Store.AcquireRateSlot(ctx, subjectID, windowStart, l.Quota)
	if err != nil {
		return Decision{}, err
	}
	if ok {
		return Decision{Allowed: true, Count: count}, nil
	}

	retryAfter := windowStart.Add(l.Window).Sub(now)
	if retryAfter <= 0 {
		retryAfter = time.Second
	}
	if retryAfter > l.Window {
		retryAfter = l.Window
	}

	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

// RetryAfterSeconds rounds the wait up to whole seconds for callers
// that surface it in a Retry-After style field.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	seconds := int((d.RetryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

func (l *Limiter) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock()
	}
	return time.Now().UTC()
}

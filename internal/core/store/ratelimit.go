package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mealdesk/mealdesk/internal/core"
)

// AcquireRateSlot attempts to consume one request slot for a subject in
// the window starting at windowStart. The increment is conditional on
// the stored count being below quota, so concurrent callers can never
// push a window past its budget. Returns the count after the increment
// and whether the slot was granted.
//
// The statement is a single upsert: either a fresh row is inserted with
// count 1, or the existing row is bumped only while request_count is
// still under quota. A denied acquisition yields no row from RETURNING.
func (s *Store) AcquireRateSlot(ctx context.Context, subjectID string, windowStart time.Time, quota int) (int, bool, error) {
	if s == nil || s.DB == nil {
		return 0, false, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return 0, false, errors.New("subject id is required")
	}
	if quota < 1 {
		return 0, false, errors.New("quota must be at least 1")
	}

	var count int
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO rate_windows (subject_id, window_start, request_count)
		VALUES (?, ?, 1)
		ON CONFLICT(subject_id, window_start) DO UPDATE SET
			request_count = request_count + 1
		WHERE request_count < ?
		RETURNING request_count
	`, subjectID, windowStart.UTC().Unix(), quota)

	if err := row.Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("acquire rate slot: %w", err)
	}

	return count, true, nil
}

// GetRateWindow returns the stored counter for a subject's window, or
// nil when the subject has not issued any request in that window.
func (s *Store) GetRateWindow(ctx context.Context, subjectID string, windowStart time.Time) (*core.RateWindow, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, errors.New("subject id is required")
	}

	var count int
	row := s.DB.QueryRowContext(ctx, `
		SELECT request_count
		FROM rate_windows
		WHERE subject_id = ? AND window_start = ?
	`, subjectID, windowStart.UTC().Unix())

	if err := row.Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch rate window: %w", err)
	}

	return &core.RateWindow{
		SubjectID:   subjectID,
		WindowStart: windowStart.UTC(),
		Count:       count,
	}, nil
}

// PruneRateWindows deletes counters for windows that closed before the
// cutoff. Stale rows never influence admission decisions; pruning only
// keeps the table small.
func (s *Store) PruneRateWindows(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `
		DELETE FROM rate_windows
		WHERE window_start < ?
	`, before.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune rate windows: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rate windows: %w", err)
	}
	return affected, nil
}

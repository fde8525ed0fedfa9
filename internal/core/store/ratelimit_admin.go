package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mealdesk/mealdesk/internal/core"
)

type RateWindowQuery struct {
	All     bool
	Subject string
	Prefix  string
}

func (q RateWindowQuery) Validate() error {
	if q.All {
		return nil
	}
	if strings.TrimSpace(q.Subject) != "" {
		return nil
	}
	if strings.TrimSpace(q.Prefix) != "" {
		return nil
	}
	return errors.New("must specify --all, --subject, or --prefix")
}

func (q RateWindowQuery) whereClause() (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	if q.All {
		return "", nil, nil
	}
	if subject := strings.TrimSpace(q.Subject); subject != "" {
		return "WHERE subject_id = ?", []any{subject}, nil
	}
	prefix := strings.TrimSpace(q.Prefix)
	if prefix == "" {
		return "", nil, errors.New("prefix is required")
	}
	return "WHERE subject_id LIKE ?", []any{prefix + "%"}, nil
}

func (s *Store) ListRateWindows(ctx context.Context, q RateWindowQuery) ([]core.RateWindow, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT subject_id, window_start, request_count
		FROM rate_windows
		%s
		ORDER BY subject_id, window_start
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list rate windows: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	entries := []core.RateWindow{}
	for rows.Next() {
		var (
			subjectID    string
			windowStart  int64
			requestCount int
		)
		if err := rows.Scan(&subjectID, &windowStart, &requestCount); err != nil {
			return nil, fmt.Errorf("scan rate windows: %w", err)
		}

		entries = append(entries, core.RateWindow{
			SubjectID:   subjectID,
			WindowStart: time.Unix(windowStart, 0).UTC(),
			Count:       requestCount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rate windows: %w", err)
	}

	return entries, nil
}

func (s *Store) CountRateWindows(ctx context.Context, q RateWindowQuery) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM rate_windows
		%s
	`, where), args...)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count rate windows: %w", err)
	}
	return count, nil
}

func (s *Store) ResetRateWindows(ctx context.Context, q RateWindowQuery) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM rate_windows
		%s
	`, where), args...)
	if err != nil {
		return 0, fmt.Errorf("reset rate windows: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset rate windows: %w", err)
	}
	return affected, nil
}

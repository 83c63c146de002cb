package store

import (
	"context"
	"fmt"
	"time"
)

type Stats struct {
	TotalVisitors        int64           `json:"total_visitors"`
	UniqueVisitors       int64           `json:"unique_visitors"`
	VisitorsToday        int64           `json:"visitors_today"`
	VisitorsThisWeek     int64           `json:"visitors_this_week"`
	TotalSubmissions     int64           `json:"total_submissions"`
	DeliveredSubmissions int64           `json:"delivered_submissions"`
	FailedSubmissions    int64           `json:"failed_submissions"`
	RecentVisitors       []VisitorMetric `json:"recent_visitors"`
	RecentSubmissions    []Submission    `json:"recent_submissions"`
}

// Stats collects the admin dashboard numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{startOfDay}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}},
		{&stats.TotalSubmissions, `SELECT COUNT(*) FROM submissions`, nil},
		{&stats.DeliveredSubmissions, `SELECT COUNT(*) FROM submissions WHERE status = 'success'`, nil},
		{&stats.FailedSubmissions, `SELECT COUNT(*) FROM submissions WHERE status = 'error'`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentSubmissions, err = s.RecentSubmissions(ctx, 20); err != nil {
		return nil, err
	}
	return stats, nil
}

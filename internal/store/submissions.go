package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Submission is the outcome of one contact form submission.
type Submission struct {
	ID            string    `json:"id"`
	HashedVisitor string    `json:"hashed_visitor"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// RecordSubmission stores the outcome of a submission made by visitorID.
// errMsg is empty for delivered messages.
func (s *Store) RecordSubmission(ctx context.Context, visitorID, status, errMsg string) (Submission, error) {
	sub := Submission{
		ID:            uuid.NewString(),
		HashedVisitor: s.HashIP(visitorID),
		Status:        status,
		Error:         errMsg,
		Timestamp:     s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, hashed_visitor, status, error, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, sub.ID, sub.HashedVisitor, sub.Status, sub.Error, sub.Timestamp)
	if err != nil {
		return Submission{}, fmt.Errorf("record submission: %w", err)
	}
	return sub, nil
}

func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_visitor, status, COALESCE(error, ''), timestamp
		FROM submissions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.HashedVisitor, &sub.Status, &sub.Error, &sub.Timestamp); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

package sqlstore

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// CreateSubmission implements ports.SubmissionStore.
func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	_, err := s.exec(ctx, `
		INSERT INTO submissions (id, url, submitter_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.URL, sub.SubmitterID, string(sub.Status), s.dialect.timeArg(sub.CreatedAt))
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return domain.NewConflictError("submission", "url is already waiting for review")
		}

		return fmt.Errorf("create submission: %w", err)
	}

	return nil
}

// DeleteSubmission implements ports.SubmissionStore.
func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	if _, err := s.exec(ctx, `DELETE FROM submissions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete submission %s: %w", id, err)
	}

	return nil
}

// ListSubmissions implements ports.SubmissionStore.
func (s *Store) ListSubmissions(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	rows, err := s.query(ctx, `
		SELECT id, url, submitter_id, status, created_at
		FROM submissions
		WHERE status = ?
		ORDER BY created_at DESC, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Submission, 0)

	for rows.Next() {
		var (
			sub       domain.Submission
			st        string
			createdAt timestamp
		)

		if err := rows.Scan(&sub.ID, &sub.URL, &sub.SubmitterID, &st, &createdAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}

		sub.Status = domain.SubmissionStatus(st)
		sub.CreatedAt = createdAt.Time
		out = append(out, sub)
	}

	return out, rows.Err()
}

package repository

import (
	"context"

	"apply4me/internal/domain/submission"
)

// ListParams selects an offset-mode page of submissions. Search is matched
// case-insensitively as a substring against name, email and mobile.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

type SubmissionRepository interface {
	Create(ctx context.Context, s *submission.Submission) error
	List(ctx context.Context, p ListParams) ([]submission.Submission, int64, error)
	GetByID(ctx context.Context, id int64) (submission.Submission, error)
	GetResume(ctx context.Context, id int64) (submission.Resume, error)
	Ping(ctx context.Context) error
}

package ports

import (
	"context"

	"leetcode-anki/internal/domain/model"
)

// ListQuery bounds and filters the problem list request.
type ListQuery struct {
	Start    int
	Stop     int
	PageSize int
	Status   string
	ListID   string
}

// ProblemProvider defines authenticated access to LeetCode problems.
type ProblemProvider interface {
	CheckSession(ctx context.Context) error
	ListProblems(ctx context.Context, query ListQuery) ([]model.ProblemSummary, error)
	GetDetail(ctx context.Context, slug string) (model.ProblemDetail, error)
	GetLastAcceptedSubmission(ctx context.Context, slug string) (model.Submission, error)
}

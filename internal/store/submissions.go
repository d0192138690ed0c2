// Package store keeps the device-local record of confirmed submissions,
// the list the collection UI renders.
package store

import (
	"context"

	"fieldlex-client/internal/db"
	"fieldlex-client/internal/model"
)

type Submissions struct {
	repo db.Repository
}

func NewSubmissions(repo db.Repository) *Submissions {
	return &Submissions{repo: repo}
}

// Add records a submission. Synced submissions arrive here exactly once,
// in delivery order.
func (s *Submissions) Add(ctx context.Context, sub model.Submission) error {
	return s.repo.InsertSubmission(ctx, sub)
}

// List returns recorded submissions, oldest first.
func (s *Submissions) List(ctx context.Context) ([]model.Submission, error) {
	return s.repo.ListSubmissions(ctx)
}

// Clear removes every recorded submission.
func (s *Submissions) Clear(ctx context.Context) error {
	return s.repo.ClearSubmissions(ctx)
}

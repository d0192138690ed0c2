// Package queue holds submissions that could not be delivered. Entries are
// durably flushed before Enqueue returns and drained oldest-first by the
// sync service.
package queue

import (
	"context"
	"fmt"
	"time"

	"fieldlex-client/internal/db"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/model"
	"fieldlex-client/pkg/errors"

	"github.com/rs/zerolog"
)

type Offline struct {
	repo db.Repository
	log  zerolog.Logger
}

func NewOffline(repo db.Repository) *Offline {
	return &Offline{
		repo: repo,
		log:  logger.Component("queue"),
	}
}

// Enqueue appends sub to the queue. If the write cannot be persisted the
// entry is NOT stored and the caller must report the submission as lost
// rather than silently dropping it.
func (q *Offline) Enqueue(ctx context.Context, sub model.Submission) (*model.QueueEntry, error) {
	sub.Status = model.SubmissionStatusPending
	enqueuedAt := time.Now().UTC()

	id, err := q.repo.InsertQueueEntry(ctx, sub, enqueuedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrEnqueueFailed, err)
	}

	q.log.Info().
		Str("submission_id", sub.ID).
		Int64("entry_id", id).
		Msg("Submission stored offline")

	return &model.QueueEntry{ID: id, Submission: sub, EnqueuedAt: enqueuedAt}, nil
}

// List returns all entries in insertion order, oldest first.
func (q *Offline) List(ctx context.Context) ([]model.QueueEntry, error) {
	return q.repo.ListQueueEntries(ctx)
}

// Remove deletes one entry, called after it has been delivered.
func (q *Offline) Remove(ctx context.Context, entryID int64) error {
	return q.repo.DeleteQueueEntry(ctx, entryID)
}

// Clear destroys every queued entry. Irreversible; intent confirmation is
// the caller's responsibility.
func (q *Offline) Clear(ctx context.Context) error {
	if err := q.repo.ClearQueue(ctx); err != nil {
		return err
	}
	q.log.Info().Msg("Offline queue cleared")
	return nil
}

// Len reports the number of pending entries.
func (q *Offline) Len(ctx context.Context) (int, error) {
	return q.repo.CountQueue(ctx)
}

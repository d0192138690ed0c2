// Package sync drives the submission pipeline: build, deliver, fall back to
// the offline queue, and replay the queue on demand.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/queue"
	"fieldlex-client/internal/remote"
	"fieldlex-client/internal/storage"
	"fieldlex-client/internal/store"
	"fieldlex-client/pkg/errors"

	"github.com/rs/zerolog"
)

type Service struct {
	builder *Builder
	exec    *remote.Executor
	queue   *queue.Offline
	store   *store.Submissions
	archive storage.Archive
	syncing atomic.Bool
	log     zerolog.Logger
}

func NewService(cfg *config.Config, exec *remote.Executor, q *queue.Offline, st *store.Submissions) *Service {
	return &Service{
		builder: NewBuilder(cfg),
		exec:    exec,
		queue:   q,
		store:   st,
		log:     logger.Component("sync"),
	}
}

// SubmitOutcome tells the caller where the submission ended up. Queued true
// means "saved locally, will sync later" — the UI must present that
// distinctly from a hard failure.
type SubmitOutcome struct {
	Submission model.Submission
	Queued     bool
	Cause      error
}

// SetArchive enables best-effort archival of recordings alongside delivery.
func (s *Service) SetArchive(a storage.Archive) {
	s.archive = a
}

// Submit runs one candidate through the pipeline. Validation failures and
// client/auth errors surface immediately and are never queued; transport
// and server failures fall back to the offline queue.
func (s *Service) Submit(ctx context.Context, form model.FormState) (*SubmitOutcome, error) {
	desc, sub, err := s.builder.Build(form)
	if err != nil {
		return nil, err
	}

	if s.archive != nil && len(sub.AudioData) > 0 {
		// Archival failure never blocks delivery.
		if err := s.archive.Upload(ctx, storage.AudioKey(sub.ID), bytes.NewReader(sub.AudioData)); err != nil {
			s.log.Warn().Err(err).Str("submission_id", sub.ID).Msg("Audio archival failed")
		}
	}

	delivered, err := s.deliver(ctx, desc, sub)
	if err == nil {
		return &SubmitOutcome{Submission: *delivered}, nil
	}

	if !errors.Queueable(err) {
		return nil, err
	}

	entry, qErr := s.queue.Enqueue(ctx, *sub)
	if qErr != nil {
		// The entry could not be persisted either; the submission is lost
		// and the caller must say so.
		sub.Status = model.SubmissionStatusRejectedLocal
		return nil, fmt.Errorf("submission could not be delivered or stored: %w", qErr)
	}

	s.log.Warn().Err(err).
		Str("submission_id", sub.ID).
		Msg("Delivery failed, submission queued for later sync")

	return &SubmitOutcome{Submission: entry.Submission, Queued: true, Cause: err}, nil
}

// SyncAll drains the offline queue in insertion order over a snapshot taken
// at call time. Entries enqueued while a pass runs wait for the next pass.
// A second invocation while one is in flight is dropped without issuing
// any network call.
func (s *Service) SyncAll(ctx context.Context) (model.SyncReport, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		return model.SyncReport{}, errors.ErrSyncInFlight
	}
	defer s.syncing.Store(false)

	entries, err := s.queue.List(ctx)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("failed to read offline queue: %w", err)
	}

	var report model.SyncReport
	for _, entry := range entries {
		sub := entry.Submission
		desc := s.builder.Descriptor(&sub)

		delivered, err := s.deliver(ctx, desc, &sub)
		if err != nil {
			// Entry stays in the queue for the next pass; keep going.
			report.ErrorCount++
			s.log.Warn().Err(err).
				Str("submission_id", sub.ID).
				Int64("entry_id", entry.ID).
				Msg("Queued submission still failing")
			continue
		}

		if err := s.queue.Remove(ctx, entry.ID); err != nil {
			report.ErrorCount++
			s.log.Error().Err(err).
				Int64("entry_id", entry.ID).
				Msg("Failed to remove delivered entry from queue")
			continue
		}

		report.SyncedCount++
		s.log.Info().
			Str("submission_id", delivered.ID).
			Str("remote_id", delivered.RemoteID).
			Msg("Queued submission synced")
	}

	s.log.Info().
		Int("synced", report.SyncedCount).
		Int("errors", report.ErrorCount).
		Msg("Sync pass completed")

	return report, nil
}

// deliver executes the descriptor and, on acceptance, promotes the
// submission into the store with the server-assigned id.
func (s *Service) deliver(ctx context.Context, desc *remote.Descriptor, sub *model.Submission) (*model.Submission, error) {
	env, err := s.exec.Execute(ctx, desc)
	if err != nil {
		return nil, err
	}

	var resp model.SubmissionResponse
	if err := env.Decode(&resp); err != nil {
		return nil, err
	}

	sub.Status = model.SubmissionStatusSynced
	sub.RemoteID = resp.ID

	if err := s.store.Add(ctx, *sub); err != nil {
		return nil, fmt.Errorf("submission accepted remotely but not recorded locally: %w", err)
	}

	return sub, nil
}

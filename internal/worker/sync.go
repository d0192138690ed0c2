package worker

import (
	"context"
	"errors"
	"time"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/sync"
	fielderrors "fieldlex-client/pkg/errors"

	"github.com/rs/zerolog"
)

// SyncWorker drains the offline queue on a fixed interval. It is an
// optional extension: synchronization stays user-triggered unless
// sync.interval is set in config. The coordinator's single-flight guard
// makes a timer tick overlapping a manual sync harmless.
type SyncWorker struct {
	interval time.Duration
	svc      *sync.Service
	pool     *Pool
	log      zerolog.Logger
}

func NewSyncWorker(cfg *config.Config, svc *sync.Service) *SyncWorker {
	return &SyncWorker{
		interval: cfg.Sync.Interval,
		svc:      svc,
		pool:     NewPool(cfg.Sync.Workers),
		log:      logger.Component("sync-worker"),
	}
}

func (w *SyncWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		w.log.Info().Msg("Interval sync disabled, queue drains on user action only")
		return nil
	}

	w.log.Info().Dur("interval", w.interval).Msg("Starting interval sync worker")
	w.pool.Start(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.pool.Submit(func(ctx context.Context) error {
				report, err := w.svc.SyncAll(ctx)
				if err != nil {
					if errors.Is(err, fielderrors.ErrSyncInFlight) {
						// A manual sync is running; skip this tick.
						return nil
					}
					return err
				}
				if report.SyncedCount > 0 || report.ErrorCount > 0 {
					w.log.Info().
						Int("synced", report.SyncedCount).
						Int("errors", report.ErrorCount).
						Msg("Scheduled sync pass finished")
				}
				return nil
			})
		}
	}
}

func (w *SyncWorker) Stop() {
	if w.interval <= 0 {
		return
	}
	w.pool.Stop()
}

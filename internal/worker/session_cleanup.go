package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

// SessionCleanupWorker periodically drops expired sessions. Authenticate
// already rejects them; the sweep keeps abandoned ones from piling up.
type SessionCleanupWorker struct {
	repo            repository.SessionRepository
	cleanupInterval time.Duration
	now             func() time.Time
}

func NewSessionCleanupWorker(repo repository.SessionRepository, cleanupInterval time.Duration) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		repo:            repo,
		cleanupInterval: cleanupInterval,
		now:             time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (w *SessionCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Cleanup(ctx); err != nil {
				log.Error().Err(err).Msg("session cleanup failed")
			}
		}
	}
}

func (w *SessionCleanupWorker) Cleanup(ctx context.Context) (int, error) {
	removed, err := w.repo.DeleteExpired(ctx, w.now().UnixMilli())
	if err != nil {
		return removed, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("expired sessions cleaned up")
	}
	return removed, nil
}

package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// Reconciler periodically repairs drift between boards' project lists and the
// projects pointing at them.
type Reconciler struct {
	boardRepo repository.BoardRepository
	interval  time.Duration
}

// NewReconciler creates a new Reconciler
func NewReconciler(boardRepo repository.BoardRepository, interval time.Duration) *Reconciler {
	return &Reconciler{
		boardRepo: boardRepo,
		interval:  interval,
	}
}

// Run reconciles every board once per interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.WithField("interval", r.interval).Info("board reconciler started")
	for {
		select {
		case <-ctx.Done():
			log.Info("board reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.ReconcileAll(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("board reconciliation failed")
			}
		}
	}
}

// ReconcileAll reconciles every board and returns the results that changed
// something. A failure on one board does not stop the others.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]repository.ReconcileResult, error) {
	boardIDs, err := r.boardRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var changed []repository.ReconcileResult
	for _, id := range boardIDs {
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}

		result, err := r.boardRepo.ReconcileProjects(ctx, id)
		if err != nil {
			log.WithError(err).WithField("board_id", id).Warn("failed to reconcile board")
			continue
		}
		if result.Changed() {
			log.WithFields(log.Fields{
				"board_id": id,
				"added":    result.Added,
				"removed":  result.Removed,
			}).Info("reconciled board project list")
			changed = append(changed, *result)
		}
	}

	return changed, nil
}

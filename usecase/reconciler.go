package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// Reconciler is the background sweep that keeps stage statuses honest. An
// invocation killed mid-flight never runs its failure handler, leaving the
// document stuck on processing; once its lease expires the sweep demotes the
// stage to failed so the caller can re-invoke it.
type Reconciler struct {
	documents  repositories.DocumentRepository
	leases     repositories.LeaseRepository
	staleAfter time.Duration
	interval   time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
}

// NewReconciler creates a new status reconciler
func NewReconciler(documents repositories.DocumentRepository, leases repositories.LeaseRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		documents:  documents,
		leases:     leases,
		staleAfter: DefaultLeaseTTL,
		interval:   time.Minute,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the background sweep
func (r *Reconciler) Start() {
	go r.loop()
	r.logger.Info("Status reconciler started")
}

// Stop gracefully stops the sweep
func (r *Reconciler) Stop() {
	close(r.stopChan)
	r.logger.Info("Status reconciler stopped")
}

func (r *Reconciler) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			r.Sweep(ctx)
			cancel()
		}
	}
}

// Sweep demotes every document whose stage has sat in processing past its
// lease to failed. One pass over both stages.
func (r *Reconciler) Sweep(ctx context.Context) {
	r.sweepStage(ctx, entities.StageTranscription)
	r.sweepStage(ctx, entities.StageExtraction)
}

func (r *Reconciler) sweepStage(ctx context.Context, stage entities.Stage) {
	cutoff := time.Now().Add(-r.staleAfter)
	ids, err := r.documents.FindProcessing(ctx, stage, cutoff)
	if err != nil {
		r.logger.Error("Failed to scan processing documents",
			zap.String("stage", string(stage)), zap.Error(err))
		return
	}

	for _, id := range ids {
		lease, err := r.leases.Get(ctx, id, stage)
		if err != nil {
			r.logger.Error("Failed to read stage lease",
				zap.String("documentID", id), zap.Error(err))
			continue
		}
		if lease != nil && lease.ExpiresAt.After(time.Now()) {
			// A live lease means the invocation is still running.
			continue
		}

		if err := r.demote(ctx, id, stage); err != nil {
			r.logger.Error("Failed to demote stale document",
				zap.String("documentID", id),
				zap.String("stage", string(stage)),
				zap.Error(err))
			continue
		}

		r.logger.Warn("Demoted stale processing document to failed",
			zap.String("documentID", id),
			zap.String("stage", string(stage)))
	}
}

func (r *Reconciler) demote(ctx context.Context, id string, stage entities.Stage) error {
	if stage == entities.StageTranscription {
		return r.documents.SetTranscriptStatus(ctx, id, entities.StatusFailed)
	}
	return r.documents.SetStructuredRecordStatus(ctx, id, entities.StatusFailed)
}

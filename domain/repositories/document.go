package repositories

import (
	"context"
	"time"

	"github.com/vocamed/scriba/domain/entities"
)

// DocumentRepository defines data access methods for consultation documents.
//
// The two content setters write content, status and the last-modified
// timestamp as a single update, so a reader never observes a completed status
// with stale content or the other way around. Status-only setters are used by
// the processing and failure transitions.
type DocumentRepository interface {
	Create(ctx context.Context, document *entities.Document) error
	GetByID(ctx context.Context, id string) (*entities.Document, error)

	// SetTranscriptStatus updates only the transcript status field.
	// Returns entities.ErrDocumentNotFound when no such document exists.
	SetTranscriptStatus(ctx context.Context, id string, status entities.StageStatus) error
	// SetTranscript writes the transcript together with its status.
	SetTranscript(ctx context.Context, id string, transcript string, status entities.StageStatus) error

	// SetStructuredRecordStatus updates only the structured record status field.
	SetStructuredRecordStatus(ctx context.Context, id string, status entities.StageStatus) error
	// SetStructuredRecord writes the structured record together with its status.
	SetStructuredRecord(ctx context.Context, id string, record *entities.MedicalRecord, status entities.StageStatus) error

	// FindProcessing returns the ids of documents whose given stage has been
	// sitting in processing since before the cutoff. Used by the reconciler.
	FindProcessing(ctx context.Context, stage entities.Stage, before time.Time) ([]string, error)
}

// StageLease is a claim on one stage of one document, held for the duration
// of a stage invocation.
type StageLease struct {
	DocumentID string
	Stage      entities.Stage
	Owner      string
	ExpiresAt  time.Time
}

// LeaseRepository provides the at-most-one-in-flight-invocation-per-stage
// guarantee. Acquire fails with entities.ErrStageBusy while a live lease is
// held by someone else; an expired lease is reclaimed by the next Acquire.
type LeaseRepository interface {
	Acquire(ctx context.Context, documentID string, stage entities.Stage, owner string, ttl time.Duration) (*StageLease, error)
	Release(ctx context.Context, documentID string, stage entities.Stage, owner string) error
	// Get returns the current lease for the stage, or nil when none is held.
	Get(ctx context.Context, documentID string, stage entities.Stage) (*StageLease, error)
}

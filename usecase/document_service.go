package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// StageStatusView is the caller-facing status of one stage of a document.
// Content accompanies the status so callers never pair a status with stale
// content fetched separately.
type StageStatusView struct {
	Status           entities.StageStatus    `json:"status"`
	Transcript       string                  `json:"transcript,omitempty"`
	StructuredRecord *entities.MedicalRecord `json:"structured_record,omitempty"`
	LastModifiedAt   time.Time               `json:"last_modified_at"`
}

// DocumentService covers document registration and the status queries
// consumed by the caller-facing surface.
type DocumentService struct {
	documents repositories.DocumentRepository
	logger    *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(documents repositories.DocumentRepository, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		documents: documents,
		logger:    logger,
	}
}

// Register creates the document for a freshly uploaded recording. Both stage
// statuses start out pending.
func (s *DocumentService) Register(ctx context.Context, audioRef string, meta *entities.AudioMetadata) (*entities.Document, error) {
	document := entities.NewDocument(audioRef, meta)
	if err := s.documents.Create(ctx, document); err != nil {
		return nil, err
	}

	s.logger.Info("Document registered",
		zap.String("documentID", document.ID.Hex()),
		zap.Bool("hasAudio", audioRef != ""))

	return document, nil
}

// Get returns the full document, or nil when it does not exist.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*entities.Document, error) {
	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, entities.ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return document, nil
}

// TranscriptStatus returns the transcription stage view, or nil when the
// document does not exist.
func (s *DocumentService) TranscriptStatus(ctx context.Context, documentID string) (*StageStatusView, error) {
	document, err := s.Get(ctx, documentID)
	if err != nil || document == nil {
		return nil, err
	}
	return &StageStatusView{
		Status:         document.TranscriptStatus,
		Transcript:     document.Transcript,
		LastModifiedAt: document.LastModifiedAt,
	}, nil
}

// ExtractionStatus returns the extraction stage view, or nil when the
// document does not exist.
func (s *DocumentService) ExtractionStatus(ctx context.Context, documentID string) (*StageStatusView, error) {
	document, err := s.Get(ctx, documentID)
	if err != nil || document == nil {
		return nil, err
	}
	return &StageStatusView{
		Status:           document.StructuredRecordStatus,
		StructuredRecord: document.StructuredRecord,
		LastModifiedAt:   document.LastModifiedAt,
	}, nil
}

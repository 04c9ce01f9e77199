package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// DefaultLeaseTTL bounds how long a crashed invocation can hold a stage
// before its lease expires and the reconciler may demote the document.
const DefaultLeaseTTL = 10 * time.Minute

// TranscriptionService orchestrates the audio-to-transcript stage: acquire
// the stage lease, mark the document processing, download the audio, call
// the speech-to-text service and store the transcript. Any failure after the
// processing write demotes the status to failed before the error propagates;
// a failed run is re-invoked by the caller, never retried internally.
type TranscriptionService struct {
	documents repositories.DocumentRepository
	leases    repositories.LeaseRepository
	audio     repositories.AudioStore
	stt       repositories.SpeechToText
	language  string
	leaseTTL  time.Duration
	logger    *zap.Logger
}

// NewTranscriptionService creates a new transcription stage service
func NewTranscriptionService(
	documents repositories.DocumentRepository,
	leases repositories.LeaseRepository,
	audio repositories.AudioStore,
	stt repositories.SpeechToText,
	language string,
	logger *zap.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		documents: documents,
		leases:    leases,
		audio:     audio,
		stt:       stt,
		language:  language,
		leaseTTL:  DefaultLeaseTTL,
		logger:    logger,
	}
}

// Run executes the transcription stage for one document and returns the
// transcript on success.
func (s *TranscriptionService) Run(ctx context.Context, documentID string) (string, error) {
	owner := uuid.New().String()
	if _, err := s.leases.Acquire(ctx, documentID, entities.StageTranscription, owner, s.leaseTTL); err != nil {
		return "", err
	}
	defer func() {
		if err := s.leases.Release(context.WithoutCancel(ctx), documentID, entities.StageTranscription, owner); err != nil {
			s.logger.Warn("Failed to release transcription lease",
				zap.String("documentID", documentID), zap.Error(err))
		}
	}()

	// The processing write happens before any network call so concurrent
	// readers see the stage in flight. A miss here means the document does
	// not exist; there is no status left behind to clean up.
	if err := s.documents.SetTranscriptStatus(ctx, documentID, entities.StatusProcessing); err != nil {
		return "", err
	}

	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return "", s.fail(ctx, documentID, err)
	}

	if document.AudioRef == "" {
		return "", s.fail(ctx, documentID, entities.ErrMissingAudio)
	}

	url, err := s.audio.ResolveURL(ctx, document.AudioRef)
	if err != nil {
		return "", s.fail(ctx, documentID, fmt.Errorf("%w: %v", entities.ErrMissingAudio, err))
	}

	audioData, err := s.audio.Fetch(ctx, url)
	if err != nil {
		return "", s.fail(ctx, documentID, &entities.ServiceError{
			Service: "transcription",
			Message: fmt.Sprintf("failed to fetch audio: %v", err),
		})
	}

	config := repositories.AudioConfig{Language: s.language}
	if document.AudioMetadata != nil {
		config.MimeType = document.AudioMetadata.MimeType
	}

	transcript, err := s.stt.TranscribeAudio(ctx, audioData, config)
	if err != nil {
		return "", s.fail(ctx, documentID, err)
	}

	if err := s.documents.SetTranscript(ctx, documentID, transcript, entities.StatusCompleted); err != nil {
		return "", s.fail(ctx, documentID, err)
	}

	s.logger.Info("Transcription stage completed",
		zap.String("documentID", documentID),
		zap.Int("transcriptLength", len(transcript)))

	return transcript, nil
}

// fail writes the failed status before the error is allowed to propagate, so
// a document is never left stuck on processing by a live invocation.
func (s *TranscriptionService) fail(ctx context.Context, documentID string, cause error) error {
	if err := s.documents.SetTranscriptStatus(context.WithoutCancel(ctx), documentID, entities.StatusFailed); err != nil {
		s.logger.Error("Failed to mark transcription as failed",
			zap.String("documentID", documentID), zap.Error(err))
	}
	s.logger.Error("Transcription stage failed",
		zap.String("documentID", documentID), zap.Error(cause))
	return cause
}

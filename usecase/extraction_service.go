package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
	"github.com/vocamed/scriba/internal/jsonrepair"
	"github.com/vocamed/scriba/internal/prompt"
)

// ExtractionService orchestrates the transcript-to-structured-record stage.
// The generator is untrusted with respect to output shape, so its completion
// runs through a three-phase recovery pipeline: syntactic repair, structural
// normalization, then strict schema validation as the final gate.
type ExtractionService struct {
	documents repositories.DocumentRepository
	leases    repositories.LeaseRepository
	generator repositories.Generator
	leaseTTL  time.Duration
	logger    *zap.Logger
}

// NewExtractionService creates a new extraction stage service
func NewExtractionService(
	documents repositories.DocumentRepository,
	leases repositories.LeaseRepository,
	generator repositories.Generator,
	logger *zap.Logger,
) *ExtractionService {
	return &ExtractionService{
		documents: documents,
		leases:    leases,
		generator: generator,
		leaseTTL:  DefaultLeaseTTL,
		logger:    logger,
	}
}

// Run executes the extraction stage for one document and returns the
// validated structured record on success. A failed re-run never erases a
// record stored by a prior successful run: failure paths write only the
// status field.
func (s *ExtractionService) Run(ctx context.Context, documentID string, specialization string) (*entities.MedicalRecord, error) {
	owner := uuid.New().String()
	if _, err := s.leases.Acquire(ctx, documentID, entities.StageExtraction, owner, s.leaseTTL); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.leases.Release(context.WithoutCancel(ctx), documentID, entities.StageExtraction, owner); err != nil {
			s.logger.Warn("Failed to release extraction lease",
				zap.String("documentID", documentID), zap.Error(err))
		}
	}()

	if err := s.documents.SetStructuredRecordStatus(ctx, documentID, entities.StatusProcessing); err != nil {
		return nil, err
	}

	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, s.fail(ctx, documentID, err)
	}

	if !document.ReadyForExtraction() {
		return nil, s.fail(ctx, documentID, entities.ErrTranscriptMissing)
	}

	template := prompt.TemplateBySpecialization(specialization)
	userPrompt := prompt.BuildExtractionPrompt(document.Transcript, template)

	completion, err := s.generator.Generate(ctx, prompt.SystemPrompt, userPrompt)
	if err != nil {
		return nil, s.fail(ctx, documentID, err)
	}

	record, err := RecoverRecord(completion)
	if err != nil {
		return nil, s.fail(ctx, documentID, err)
	}

	if err := s.documents.SetStructuredRecord(ctx, documentID, record, entities.StatusCompleted); err != nil {
		return nil, s.fail(ctx, documentID, err)
	}

	s.logger.Info("Extraction stage completed",
		zap.String("documentID", documentID),
		zap.String("specialization", specialization))

	return record, nil
}

// RecoverRecord turns a raw generator completion into a validated canonical
// record: fence stripping and strict parse, best-effort structural repair on
// parse failure, shape normalization of the investigation lists, and schema
// validation. Repair and normalization never alter extracted factual
// content; only structural wrapping is permitted.
func RecoverRecord(completion string) (*entities.MedicalRecord, error) {
	cleaned := jsonrepair.StripFences(completion)

	var raw map[string]any
	parseErr := json.Unmarshal([]byte(cleaned), &raw)
	if parseErr != nil {
		repaired := jsonrepair.Repair(cleaned)
		if repairErr := json.Unmarshal([]byte(repaired), &raw); repairErr != nil {
			return nil, &entities.UnparsableOutputError{ParseErr: parseErr, RepairErr: repairErr}
		}
	}

	raw = entities.NormalizeRecordShape(raw)

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, &entities.UnparsableOutputError{ParseErr: parseErr, RepairErr: err}
	}

	var record entities.MedicalRecord
	if err := json.Unmarshal(normalized, &record); err != nil {
		return nil, &entities.SchemaValidationError{Violations: []entities.Violation{decodeViolation(err)}}
	}

	if violations := record.Validate(); len(violations) > 0 {
		return nil, &entities.SchemaValidationError{Violations: violations}
	}

	return &record, nil
}

func decodeViolation(err error) entities.Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return entities.Violation{
			Field:   typeErr.Field,
			Message: "expected " + typeErr.Type.String() + ", got " + typeErr.Value,
		}
	}
	return entities.Violation{Field: "", Message: err.Error()}
}

func (s *ExtractionService) fail(ctx context.Context, documentID string, cause error) error {
	if err := s.documents.SetStructuredRecordStatus(context.WithoutCancel(ctx), documentID, entities.StatusFailed); err != nil {
		s.logger.Error("Failed to mark extraction as failed",
			zap.String("documentID", documentID), zap.Error(err))
	}
	s.logger.Error("Extraction stage failed",
		zap.String("documentID", documentID), zap.Error(cause))
	return cause
}

package entities

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StageStatus represents the processing status of one pipeline stage on a document.
type StageStatus string

const (
	StatusPending    StageStatus = "pending"
	StatusProcessing StageStatus = "processing"
	StatusCompleted  StageStatus = "completed"
	StatusFailed     StageStatus = "failed"
)

// Stage identifies one of the two pipeline stages.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageExtraction    Stage = "extraction"
)

// CanTransitionTo reports whether the status machine permits moving to next.
// pending never jumps straight to a terminal state, and terminal states may
// only move back through processing (a re-run). The repository setters do not
// check this: legality holds by construction of the stage services, whose
// processing write always precedes a terminal write, and crash recovery
// legitimately rewrites processing over a stale processing once the lease
// has expired.
func (s StageStatus) CanTransitionTo(next StageStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed:
		return next == StatusProcessing
	}
	return false
}

// IsTerminal reports whether the status is a terminal state of one invocation.
func (s StageStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is one of the four known statuses.
func (s StageStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// AudioMetadata describes the uploaded recording.
type AudioMetadata struct {
	Duration float64 `json:"duration,omitempty" bson:"duration,omitempty"`
	FileSize int64   `json:"file_size,omitempty" bson:"file_size,omitempty"`
	MimeType string  `json:"mime_type,omitempty" bson:"mime_type,omitempty"`
}

// Document is the unit of work: one uploaded consultation recording plus its
// derived transcript and structured record. The transcript fields are mutated
// only by the transcription stage, the structured record fields only by the
// extraction stage.
type Document struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AudioRef               string             `json:"audio_ref,omitempty" bson:"audio_ref,omitempty"`
	AudioMetadata          *AudioMetadata     `json:"audio_metadata,omitempty" bson:"audio_metadata,omitempty"`
	Transcript             string             `json:"transcript" bson:"transcript"`
	TranscriptStatus       StageStatus        `json:"transcript_status" bson:"transcript_status"`
	StructuredRecord       *MedicalRecord     `json:"structured_record,omitempty" bson:"structured_record,omitempty"`
	StructuredRecordStatus StageStatus        `json:"structured_record_status" bson:"structured_record_status"`
	CreatedAt              time.Time          `json:"created_at" bson:"created_at"`
	LastModifiedAt         time.Time          `json:"last_modified_at" bson:"last_modified_at"`
}

// NewDocument creates a document for a freshly registered recording. Both
// stages start out pending.
func NewDocument(audioRef string, meta *AudioMetadata) *Document {
	now := time.Now()
	return &Document{
		ID:                     primitive.NewObjectID(),
		AudioRef:               audioRef,
		AudioMetadata:          meta,
		Transcript:             "",
		TranscriptStatus:       StatusPending,
		StructuredRecordStatus: StatusPending,
		CreatedAt:              now,
		LastModifiedAt:         now,
	}
}

// StatusFor returns the status of the given stage.
func (d *Document) StatusFor(stage Stage) StageStatus {
	if stage == StageTranscription {
		return d.TranscriptStatus
	}
	return d.StructuredRecordStatus
}

// ReadyForExtraction reports whether the extraction precondition holds:
// a completed, non-empty transcript.
func (d *Document) ReadyForExtraction() bool {
	return d.TranscriptStatus == StatusCompleted && d.Transcript != ""
}

// Validate validates the document data.
func (d *Document) Validate() error {
	if !d.TranscriptStatus.Valid() {
		return errors.New("invalid transcript status")
	}
	if !d.StructuredRecordStatus.Valid() {
		return errors.New("invalid structured record status")
	}
	if d.TranscriptStatus == StatusCompleted && d.Transcript == "" {
		return errors.New("transcript status is completed but transcript is empty")
	}
	if d.StructuredRecordStatus == StatusCompleted && d.StructuredRecord == nil {
		return errors.New("structured record status is completed but record is empty")
	}
	return nil
}

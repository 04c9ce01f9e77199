package api

import (
	"time"

	"github.com/vocamed/scriba/domain/entities"
)

// RegisterDocumentRequest represents the payload registering an uploaded recording
type RegisterDocumentRequest struct {
	AudioRef string  `json:"audio_ref"`
	Duration float64 `json:"duration,omitempty"`
	FileSize int64   `json:"file_size,omitempty"`
	MimeType string  `json:"mime_type,omitempty"`
}

// RegisterDocumentResponse carries the id of a freshly registered document
type RegisterDocumentResponse struct {
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RunExtractionRequest represents the payload triggering the extraction stage
type RunExtractionRequest struct {
	Specialization string `json:"specialization,omitempty"`
}

// TranscriptionResponse carries a completed transcript
type TranscriptionResponse struct {
	DocumentID string `json:"document_id"`
	Transcript string `json:"transcript"`
}

// ExtractionResponse carries a completed structured record
type ExtractionResponse struct {
	DocumentID       string                  `json:"document_id"`
	StructuredRecord *entities.MedicalRecord `json:"structured_record"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

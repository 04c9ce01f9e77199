package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline failure classes. Plain sentinels for the condition-only failures;
// typed errors below where the caller needs the upstream payload.
var (
	// ErrDocumentNotFound means the referenced document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrMissingAudio means the document has no audio reference to transcribe.
	ErrMissingAudio = errors.New("no audio file attached to this document")
	// ErrTranscriptMissing means extraction was requested before a transcript
	// exists. Run transcription first.
	ErrTranscriptMissing = errors.New("no transcript available, run transcription first")
	// ErrStageBusy means another invocation holds the stage lease for this
	// document.
	ErrStageBusy = errors.New("stage already in flight for this document")
)

// ServiceError is an upstream transcription or generation service failure,
// surfaced verbatim with the upstream status and message.
type ServiceError struct {
	Service    string // "transcription" or "generation"
	StatusCode int    // upstream HTTP status, 0 when not an HTTP failure
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s service error (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s service error: %s", e.Service, e.Message)
}

// UnparsableOutputError means the generator's output could not be parsed even
// after structural repair. Both parse errors are kept for diagnosis.
type UnparsableOutputError struct {
	ParseErr  error
	RepairErr error
}

func (e *UnparsableOutputError) Error() string {
	return fmt.Sprintf("generator output is not parsable JSON: %v (after repair: %v)", e.ParseErr, e.RepairErr)
}

// SchemaValidationError means the parsed and normalized generator output
// failed validation against the canonical record schema.
type SchemaValidationError struct {
	Violations []Violation
}

func (e *SchemaValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "structured record failed schema validation: " + strings.Join(msgs, "; ")
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vocamed/scriba/adapters"
	"github.com/vocamed/scriba/domain/entities"
)

func TestDocumentServiceRegister(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	service := NewDocumentService(repo, zaptest.NewLogger(t))

	document, err := service.Register(context.Background(), "recordings/abc", &entities.AudioMetadata{MimeType: "audio/webm"})
	require.NoError(t, err)
	assert.False(t, document.ID.IsZero())
	assert.Equal(t, entities.StatusPending, document.TranscriptStatus)
	assert.Equal(t, entities.StatusPending, document.StructuredRecordStatus)

	stored, err := repo.GetByID(context.Background(), document.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "recordings/abc", stored.AudioRef)
}

func TestDocumentServiceGetMissing(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	service := NewDocumentService(repo, zaptest.NewLogger(t))

	document, err := service.Get(context.Background(), "655f1e4b2e8b9a0012345678")
	require.NoError(t, err)
	assert.Nil(t, document)
}

func TestDocumentServiceStageViews(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	service := NewDocumentService(repo, zaptest.NewLogger(t))

	document, err := service.Register(context.Background(), "recordings/abc", nil)
	require.NoError(t, err)
	id := document.ID.Hex()

	require.NoError(t, repo.SetTranscriptStatus(context.Background(), id, entities.StatusProcessing))
	require.NoError(t, repo.SetTranscript(context.Background(), id, "Pacientul acuză tuse.", entities.StatusCompleted))

	transcriptView, err := service.TranscriptStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, transcriptView.Status)
	assert.Equal(t, "Pacientul acuză tuse.", transcriptView.Transcript)
	assert.Nil(t, transcriptView.StructuredRecord)

	extractionView, err := service.ExtractionStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPending, extractionView.Status)
	assert.Nil(t, extractionView.StructuredRecord)

	missing, err := service.TranscriptStatus(context.Background(), "655f1e4b2e8b9a0012345678")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vocamed/scriba/adapters"
	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

type stubAudioStore struct {
	data       []byte
	resolveErr error
	fetchErr   error
}

func (s *stubAudioStore) ResolveURL(ctx context.Context, audioRef string) (string, error) {
	if s.resolveErr != nil {
		return "", s.resolveErr
	}
	return "https://audio.example.com/" + audioRef, nil
}

func (s *stubAudioStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.data, nil
}

type stubSpeechToText struct {
	transcript string
	err        error
	gotConfig  repositories.AudioConfig
	calls      int
}

func (s *stubSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.calls++
	s.gotConfig = config
	if s.err != nil {
		return "", s.err
	}
	return s.transcript, nil
}

func newTestDocument(t *testing.T, repo *adapters.MemoryDocumentRepository, audioRef string) string {
	t.Helper()
	document := entities.NewDocument(audioRef, &entities.AudioMetadata{MimeType: "audio/webm"})
	require.NoError(t, repo.Create(context.Background(), document))
	return document.ID.Hex()
}

func TestTranscriptionRunSuccess(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "recordings/abc")
	stt := &stubSpeechToText{transcript: "Pacientul acuză cefalee."}
	service := NewTranscriptionService(repo, repo, &stubAudioStore{data: []byte("audio")}, stt, "ro", zaptest.NewLogger(t))

	transcript, err := service.Run(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Pacientul acuză cefalee.", transcript)
	assert.Equal(t, "ro", stt.gotConfig.Language)
	assert.Equal(t, "audio/webm", stt.gotConfig.MimeType)

	document, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, document.TranscriptStatus)
	assert.Equal(t, transcript, document.Transcript)

	// The lease is released so a re-run is immediately possible.
	lease, err := repo.Get(context.Background(), id, entities.StageTranscription)
	require.NoError(t, err)
	assert.Nil(t, lease)
}

func TestTranscriptionRunDocumentNotFound(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	service := NewTranscriptionService(repo, repo, &stubAudioStore{}, &stubSpeechToText{}, "ro", zaptest.NewLogger(t))

	_, err := service.Run(context.Background(), "655f1e4b2e8b9a0012345678")
	assert.ErrorIs(t, err, entities.ErrDocumentNotFound)
}

func TestTranscriptionRunMissingAudio(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "")
	stt := &stubSpeechToText{}
	service := NewTranscriptionService(repo, repo, &stubAudioStore{}, stt, "ro", zaptest.NewLogger(t))

	_, err := service.Run(context.Background(), id)
	assert.ErrorIs(t, err, entities.ErrMissingAudio)
	assert.Zero(t, stt.calls)

	document, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusFailed, document.TranscriptStatus)
}

func TestTranscriptionRunFetchFailure(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "recordings/abc")
	store := &stubAudioStore{fetchErr: errors.New("connection refused")}
	service := NewTranscriptionService(repo, repo, store, &stubSpeechToText{}, "ro", zaptest.NewLogger(t))

	_, err := service.Run(context.Background(), id)

	var serviceErr *entities.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "transcription", serviceErr.Service)

	document, getErr := repo.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, entities.StatusFailed, document.TranscriptStatus)
}

func TestTranscriptionRunSpeechFailure(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "recordings/abc")
	stt := &stubSpeechToText{err: &entities.ServiceError{Service: "transcription", StatusCode: 503, Message: "overloaded"}}
	service := NewTranscriptionService(repo, repo, &stubAudioStore{data: []byte("audio")}, stt, "ro", zaptest.NewLogger(t))

	_, err := service.Run(context.Background(), id)

	var serviceErr *entities.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 503, serviceErr.StatusCode)

	document, getErr := repo.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, entities.StatusFailed, document.TranscriptStatus)
	assert.Empty(t, document.Transcript)
}

func TestTranscriptionRunStageBusy(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "recordings/abc")
	_, err := repo.Acquire(context.Background(), id, entities.StageTranscription, "other-invocation", DefaultLeaseTTL)
	require.NoError(t, err)

	service := NewTranscriptionService(repo, repo, &stubAudioStore{data: []byte("audio")}, &stubSpeechToText{transcript: "text"}, "ro", zaptest.NewLogger(t))

	_, err = service.Run(context.Background(), id)
	assert.ErrorIs(t, err, entities.ErrStageBusy)

	// A busy stage leaves the document untouched.
	document, getErr := repo.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, entities.StatusPending, document.TranscriptStatus)
}

// statusReadingSpeechToText records the transcript status visible while the
// external call is in flight.
type statusReadingSpeechToText struct {
	repo       *adapters.MemoryDocumentRepository
	documentID string
	observed   entities.StageStatus
}

func (s *statusReadingSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	document, err := s.repo.GetByID(ctx, s.documentID)
	if err != nil {
		return "", err
	}
	s.observed = document.TranscriptStatus
	return "Pacientul acuză cefalee.", nil
}

func TestTranscriptionRunStatusSequence(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "recordings/abc")

	before, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPending, before.TranscriptStatus)

	stt := &statusReadingSpeechToText{repo: repo, documentID: id}
	service := NewTranscriptionService(repo, repo, &stubAudioStore{data: []byte("audio")}, stt, "ro", zaptest.NewLogger(t))

	_, err = service.Run(context.Background(), id)
	require.NoError(t, err)

	// Concurrent readers see processing while the call is in flight; the
	// stage never jumps from pending straight to a terminal state.
	assert.Equal(t, entities.StatusProcessing, stt.observed)

	after, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, after.TranscriptStatus)
}

func TestTranscriptionRunRetryAfterFailure(t *testing.T) {
	repo := adapters.NewMemoryDocumentRepository()
	id := newTestDocument(t, repo, "recordings/abc")
	stt := &stubSpeechToText{err: &entities.ServiceError{Service: "transcription", Message: "transient"}}
	service := NewTranscriptionService(repo, repo, &stubAudioStore{data: []byte("audio")}, stt, "ro", zaptest.NewLogger(t))

	_, err := service.Run(context.Background(), id)
	require.Error(t, err)

	stt.err = nil
	stt.transcript = "A doua încercare a reușit."

	transcript, err := service.Run(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "A doua încercare a reușit.", transcript)

	document, getErr := repo.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, entities.StatusCompleted, document.TranscriptStatus)
}

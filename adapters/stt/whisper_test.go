package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

func newWhisperServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *WhisperSpeechToText) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewWhisperSpeechToText(WhisperConfig{
		APIKey:     "test-key",
		APIBaseURL: server.URL,
		Model:      "whisper-1",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return server, adapter
}

func TestWhisperTranscribeAudio(t *testing.T) {
	_, adapter := newWhisperServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "ro", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			file.Close()
			assert.Equal(t, "audio.webm", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "Pacientul acuză dureri toracice."}`))
	})

	transcript, err := adapter.TranscribeAudio(context.Background(), []byte("fake audio"), repositories.AudioConfig{
		MimeType: "audio/webm",
		Language: "ro",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pacientul acuză dureri toracice.", transcript)
}

func TestWhisperTranscribeAudioAPIError(t *testing.T) {
	_, adapter := newWhisperServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	})

	_, err := adapter.TranscribeAudio(context.Background(), []byte("fake audio"), repositories.AudioConfig{Language: "ro"})

	var serviceErr *entities.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "transcription", serviceErr.Service)
	assert.Equal(t, http.StatusTooManyRequests, serviceErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", serviceErr.Message)
}

func TestWhisperTranscribeAudioEmptyText(t *testing.T) {
	_, adapter := newWhisperServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": ""}`))
	})

	_, err := adapter.TranscribeAudio(context.Background(), []byte("fake audio"), repositories.AudioConfig{Language: "ro"})

	var serviceErr *entities.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Contains(t, serviceErr.Message, "no text")
}

func TestWhisperTranscribeAudioEmptyInput(t *testing.T) {
	_, adapter := newWhisperServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty audio")
	})

	_, err := adapter.TranscribeAudio(context.Background(), nil, repositories.AudioConfig{})

	var serviceErr *entities.ServiceError
	require.ErrorAs(t, err, &serviceErr)
}

func TestNewWhisperRequiresAPIKey(t *testing.T) {
	_, err := NewWhisperSpeechToText(WhisperConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestFilenameForMimeType(t *testing.T) {
	assert.Equal(t, "audio.mp3", filenameForMimeType("audio/mpeg"))
	assert.Equal(t, "audio.webm", filenameForMimeType("audio/webm"))
	assert.Equal(t, "audio.m4a", filenameForMimeType("audio/mp4"))
	assert.Equal(t, "audio.wav", filenameForMimeType(""))
	assert.Equal(t, "audio.wav", filenameForMimeType("application/octet-stream"))
}

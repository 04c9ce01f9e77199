package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

const (
	defaultWhisperBaseURL = "https://api.openai.com/v1"
	defaultWhisperModel   = "whisper-1"
	defaultWhisperTimeout = 120 * time.Second
)

// WhisperConfig holds configuration for the WhisperSpeechToText adapter
// Required fields:
// - APIKey: API key for the transcription endpoint
// Optional fields with defaults:
// - APIBaseURL: base URL of an OpenAI-compatible API (default: "https://api.openai.com/v1")
// - Model: transcription model identifier (default: "whisper-1")
// - Timeout: request timeout (default: 120s)
type WhisperConfig struct {
	APIKey     string
	APIBaseURL string
	Model      string
	Timeout    time.Duration
}

// NewWhisperConfigFromEnv builds a WhisperConfig from environment variables.
func NewWhisperConfigFromEnv() WhisperConfig {
	config := WhisperConfig{
		APIKey:     os.Getenv("WHISPER_API_KEY"),
		APIBaseURL: os.Getenv("WHISPER_API_BASE_URL"),
		Model:      os.Getenv("WHISPER_MODEL"),
	}
	return config
}

// WhisperSpeechToText implements SpeechToText against a Whisper-style HTTP
// transcription endpoint: multipart POST with the audio file, model
// identifier and language hint, JSON response carrying a "text" field.
type WhisperSpeechToText struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

// Ensure WhisperSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*WhisperSpeechToText)(nil)

type whisperResponse struct {
	Text string `json:"text"`
}

type whisperErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewWhisperSpeechToText creates a new Whisper HTTP transcription adapter
func NewWhisperSpeechToText(config WhisperConfig, logger *zap.Logger) (*WhisperSpeechToText, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("whisper API key is required")
	}

	baseURL := config.APIBaseURL
	if baseURL == "" {
		baseURL = defaultWhisperBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", baseURL))
	}

	model := config.Model
	if model == "" {
		model = defaultWhisperModel
		logger.Info("Using default transcription model", zap.String("model", model))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultWhisperTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(config.APIKey)

	return &WhisperSpeechToText{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// TranscribeAudio implements repositories.SpeechToText
func (w *WhisperSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", &entities.ServiceError{Service: "transcription", Message: "no audio data received"}
	}

	filename := filenameForMimeType(config.MimeType)

	var result whisperResponse
	var apiErr whisperErrorResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audioData)).
		SetFormData(map[string]string{
			"model":    w.model,
			"language": config.Language,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/audio/transcriptions")
	if err != nil {
		return "", &entities.ServiceError{Service: "transcription", Message: err.Error()}
	}

	if resp.IsError() {
		message := apiErr.Error.Message
		if message == "" {
			message = resp.String()
		}
		w.logger.Error("Transcription request failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", message))
		return "", &entities.ServiceError{
			Service:    "transcription",
			StatusCode: resp.StatusCode(),
			Message:    message,
		}
	}

	if result.Text == "" {
		return "", &entities.ServiceError{
			Service:    "transcription",
			StatusCode: resp.StatusCode(),
			Message:    "transcription response contains no text",
		}
	}

	w.logger.Info("Transcription completed",
		zap.Int("audioSize", len(audioData)),
		zap.Int("transcriptLength", len(result.Text)))

	return result.Text, nil
}

func filenameForMimeType(mimeType string) string {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return "audio.mp3"
	case "audio/webm":
		return "audio.webm"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/flac":
		return "audio.flac"
	case "audio/mp4", "audio/m4a":
		return "audio.m4a"
	default:
		return "audio.wav"
	}
}

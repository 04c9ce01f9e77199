// Package storage adapts the external object-storage collaborator that holds
// uploaded recordings. The pipeline only ever resolves an opaque audio
// reference to a fetchable URL and downloads the bytes behind it.
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/repositories"
)

const defaultFetchTimeout = 60 * time.Second

// HTTPAudioStoreConfig holds configuration for the HTTP audio store
// Optional fields:
// - BaseURL: prefix joined with non-URL audio references
// - Timeout: download timeout (default: 60s)
type HTTPAudioStoreConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPAudioStoreConfigFromEnv builds the config from environment variables.
func NewHTTPAudioStoreConfigFromEnv() HTTPAudioStoreConfig {
	return HTTPAudioStoreConfig{
		BaseURL: os.Getenv("AUDIO_STORE_BASE_URL"),
	}
}

// HTTPAudioStore resolves audio references against a storage service that
// issues fetchable URLs, and downloads audio with a plain HTTP GET.
type HTTPAudioStore struct {
	client  *resty.Client
	baseURL string
	logger  *zap.Logger
}

// Ensure HTTPAudioStore implements the AudioStore interface
var _ repositories.AudioStore = (*HTTPAudioStore)(nil)

// NewHTTPAudioStore creates a new HTTP audio store
func NewHTTPAudioStore(config HTTPAudioStoreConfig, logger *zap.Logger) *HTTPAudioStore {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	return &HTTPAudioStore{
		client:  resty.New().SetTimeout(timeout),
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		logger:  logger,
	}
}

// ResolveURL implements repositories.AudioStore. A reference that is already
// an absolute URL (the storage collaborator handed out a signed one) passes
// through; anything else is joined with the configured base URL.
func (s *HTTPAudioStore) ResolveURL(ctx context.Context, audioRef string) (string, error) {
	if audioRef == "" {
		return "", fmt.Errorf("empty audio reference")
	}
	if strings.HasPrefix(audioRef, "http://") || strings.HasPrefix(audioRef, "https://") {
		return audioRef, nil
	}
	if s.baseURL == "" {
		return "", fmt.Errorf("audio reference %q is not a URL and no audio store base URL is configured", audioRef)
	}
	return s.baseURL + "/" + strings.TrimPrefix(audioRef, "/"), nil
}

// Fetch implements repositories.AudioStore
func (s *HTTPAudioStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download audio: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download audio: status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("audio download returned an empty body")
	}

	s.logger.Info("Audio downloaded", zap.Int("size", len(body)))
	return body, nil
}

package stt

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

// GoogleSpeechToText implements SpeechToText using Google Cloud Speech.
// Whole recordings go through the synchronous Recognize call; credentials
// come from the standard GOOGLE_APPLICATION_CREDENTIALS mechanism.
type GoogleSpeechToText struct {
	logger *zap.Logger
}

// Ensure GoogleSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a new Google Cloud speech-to-text adapter
func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// TranscribeAudio implements repositories.SpeechToText
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", &entities.ServiceError{Service: "transcription", Message: "no audio data received"}
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", &entities.ServiceError{Service: "transcription", Message: "failed to create speech client: " + err.Error()}
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:     encodingForMimeType(config.MimeType),
			LanguageCode: config.Language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", &entities.ServiceError{Service: "transcription", Message: err.Error()}
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	transcript := strings.TrimSpace(strings.Join(parts, " "))
	if transcript == "" {
		return "", &entities.ServiceError{Service: "transcription", Message: "no speech detected in audio"}
	}

	g.logger.Info("Transcription completed",
		zap.Int("audioSize", len(audioData)),
		zap.Int("transcriptLength", len(transcript)))

	return transcript, nil
}

// encodingForMimeType maps an upload MIME type to the Speech API encoding.
// WAV and FLAC headers are self-describing, so unspecified lets the API
// read them from the file itself.
func encodingForMimeType(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	switch mimeType {
	case "audio/ogg":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "audio/webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case "audio/flac":
		return speechpb.RecognitionConfig_FLAC
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

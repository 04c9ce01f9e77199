package stt

import (
	"context"
	"fmt"
	"hash/fnv"

	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition
// used in development mode. It returns canned consultation transcripts.
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

var mockTranscripts = []string{
	"Pacientul se prezintă cu durere acută în regiunea lombară. Simptomele au început acum aproximativ 3 zile. Nu are antecedente de traume. Durerea este descrisă ca fiind ascuțită și radiază pe piciorul stâng. Pacientul raportează dificultăți de somn și mobilitate limitată. I s-au prescris medicamente antiinflamatoare și s-a recomandat fizioterapie.",
	"Consultație ulterioară pentru gestionarea hipertensiunii arteriale. Tensiunea arterială arată o îmbunătățire de la 150/95 la 135/85 mmHg. Pacientul raportează o bună respectare a schemei medicamentoase. Nu s-au observat efecte adverse. Modificările dietei arată rezultate pozitive. Continuați planul de tratament actual și programați următorul control peste 4 săptămâni.",
	"Consultație inițială pentru dureri de cap persistente care apar de 3-4 ori pe săptămână în ultima lună. Pacientul descrie dureri pulsatile în principal în regiunea frontală. Factorii declanșatori includ stresul și lipsa somnului. Nu există tulburări de vedere sau simptome neurologice. Se recomandă modificări ale stilului de viață, tehnici de gestionare a stresului și prescrierea medicației profilactice.",
}

// TranscribeAudio implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.logger.Info("Processing mock speech-to-text",
		zap.Int("audioSize", len(audioData)),
		zap.String("mimeType", config.MimeType),
		zap.String("language", config.Language))

	if len(audioData) == 0 {
		return "", fmt.Errorf("no audio data received")
	}

	// Deterministic pick so repeated runs on the same audio agree.
	h := fnv.New32a()
	h.Write(audioData)
	return mockTranscripts[int(h.Sum32())%len(mockTranscripts)], nil
}

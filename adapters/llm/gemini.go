package llm

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/domain/repositories"
)

const (
	defaultModel = "gemini-2.5-flash"
	// Extraction favors determinism over creativity.
	defaultTemperature = 0.1
)

// GeminiConfig holds configuration for the Gemini generator
// Required fields:
// - APIKey: Google AI API key
// Optional fields with defaults:
// - Model: model identifier (default: "gemini-2.5-flash")
// - Temperature: sampling temperature (default: 0.1)
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// NewGeminiConfigFromEnv builds a GeminiConfig from environment variables.
func NewGeminiConfigFromEnv() GeminiConfig {
	return GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}
}

// GeminiGenerator implements the Generator interface using Google's Gemini API
type GeminiGenerator struct {
	client      *genai.Client
	logger      *zap.Logger
	model       string
	temperature float32
}

// Ensure GeminiGenerator implements the Generator interface
var _ repositories.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new Gemini generator instance
func NewGeminiGenerator(config GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		logger:      logger,
		model:       model,
		temperature: temperature,
	}, nil
}

// Generate implements repositories.Generator
func (g *GeminiGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Error("Failed to generate content", zap.Error(err))
		return "", &entities.ServiceError{Service: "generation", Message: err.Error()}
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", &entities.ServiceError{Service: "generation", Message: "no content generated"}
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", &entities.ServiceError{Service: "generation", Message: "empty completion"}
	}

	g.logger.Info("Generation completed",
		zap.String("model", g.model),
		zap.Int("completionLength", len(text)))

	return text, nil
}

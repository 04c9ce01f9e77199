package llm

import (
	"context"
	"strings"

	"github.com/vocamed/scriba/domain/repositories"
)

// MockGenerator is a deterministic generator for development mode and tests.
// It answers with a minimal extraction for a hypertension consultation and a
// generic record for everything else.
type MockGenerator struct{}

// Ensure MockGenerator implements the Generator interface
var _ repositories.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a new mock generator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate implements repositories.Generator
func (m *MockGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "hipertensiune") {
		return "```json\n" + `{
  "diagnosis": { "main": "Hipertensiune arterială" },
  "examination": {
    "vitalSigns": {
      "bloodPressure": "140/90 mmHg",
      "heartRate": 88
    }
  }
}` + "\n```", nil
	}

	return `{
  "complaints": { "chief": "Consultație generală" },
  "clinicalNotes": { "conclusion": "Fără modificări patologice semnificative." }
}`, nil
}

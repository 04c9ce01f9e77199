package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateBySpecialization(t *testing.T) {
	tests := []struct {
		name           string
		specialization string
		wantTemplate   bool
	}{
		{"exact key", "CARDIOLOGIE", true},
		{"lowercase", "cardiologie", true},
		{"mixed case with spaces", "Medicina  Interna", true},
		{"surrounding whitespace", "  pneumologie ", true},
		{"unknown specialization", "DERMATOLOGIE", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TemplateBySpecialization(tt.specialization)
			if tt.wantTemplate {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestTemplateContent(t *testing.T) {
	cardio := TemplateBySpecialization("CARDIOLOGIE")
	assert.Contains(t, cardio, "Ecocardiografie")
	assert.Contains(t, cardio, "ECG")

	pneumo := TemplateBySpecialization("PNEUMOLOGIE")
	assert.Contains(t, pneumo, "Spirometrie")
	assert.Contains(t, pneumo, "oxygenSaturation")
}

func TestBuildExtractionPrompt(t *testing.T) {
	transcript := "Pacientul acuză cefalee de 3 zile."

	withoutTemplate := BuildExtractionPrompt(transcript, "")
	assert.Contains(t, withoutTemplate, transcript)
	assert.NotContains(t, withoutTemplate, "TEMPLATE PREFERAT")

	template := TemplateBySpecialization("ORTOPEDIE")
	withTemplate := BuildExtractionPrompt(transcript, template)
	assert.Contains(t, withTemplate, transcript)
	assert.Contains(t, withTemplate, "TEMPLATE PREFERAT")
	assert.Contains(t, withTemplate, "Radiografie")
	assert.True(t, strings.Index(withTemplate, transcript) < strings.Index(withTemplate, "TEMPLATE PREFERAT"),
		"transcript must precede the template")
}

func TestSystemPromptEnumInstructions(t *testing.T) {
	assert.Contains(t, SystemPrompt, "mild, moderate, severe, critical")
	assert.Contains(t, SystemPrompt, "first-visit, follow-up, emergency, teleconsultation")
	assert.Contains(t, SystemPrompt, "M, F, unknown")
}

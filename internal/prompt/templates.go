package prompt

import (
	"regexp"
	"strings"
)

// Skeletons steering the extraction output per medical specialization.
var templates = map[string]string{
	"CARDIOLOGIE": `{
  "diagnosis": { "main": "..." },
  "examination": {
    "vitalSigns": {
      "bloodPressure": "...",
      "heartRate": ...
    }
  },
  "investigations": {
    "imaging": [{
      "type": "Ecocardiografie",
      "findings": "..."
    }],
    "other": [{
      "type": "ECG",
      "findings": "..."
    }]
  },
  "treatment": {
    "medications": [...]
  },
  "recommendations": {
    "followUp": { "date": "..." }
  }
}`,

	"ORTOPEDIE": `{
  "diagnosis": { "main": "..." },
  "complaints": {
    "chief": "...",
    "symptoms": [...],
    "duration": "..."
  },
  "examination": {
    "systemicExamination": "..."
  },
  "investigations": {
    "imaging": [{
      "type": "Radiografie",
      "findings": "..."
    }]
  },
  "treatment": {
    "medications": [...],
    "nonPharmacological": [...]
  }
}`,

	"MEDICINA_INTERNA": `{
  "diagnosis": {
    "main": "...",
    "additional": [...]
  },
  "complaints": {
    "chief": "...",
    "symptoms": [...]
  },
  "history": {
    "pastMedical": [...],
    "medications": [...]
  },
  "examination": {
    "general": "...",
    "vitalSigns": {...}
  },
  "investigations": {
    "laboratory": [...],
    "imaging": [...]
  },
  "treatment": {
    "medications": [...]
  },
  "recommendations": {
    "lifestyle": [...],
    "diet": [...],
    "followUp": {...}
  }
}`,

	"PNEUMOLOGIE": `{
  "diagnosis": { "main": "..." },
  "complaints": {
    "chief": "...",
    "symptoms": [...]
  },
  "examination": {
    "vitalSigns": {
      "oxygenSaturation": ...,
      "respiratoryRate": ...
    },
    "systemicExamination": "..."
  },
  "investigations": {
    "imaging": [{
      "type": "Radiografie toracică",
      "findings": "..."
    }],
    "other": [{
      "type": "Spirometrie",
      "findings": "..."
    }]
  },
  "treatment": {
    "medications": [...]
  }
}`,
}

var whitespace = regexp.MustCompile(`\s+`)

// TemplateBySpecialization maps a free-text specialization label to its
// output skeleton. The lookup key is uppercased with whitespace collapsed to
// single underscores. An unknown specialization returns the empty string;
// a miss is never an error, extraction simply proceeds without a template.
func TemplateBySpecialization(specialization string) string {
	normalized := whitespace.ReplaceAllString(strings.TrimSpace(strings.ToUpper(specialization)), "_")
	return templates[normalized]
}

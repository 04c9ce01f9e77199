package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindingsUnmarshal(t *testing.T) {
	var single Findings
	require.NoError(t, json.Unmarshal([]byte(`"opacitate bazală dreaptă"`), &single))
	assert.Equal(t, Findings{"opacitate bazală dreaptă"}, single)

	var many Findings
	require.NoError(t, json.Unmarshal([]byte(`["opacitate","cardiomegalie"]`), &many))
	assert.Equal(t, Findings{"opacitate", "cardiomegalie"}, many)

	var bad Findings
	assert.Error(t, json.Unmarshal([]byte(`{"text":"x"}`), &bad))
}

func TestFindingsMarshal(t *testing.T) {
	out, err := json.Marshal(Findings{"opacitate"})
	require.NoError(t, err)
	assert.Equal(t, `"opacitate"`, string(out))

	out, err = json.Marshal(Findings{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(out))
}

func TestNormalizeRecordShapeWrapsSingleObject(t *testing.T) {
	raw := map[string]any{
		"investigations": map[string]any{
			"imaging": map[string]any{"type": "radiografie", "findings": "opacitate"},
		},
	}

	NormalizeRecordShape(raw)

	inv := raw["investigations"].(map[string]any)
	imaging, ok := inv["imaging"].([]any)
	require.True(t, ok, "single imaging object must be wrapped into a list")
	require.Len(t, imaging, 1)
	assert.Equal(t, "radiografie", imaging[0].(map[string]any)["type"])
}

func TestNormalizeRecordShapeSynthesizesObjects(t *testing.T) {
	raw := map[string]any{
		"investigations": map[string]any{
			"laboratory": []any{"glicemie 110 mg/dl"},
			"imaging":    []any{"opacitate bazală"},
			"other":      "EKG normal",
		},
	}

	NormalizeRecordShape(raw)

	inv := raw["investigations"].(map[string]any)

	lab := inv["laboratory"].([]any)[0].(map[string]any)
	assert.Equal(t, "test", lab["test"])
	assert.Equal(t, "glicemie 110 mg/dl", lab["result"])

	img := inv["imaging"].([]any)[0].(map[string]any)
	assert.Equal(t, "imaging", img["type"])
	assert.Equal(t, "opacitate bazală", img["findings"])

	other := inv["other"].([]any)[0].(map[string]any)
	assert.Equal(t, "other", other["type"])
	assert.Equal(t, "EKG normal", other["findings"])
}

func TestNormalizeRecordShapeFixedPoint(t *testing.T) {
	raw := map[string]any{
		"investigations": map[string]any{
			"laboratory": []any{map[string]any{"test": "glicemie", "result": "110"}},
		},
	}

	NormalizeRecordShape(raw)
	first, err := json.Marshal(raw)
	require.NoError(t, err)

	NormalizeRecordShape(raw)
	second, err := json.Marshal(raw)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestNormalizeRecordShapeNoInvestigations(t *testing.T) {
	raw := map[string]any{"diagnosis": map[string]any{"main": "HTA"}}
	assert.Equal(t, raw, NormalizeRecordShape(raw))
	assert.Nil(t, NormalizeRecordShape(nil))
}

func TestRecordValidateEnums(t *testing.T) {
	age := 54.0
	record := &MedicalRecord{
		PatientInfo: &PatientInfo{Gender: "masculin", Age: &age},
		Complaints:  &Complaints{Severity: "sever"},
		Metadata:    &RecordMetadata{ConsultationType: "control"},
	}

	violations := record.Validate()
	require.Len(t, violations, 3)

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "patientInfo.gender")
	assert.Contains(t, fields, "complaints.severity")
	assert.Contains(t, fields, "metadata.consultationType")
}

func TestRecordValidateRequiredFields(t *testing.T) {
	record := &MedicalRecord{
		Diagnosis: &Diagnosis{},
		Investigations: &Investigations{
			Laboratory: []LabResult{{Unit: "mg/dl"}},
			Imaging:    []ImagingResult{{}},
			Other:      []OtherInvestigation{{Type: "EKG"}},
		},
		Treatment: &Treatment{Medications: []Medication{{Dosage: "10mg"}}},
	}

	violations := record.Validate()

	byField := make(map[string]bool, len(violations))
	for _, v := range violations {
		byField[v.Field] = true
	}
	assert.True(t, byField["diagnosis.main"])
	assert.True(t, byField["investigations.laboratory[0].test"])
	assert.True(t, byField["investigations.laboratory[0].result"])
	assert.True(t, byField["investigations.imaging[0].type"])
	assert.True(t, byField["investigations.imaging[0].findings"])
	assert.True(t, byField["investigations.other[0].findings"])
	assert.True(t, byField["treatment.medications[0].name"])
	assert.False(t, byField["investigations.other[0].type"])
}

func TestRecordValidateVitals(t *testing.T) {
	zero := 0.0
	sat := 120.0
	record := &MedicalRecord{
		Examination: &Examination{VitalSigns: &VitalSigns{
			HeartRate:        &zero,
			OxygenSaturation: &sat,
		}},
	}

	violations := record.Validate()
	require.Len(t, violations, 2)
	assert.Equal(t, "examination.vitalSigns.heartRate", violations[0].Field)
	assert.Equal(t, "examination.vitalSigns.oxygenSaturation", violations[1].Field)
}

func TestRecordValidateAcceptsCanonicalRecord(t *testing.T) {
	age := 54.0
	hr := 88.0
	record := &MedicalRecord{
		PatientInfo: &PatientInfo{Name: "Ion Popescu", Age: &age, Gender: GenderMale},
		Diagnosis:   &Diagnosis{Main: "Hipertensiune arterială esențială", ICD10Code: "I10"},
		Complaints:  &Complaints{Chief: "cefalee", Severity: "moderate"},
		Examination: &Examination{VitalSigns: &VitalSigns{BloodPressure: "140/90", HeartRate: &hr}},
		Investigations: &Investigations{
			Laboratory: []LabResult{{Test: "glicemie", Result: "110", Unit: "mg/dl"}},
			Imaging:    []ImagingResult{{Type: "radiografie toracică", Findings: Findings{"fără leziuni active"}}},
		},
		Treatment: &Treatment{Medications: []Medication{{Name: "Perindopril", Dosage: "5mg", Frequency: "1/zi"}}},
		Metadata:  &RecordMetadata{ConsultationType: "first-visit", Specialization: "CARDIOLOGIE"},
	}

	assert.Empty(t, record.Validate())
}

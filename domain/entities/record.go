package entities

import (
	"encoding/json"
	"fmt"
)

// Enumerated values of the canonical record. The generator is instructed to
// emit exactly these; anything else fails validation.
const (
	GenderMale    = "M"
	GenderFemale  = "F"
	GenderUnknown = "unknown"
)

var KnownSeverities = []string{"mild", "moderate", "severe", "critical"}

var KnownConsultationTypes = []string{"first-visit", "follow-up", "emergency", "teleconsultation"}

// Findings is either a single free-text finding or a list of findings. The
// generator emits both shapes for imaging results.
type Findings []string

func (f *Findings) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = Findings{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("findings must be a string or a list of strings: %w", err)
	}
	*f = many
	return nil
}

func (f Findings) MarshalJSON() ([]byte, error) {
	if len(f) == 1 {
		return json.Marshal(f[0])
	}
	return json.Marshal([]string(f))
}

// PatientInfo holds the patient details mentioned in the transcript.
type PatientInfo struct {
	Name   string   `json:"name,omitempty" bson:"name,omitempty"`
	Age    *float64 `json:"age,omitempty" bson:"age,omitempty"`
	Gender string   `json:"gender,omitempty" bson:"gender,omitempty"`
}

// Diagnosis holds the main and secondary diagnoses. Main is required whenever
// the section is present.
type Diagnosis struct {
	Main       string   `json:"main" bson:"main"`
	Additional []string `json:"additional,omitempty" bson:"additional,omitempty"`
	ICD10Code  string   `json:"icd10Code,omitempty" bson:"icd10_code,omitempty"`
}

// Complaints captures the patient's reported symptoms.
type Complaints struct {
	Chief    string   `json:"chief,omitempty" bson:"chief,omitempty"`
	Symptoms []string `json:"symptoms,omitempty" bson:"symptoms,omitempty"`
	Duration string   `json:"duration,omitempty" bson:"duration,omitempty"`
	Severity string   `json:"severity,omitempty" bson:"severity,omitempty"`
}

// VitalSigns holds the vitals mentioned during examination.
type VitalSigns struct {
	BloodPressure    string   `json:"bloodPressure,omitempty" bson:"blood_pressure,omitempty"`
	HeartRate        *float64 `json:"heartRate,omitempty" bson:"heart_rate,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	RespiratoryRate  *float64 `json:"respiratoryRate,omitempty" bson:"respiratory_rate,omitempty"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty" bson:"oxygen_saturation,omitempty"`
}

// Examination holds physical examination findings.
type Examination struct {
	General             string      `json:"general,omitempty" bson:"general,omitempty"`
	VitalSigns          *VitalSigns `json:"vitalSigns,omitempty" bson:"vital_signs,omitempty"`
	SystemicExamination string      `json:"systemicExamination,omitempty" bson:"systemic_examination,omitempty"`
}

// LabResult is one laboratory test result.
type LabResult struct {
	Test        string `json:"test" bson:"test"`
	Result      string `json:"result" bson:"result"`
	Unit        string `json:"unit,omitempty" bson:"unit,omitempty"`
	NormalRange string `json:"normalRange,omitempty" bson:"normal_range,omitempty"`
}

// ImagingResult is one imaging investigation.
type ImagingResult struct {
	Type     string   `json:"type" bson:"type"`
	Findings Findings `json:"findings" bson:"findings"`
	Date     string   `json:"date,omitempty" bson:"date,omitempty"`
}

// OtherInvestigation is any investigation that is neither laboratory nor imaging.
type OtherInvestigation struct {
	Type     string `json:"type" bson:"type"`
	Findings string `json:"findings" bson:"findings"`
}

// Investigations groups test results by kind.
type Investigations struct {
	Laboratory []LabResult          `json:"laboratory,omitempty" bson:"laboratory,omitempty"`
	Imaging    []ImagingResult      `json:"imaging,omitempty" bson:"imaging,omitempty"`
	Other      []OtherInvestigation `json:"other,omitempty" bson:"other,omitempty"`
}

// History holds the patient's medical history.
type History struct {
	PresentIllness string   `json:"presentIllness,omitempty" bson:"present_illness,omitempty"`
	PastMedical    []string `json:"pastMedical,omitempty" bson:"past_medical,omitempty"`
	FamilyHistory  []string `json:"familyHistory,omitempty" bson:"family_history,omitempty"`
	Allergies      []string `json:"allergies,omitempty" bson:"allergies,omitempty"`
	Medications    []string `json:"medications,omitempty" bson:"medications,omitempty"`
}

// Medication is one prescribed medication.
type Medication struct {
	Name         string `json:"name" bson:"name"`
	Dosage       string `json:"dosage" bson:"dosage"`
	Frequency    string `json:"frequency" bson:"frequency"`
	Duration     string `json:"duration,omitempty" bson:"duration,omitempty"`
	Route        string `json:"route,omitempty" bson:"route,omitempty"`
	Instructions string `json:"instructions,omitempty" bson:"instructions,omitempty"`
}

// Treatment holds the prescribed treatment plan.
type Treatment struct {
	Medications        []Medication `json:"medications,omitempty" bson:"medications,omitempty"`
	Procedures         []string     `json:"procedures,omitempty" bson:"procedures,omitempty"`
	NonPharmacological []string     `json:"nonPharmacological,omitempty" bson:"non_pharmacological,omitempty"`
}

// FollowUp holds the next-consultation details.
type FollowUp struct {
	Date       string `json:"date,omitempty" bson:"date,omitempty"`
	Reason     string `json:"reason,omitempty" bson:"reason,omitempty"`
	Specialist string `json:"specialist,omitempty" bson:"specialist,omitempty"`
}

// Recommendations holds patient instructions and follow-up planning.
type Recommendations struct {
	Lifestyle       []string  `json:"lifestyle,omitempty" bson:"lifestyle,omitempty"`
	Diet            []string  `json:"diet,omitempty" bson:"diet,omitempty"`
	FollowUp        *FollowUp `json:"followUp,omitempty" bson:"follow_up,omitempty"`
	AdditionalTests []string  `json:"additionalTests,omitempty" bson:"additional_tests,omitempty"`
	Warnings        []string  `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// ClinicalNotes holds the doctor's free-form notes.
type ClinicalNotes struct {
	Conclusion            string   `json:"conclusion,omitempty" bson:"conclusion,omitempty"`
	AdditionalNotes       string   `json:"additionalNotes,omitempty" bson:"additional_notes,omitempty"`
	DifferentialDiagnosis []string `json:"differentialDiagnosis,omitempty" bson:"differential_diagnosis,omitempty"`
}

// RecordMetadata holds administrative details of the consultation.
type RecordMetadata struct {
	ConsultationDate string `json:"consultationDate,omitempty" bson:"consultation_date,omitempty"`
	ConsultationType string `json:"consultationType,omitempty" bson:"consultation_type,omitempty"`
	Specialization   string `json:"specialization,omitempty" bson:"specialization,omitempty"`
	DoctorName       string `json:"doctorName,omitempty" bson:"doctor_name,omitempty"`
}

// MedicalRecord is the canonical structured medical record extracted from a
// consultation transcript. Every section is optional: absence means the
// transcript did not mention it, never that it was inferred.
type MedicalRecord struct {
	PatientInfo     *PatientInfo     `json:"patientInfo,omitempty" bson:"patient_info,omitempty"`
	Diagnosis       *Diagnosis       `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Complaints      *Complaints      `json:"complaints,omitempty" bson:"complaints,omitempty"`
	Examination     *Examination     `json:"examination,omitempty" bson:"examination,omitempty"`
	Investigations  *Investigations  `json:"investigations,omitempty" bson:"investigations,omitempty"`
	History         *History         `json:"history,omitempty" bson:"history,omitempty"`
	Treatment       *Treatment       `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty" bson:"recommendations,omitempty"`
	ClinicalNotes   *ClinicalNotes   `json:"clinicalNotes,omitempty" bson:"clinical_notes,omitempty"`
	Metadata        *RecordMetadata  `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

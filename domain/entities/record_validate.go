package entities

import "fmt"

// Violation is one field-level schema violation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks the record against the canonical schema rules and returns
// every violation found. An empty result means the record is valid. This is
// the final gate after syntactic repair and shape normalization: nothing
// permissive happens past this point.
func (r *MedicalRecord) Validate() []Violation {
	var violations []Violation
	add := func(field, format string, args ...any) {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if p := r.PatientInfo; p != nil {
		if p.Gender != "" && p.Gender != GenderMale && p.Gender != GenderFemale && p.Gender != GenderUnknown {
			add("patientInfo.gender", "must be one of M, F, unknown; got %q", p.Gender)
		}
		if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
			add("patientInfo.age", "out of range: %v", *p.Age)
		}
	}

	if d := r.Diagnosis; d != nil {
		if d.Main == "" {
			add("diagnosis.main", "required when diagnosis is present")
		}
	}

	if c := r.Complaints; c != nil {
		if c.Severity != "" && !contains(KnownSeverities, c.Severity) {
			add("complaints.severity", "must be one of %v; got %q", KnownSeverities, c.Severity)
		}
	}

	if e := r.Examination; e != nil && e.VitalSigns != nil {
		vs := e.VitalSigns
		if vs.HeartRate != nil && *vs.HeartRate <= 0 {
			add("examination.vitalSigns.heartRate", "must be positive; got %v", *vs.HeartRate)
		}
		if vs.OxygenSaturation != nil && (*vs.OxygenSaturation <= 0 || *vs.OxygenSaturation > 100) {
			add("examination.vitalSigns.oxygenSaturation", "must be a percentage; got %v", *vs.OxygenSaturation)
		}
		if vs.RespiratoryRate != nil && *vs.RespiratoryRate <= 0 {
			add("examination.vitalSigns.respiratoryRate", "must be positive; got %v", *vs.RespiratoryRate)
		}
	}

	if inv := r.Investigations; inv != nil {
		for i, lab := range inv.Laboratory {
			if lab.Test == "" {
				add(fmt.Sprintf("investigations.laboratory[%d].test", i), "required")
			}
			if lab.Result == "" {
				add(fmt.Sprintf("investigations.laboratory[%d].result", i), "required")
			}
		}
		for i, img := range inv.Imaging {
			if img.Type == "" {
				add(fmt.Sprintf("investigations.imaging[%d].type", i), "required")
			}
			if len(img.Findings) == 0 {
				add(fmt.Sprintf("investigations.imaging[%d].findings", i), "required")
			}
		}
		for i, other := range inv.Other {
			if other.Type == "" {
				add(fmt.Sprintf("investigations.other[%d].type", i), "required")
			}
			if other.Findings == "" {
				add(fmt.Sprintf("investigations.other[%d].findings", i), "required")
			}
		}
	}

	if t := r.Treatment; t != nil {
		for i, med := range t.Medications {
			if med.Name == "" {
				add(fmt.Sprintf("treatment.medications[%d].name", i), "required")
			}
		}
	}

	if m := r.Metadata; m != nil {
		if m.ConsultationType != "" && !contains(KnownConsultationTypes, m.ConsultationType) {
			add("metadata.consultationType", "must be one of %v; got %q", KnownConsultationTypes, m.ConsultationType)
		}
	}

	return violations
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

package resolve

// Payload is the subject payload handed to external fetches.
type Payload map[string]any

// ClinicalContext carries the caller-supplied identifiers that parameterize
// external data resolution. Fields not covered by the named attributes travel
// in Extra.
type ClinicalContext struct {
	PatientID       string
	AdmissionID     string
	ClinicianID     string
	ClinicianName   string
	AppointmentDate string
	AdmissionDate   string
	Extra           map[string]any
}

// Value reads a context attribute by the key a CONTEXT_API catalog entry
// declares. Unknown keys fall back to Extra.
func (c ClinicalContext) Value(key string) (any, bool) {
	switch key {
	case "patientId":
		return nonEmpty(c.PatientID)
	case "admissionId":
		return nonEmpty(c.AdmissionID)
	case "clinicianId":
		return nonEmpty(c.ClinicianID)
	case "clinicianName":
		return nonEmpty(c.ClinicianName)
	case "appointmentDate":
		return nonEmpty(c.AppointmentDate)
	case "admissionDate":
		return nonEmpty(c.AdmissionDate)
	}
	value, ok := c.Extra[key]
	return value, ok
}

// SubjectID identifies the subject of a fetch for request coalescing: the
// patient when known, otherwise the admission.
func (c ClinicalContext) SubjectID() string {
	if c.PatientID != "" {
		return c.PatientID
	}
	return c.AdmissionID
}

// SubjectPayload builds the payload sent with external fetches.
func (c ClinicalContext) SubjectPayload() Payload {
	payload := Payload{}
	if c.PatientID != "" {
		payload["patientId"] = c.PatientID
	}
	if c.AdmissionID != "" {
		payload["admissionId"] = c.AdmissionID
	}
	if c.AppointmentDate != "" {
		payload["appointmentDate"] = c.AppointmentDate
	}
	return payload
}

func nonEmpty(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}

package fhir

import "encoding/json"

// AllergyIntolerance records a propensity to an adverse reaction to a
// substance, plus any reactions observed.
type AllergyIntolerance struct {
	ID                 string
	Identifier         []Identifier
	ClinicalStatus     *CodeableConcept
	VerificationStatus *CodeableConcept
	Type               string
	Category           []string
	Criticality        string
	Code               *CodeableConcept
	Patient            *Reference
	Onset              AllergyOnset
	RecordedDate       string
	Recorder           *Reference
	Note               []Annotation
	Reaction           []AllergyReaction
}

// AllergyReaction is one adverse event attributed to the allergy.
type AllergyReaction struct {
	Substance     *CodeableConcept  `json:"substance,omitempty"`
	Manifestation []CodeableConcept `json:"manifestation,omitempty"`
	Onset         string            `json:"onset,omitempty"`
	Severity      string            `json:"severity,omitempty"`
}

func (a *AllergyIntolerance) ResourceType() string { return "AllergyIntolerance" }
func (a *AllergyIntolerance) ResourceID() string   { return a.ID }
func (a *AllergyIntolerance) Key() Key             { return Key{Type: a.ResourceType(), ID: a.ID} }

func (a *AllergyIntolerance) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType       string            `json:"resourceType"`
		ID                 string            `json:"id,omitempty"`
		Identifier         []Identifier      `json:"identifier,omitempty"`
		ClinicalStatus     *CodeableConcept  `json:"clinicalStatus,omitempty"`
		VerificationStatus *CodeableConcept  `json:"verificationStatus,omitempty"`
		Type               string            `json:"type,omitempty"`
		Category           []string          `json:"category,omitempty"`
		Criticality        string            `json:"criticality,omitempty"`
		Code               *CodeableConcept  `json:"code,omitempty"`
		Patient            *Reference        `json:"patient,omitempty"`
		OnsetDateTime      string            `json:"onsetDateTime,omitempty"`
		OnsetPeriod        *Period           `json:"onsetPeriod,omitempty"`
		RecordedDate       string            `json:"recordedDate,omitempty"`
		Recorder           *Reference        `json:"recorder,omitempty"`
		Note               []Annotation      `json:"note,omitempty"`
		Reaction           []AllergyReaction `json:"reaction,omitempty"`
	}{
		ResourceType:       a.ResourceType(),
		ID:                 a.ID,
		Identifier:         a.Identifier,
		ClinicalStatus:     a.ClinicalStatus,
		VerificationStatus: a.VerificationStatus,
		Type:               a.Type,
		Category:           a.Category,
		Criticality:        a.Criticality,
		Code:               a.Code,
		Patient:            a.Patient,
		RecordedDate:       a.RecordedDate,
		Recorder:           a.Recorder,
		Note:               a.Note,
		Reaction:           a.Reaction,
	}

	switch v := a.Onset.(type) {
	case OnsetDateTime:
		w.OnsetDateTime = v.Value
	case OnsetPeriod:
		p := v.Value
		w.OnsetPeriod = &p
	}

	return json.Marshal(w)
}

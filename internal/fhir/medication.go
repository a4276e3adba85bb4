package fhir

import "encoding/json"

// MedicationStatement records that the subject is, was, or should be taking
// a medication. The medication itself is a choice between an inline concept
// and a reference to a contained Medication resource.
type MedicationStatement struct {
	ID                string
	Identifier        []Identifier
	Status            string
	Medication        MedicationForm
	Subject           *Reference
	Effective         MedicationEffective
	DateAsserted      string
	InformationSource *Reference
	Note              []Annotation
	Dosage            []Dosage
}

func (m *MedicationStatement) ResourceType() string { return "MedicationStatement" }
func (m *MedicationStatement) ResourceID() string   { return m.ID }
func (m *MedicationStatement) Key() Key             { return Key{Type: m.ResourceType(), ID: m.ID} }

func (m *MedicationStatement) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType              string           `json:"resourceType"`
		ID                        string           `json:"id,omitempty"`
		Identifier                []Identifier     `json:"identifier,omitempty"`
		Status                    string           `json:"status,omitempty"`
		MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
		MedicationReference       *Reference       `json:"medicationReference,omitempty"`
		Subject                   *Reference       `json:"subject,omitempty"`
		EffectiveDateTime         string           `json:"effectiveDateTime,omitempty"`
		EffectivePeriod           *Period          `json:"effectivePeriod,omitempty"`
		DateAsserted              string           `json:"dateAsserted,omitempty"`
		InformationSource         *Reference       `json:"informationSource,omitempty"`
		Note                      []Annotation     `json:"note,omitempty"`
		Dosage                    []Dosage         `json:"dosage,omitempty"`
	}{
		ResourceType:      m.ResourceType(),
		ID:                m.ID,
		Identifier:        m.Identifier,
		Status:            m.Status,
		Subject:           m.Subject,
		DateAsserted:      m.DateAsserted,
		InformationSource: m.InformationSource,
		Note:              m.Note,
		Dosage:            m.Dosage,
	}

	switch v := m.Medication.(type) {
	case MedicationConcept:
		cc := v.Value
		w.MedicationCodeableConcept = &cc
	case MedicationReference:
		r := v.Value
		w.MedicationReference = &r
	}
	switch v := m.Effective.(type) {
	case EffectiveDateTime:
		w.EffectiveDateTime = v.Value
	case EffectivePeriod:
		p := v.Value
		w.EffectivePeriod = &p
	}

	return json.Marshal(w)
}

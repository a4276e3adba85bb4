package fhir

import "encoding/json"

// Encounter records an interaction between the subject and a provider:
// an office visit, an admission, an emergency presentation.
type Encounter struct {
	ID          string
	Identifier  []Identifier
	Status      string
	Class       *Coding
	Type        []CodeableConcept
	Subject     *Reference
	Participant []EncounterParticipant
	Period      *Period
	Diagnosis   []EncounterDiagnosis
}

// EncounterParticipant names a person involved in the encounter.
type EncounterParticipant struct {
	Type       []CodeableConcept `json:"type,omitempty"`
	Individual *Reference        `json:"individual,omitempty"`
}

// EncounterDiagnosis links a condition addressed during the encounter.
type EncounterDiagnosis struct {
	Condition *Reference       `json:"condition,omitempty"`
	Use       *CodeableConcept `json:"use,omitempty"`
}

func (e *Encounter) ResourceType() string { return "Encounter" }
func (e *Encounter) ResourceID() string   { return e.ID }
func (e *Encounter) Key() Key             { return Key{Type: e.ResourceType(), ID: e.ID} }

func (e *Encounter) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType string                 `json:"resourceType"`
		ID           string                 `json:"id,omitempty"`
		Identifier   []Identifier           `json:"identifier,omitempty"`
		Status       string                 `json:"status,omitempty"`
		Class        *Coding                `json:"class,omitempty"`
		Type         []CodeableConcept      `json:"type,omitempty"`
		Subject      *Reference             `json:"subject,omitempty"`
		Participant  []EncounterParticipant `json:"participant,omitempty"`
		Period       *Period                `json:"period,omitempty"`
		Diagnosis    []EncounterDiagnosis   `json:"diagnosis,omitempty"`
	}{
		ResourceType: e.ResourceType(),
		ID:           e.ID,
		Identifier:   e.Identifier,
		Status:       e.Status,
		Class:        e.Class,
		Type:         e.Type,
		Subject:      e.Subject,
		Participant:  e.Participant,
		Period:       e.Period,
		Diagnosis:    e.Diagnosis,
	}
	return json.Marshal(w)
}

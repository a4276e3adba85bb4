package fhir

import "encoding/json"

// Device is a supplied instrument or implant associated with the subject.
type Device struct {
	ID         string
	Identifier []Identifier
	Status     string
	Type       *CodeableConcept
	LotNumber  string
	Patient    *Reference
	Note       []Annotation
}

func (d *Device) ResourceType() string { return "Device" }
func (d *Device) ResourceID() string   { return d.ID }
func (d *Device) Key() Key             { return Key{Type: d.ResourceType(), ID: d.ID} }

func (d *Device) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType string           `json:"resourceType"`
		ID           string           `json:"id,omitempty"`
		Identifier   []Identifier     `json:"identifier,omitempty"`
		Status       string           `json:"status,omitempty"`
		Type         *CodeableConcept `json:"type,omitempty"`
		LotNumber    string           `json:"lotNumber,omitempty"`
		Patient      *Reference       `json:"patient,omitempty"`
		Note         []Annotation     `json:"note,omitempty"`
	}{
		ResourceType: d.ResourceType(),
		ID:           d.ID,
		Identifier:   d.Identifier,
		Status:       d.Status,
		Type:         d.Type,
		LotNumber:    d.LotNumber,
		Patient:      d.Patient,
		Note:         d.Note,
	}
	return json.Marshal(w)
}

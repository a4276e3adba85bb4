package fhir

import "encoding/json"

// Patient is the subject of the document. Every clinical resource in the
// bundle points back at it.
type Patient struct {
	ID            string
	Identifier    []Identifier
	Name          []HumanName
	Telecom       []ContactPoint
	Gender        string
	BirthDate     string
	Address       []Address
	MaritalStatus *CodeableConcept
	Communication []PatientCommunication
}

// PatientCommunication names a language the patient can use.
type PatientCommunication struct {
	Language  *CodeableConcept `json:"language,omitempty"`
	Preferred bool             `json:"preferred,omitempty"`
}

func (p *Patient) ResourceType() string { return "Patient" }
func (p *Patient) ResourceID() string   { return p.ID }
func (p *Patient) Key() Key             { return Key{Type: p.ResourceType(), ID: p.ID} }

func (p *Patient) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType  string                 `json:"resourceType"`
		ID            string                 `json:"id,omitempty"`
		Identifier    []Identifier           `json:"identifier,omitempty"`
		Name          []HumanName            `json:"name,omitempty"`
		Telecom       []ContactPoint         `json:"telecom,omitempty"`
		Gender        string                 `json:"gender,omitempty"`
		BirthDate     string                 `json:"birthDate,omitempty"`
		Address       []Address              `json:"address,omitempty"`
		MaritalStatus *CodeableConcept       `json:"maritalStatus,omitempty"`
		Communication []PatientCommunication `json:"communication,omitempty"`
	}{
		ResourceType:  p.ResourceType(),
		ID:            p.ID,
		Identifier:    p.Identifier,
		Name:          p.Name,
		Telecom:       p.Telecom,
		Gender:        p.Gender,
		BirthDate:     p.BirthDate,
		Address:       p.Address,
		MaritalStatus: p.MaritalStatus,
		Communication: p.Communication,
	}
	return json.Marshal(w)
}

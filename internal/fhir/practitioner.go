package fhir

import "encoding/json"

// Practitioner is a person acting in a clinical role: a document author, a
// performer, an attending provider.
type Practitioner struct {
	ID         string
	Identifier []Identifier
	Name       []HumanName
	Telecom    []ContactPoint
	Address    []Address
}

func (p *Practitioner) ResourceType() string { return "Practitioner" }
func (p *Practitioner) ResourceID() string   { return p.ID }
func (p *Practitioner) Key() Key             { return Key{Type: p.ResourceType(), ID: p.ID} }

func (p *Practitioner) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType string         `json:"resourceType"`
		ID           string         `json:"id,omitempty"`
		Identifier   []Identifier   `json:"identifier,omitempty"`
		Name         []HumanName    `json:"name,omitempty"`
		Telecom      []ContactPoint `json:"telecom,omitempty"`
		Address      []Address      `json:"address,omitempty"`
	}{
		ResourceType: p.ResourceType(),
		ID:           p.ID,
		Identifier:   p.Identifier,
		Name:         p.Name,
		Telecom:      p.Telecom,
		Address:      p.Address,
	}
	return json.Marshal(w)
}

// Organization is an institutional actor: the document custodian or an
// author's employer.
type Organization struct {
	ID         string
	Identifier []Identifier
	Name       string
	Telecom    []ContactPoint
	Address    []Address
}

func (o *Organization) ResourceType() string { return "Organization" }
func (o *Organization) ResourceID() string   { return o.ID }
func (o *Organization) Key() Key             { return Key{Type: o.ResourceType(), ID: o.ID} }

func (o *Organization) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType string         `json:"resourceType"`
		ID           string         `json:"id,omitempty"`
		Identifier   []Identifier   `json:"identifier,omitempty"`
		Name         string         `json:"name,omitempty"`
		Telecom      []ContactPoint `json:"telecom,omitempty"`
		Address      []Address      `json:"address,omitempty"`
	}{
		ResourceType: o.ResourceType(),
		ID:           o.ID,
		Identifier:   o.Identifier,
		Name:         o.Name,
		Telecom:      o.Telecom,
		Address:      o.Address,
	}
	return json.Marshal(w)
}

package fhir

import "encoding/json"

// Procedure records an action performed on or for the subject, including
// surgical procedures, diagnostic acts, and observations acting as
// procedures.
type Procedure struct {
	ID         string
	Identifier []Identifier
	Status     string
	Code       *CodeableConcept
	Subject    *Reference
	Performed  ProcedurePerformed
	Performer  []ProcedurePerformer
	BodySite   []CodeableConcept
	Note       []Annotation
}

// ProcedurePerformer names who carried the procedure out.
type ProcedurePerformer struct {
	Actor      *Reference       `json:"actor,omitempty"`
	OnBehalfOf *Reference       `json:"onBehalfOf,omitempty"`
	Function   *CodeableConcept `json:"function,omitempty"`
}

func (p *Procedure) ResourceType() string { return "Procedure" }
func (p *Procedure) ResourceID() string   { return p.ID }
func (p *Procedure) Key() Key             { return Key{Type: p.ResourceType(), ID: p.ID} }

func (p *Procedure) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType      string               `json:"resourceType"`
		ID                string               `json:"id,omitempty"`
		Identifier        []Identifier         `json:"identifier,omitempty"`
		Status            string               `json:"status,omitempty"`
		Code              *CodeableConcept     `json:"code,omitempty"`
		Subject           *Reference           `json:"subject,omitempty"`
		PerformedDateTime string               `json:"performedDateTime,omitempty"`
		PerformedPeriod   *Period              `json:"performedPeriod,omitempty"`
		Performer         []ProcedurePerformer `json:"performer,omitempty"`
		BodySite          []CodeableConcept    `json:"bodySite,omitempty"`
		Note              []Annotation         `json:"note,omitempty"`
	}{
		ResourceType: p.ResourceType(),
		ID:           p.ID,
		Identifier:   p.Identifier,
		Status:       p.Status,
		Code:         p.Code,
		Subject:      p.Subject,
		Performer:    p.Performer,
		BodySite:     p.BodySite,
		Note:         p.Note,
	}

	switch v := p.Performed.(type) {
	case PerformedDateTime:
		w.PerformedDateTime = v.Value
	case PerformedPeriod:
		per := v.Value
		w.PerformedPeriod = &per
	}

	return json.Marshal(w)
}

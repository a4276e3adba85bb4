package fhir

import "encoding/json"

// Goal is a desired health state the subject is working toward.
type Goal struct {
	ID              string
	Identifier      []Identifier
	LifecycleStatus string
	Description     *CodeableConcept
	Subject         *Reference
	Start           GoalStart
	Note            []Annotation
}

func (g *Goal) ResourceType() string { return "Goal" }
func (g *Goal) ResourceID() string   { return g.ID }
func (g *Goal) Key() Key             { return Key{Type: g.ResourceType(), ID: g.ID} }

func (g *Goal) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType         string           `json:"resourceType"`
		ID                   string           `json:"id,omitempty"`
		Identifier           []Identifier     `json:"identifier,omitempty"`
		LifecycleStatus      string           `json:"lifecycleStatus,omitempty"`
		Description          *CodeableConcept `json:"description,omitempty"`
		Subject              *Reference       `json:"subject,omitempty"`
		StartDate            string           `json:"startDate,omitempty"`
		StartCodeableConcept *CodeableConcept `json:"startCodeableConcept,omitempty"`
		Note                 []Annotation     `json:"note,omitempty"`
	}{
		ResourceType:    g.ResourceType(),
		ID:              g.ID,
		Identifier:      g.Identifier,
		LifecycleStatus: g.LifecycleStatus,
		Description:     g.Description,
		Subject:         g.Subject,
		Note:            g.Note,
	}

	switch v := g.Start.(type) {
	case StartDate:
		w.StartDate = v.Value
	case StartConcept:
		cc := v.Value
		w.StartCodeableConcept = &cc
	}

	return json.Marshal(w)
}

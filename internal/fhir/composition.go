package fhir

import "encoding/json"

// Composition is the first entry of a document bundle. It carries the
// document header (type, subject, authors, custodian) and a section index
// pointing at every clinical resource grouped by its source section.
type Composition struct {
	ID              string
	Identifier      *Identifier
	Status          string
	Type            *CodeableConcept
	Subject         *Reference
	Date            string
	Author          []Reference
	Title           string
	Confidentiality string
	Custodian       *Reference
	Event           []CompositionEvent
	Section         []CompositionSection
}

// CompositionSection indexes the resources produced from one source section.
type CompositionSection struct {
	Title string           `json:"title,omitempty"`
	Code  *CodeableConcept `json:"code,omitempty"`
	Entry []Reference      `json:"entry,omitempty"`
}

// CompositionEvent records the service period the document describes.
type CompositionEvent struct {
	Code   []CodeableConcept `json:"code,omitempty"`
	Period *Period           `json:"period,omitempty"`
	Detail []Reference       `json:"detail,omitempty"`
}

func (c *Composition) ResourceType() string { return "Composition" }
func (c *Composition) ResourceID() string   { return c.ID }
func (c *Composition) Key() Key             { return Key{Type: c.ResourceType(), ID: c.ID} }

func (c *Composition) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType    string               `json:"resourceType"`
		ID              string               `json:"id,omitempty"`
		Identifier      *Identifier          `json:"identifier,omitempty"`
		Status          string               `json:"status,omitempty"`
		Type            *CodeableConcept     `json:"type,omitempty"`
		Subject         *Reference           `json:"subject,omitempty"`
		Date            string               `json:"date,omitempty"`
		Author          []Reference          `json:"author,omitempty"`
		Title           string               `json:"title,omitempty"`
		Confidentiality string               `json:"confidentiality,omitempty"`
		Custodian       *Reference           `json:"custodian,omitempty"`
		Event           []CompositionEvent   `json:"event,omitempty"`
		Section         []CompositionSection `json:"section,omitempty"`
	}{
		ResourceType:    c.ResourceType(),
		ID:              c.ID,
		Identifier:      c.Identifier,
		Status:          c.Status,
		Type:            c.Type,
		Subject:         c.Subject,
		Date:            c.Date,
		Author:          c.Author,
		Title:           c.Title,
		Confidentiality: c.Confidentiality,
		Custodian:       c.Custodian,
		Event:           c.Event,
		Section:         c.Section,
	}
	return json.Marshal(w)
}

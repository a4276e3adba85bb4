package fhir

import "encoding/json"

// Immunization records a vaccine administration, or an explicit refusal of
// one when Status is not-done.
type Immunization struct {
	ID           string
	Identifier   []Identifier
	Status       string
	StatusReason *CodeableConcept
	VaccineCode  *CodeableConcept
	Patient      *Reference
	Occurrence   ImmunizationOccurrence
	LotNumber    string
	Route        *CodeableConcept
	DoseQuantity *Quantity
	Performer    []ImmunizationPerformer
	Note         []Annotation
}

// ImmunizationPerformer names who administered the vaccine.
type ImmunizationPerformer struct {
	Function *CodeableConcept `json:"function,omitempty"`
	Actor    *Reference       `json:"actor,omitempty"`
}

func (i *Immunization) ResourceType() string { return "Immunization" }
func (i *Immunization) ResourceID() string   { return i.ID }
func (i *Immunization) Key() Key             { return Key{Type: i.ResourceType(), ID: i.ID} }

func (i *Immunization) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType       string                  `json:"resourceType"`
		ID                 string                  `json:"id,omitempty"`
		Identifier         []Identifier            `json:"identifier,omitempty"`
		Status             string                  `json:"status,omitempty"`
		StatusReason       *CodeableConcept        `json:"statusReason,omitempty"`
		VaccineCode        *CodeableConcept        `json:"vaccineCode,omitempty"`
		Patient            *Reference              `json:"patient,omitempty"`
		OccurrenceDateTime string                  `json:"occurrenceDateTime,omitempty"`
		OccurrenceString   string                  `json:"occurrenceString,omitempty"`
		LotNumber          string                  `json:"lotNumber,omitempty"`
		Route              *CodeableConcept        `json:"route,omitempty"`
		DoseQuantity       *Quantity               `json:"doseQuantity,omitempty"`
		Performer          []ImmunizationPerformer `json:"performer,omitempty"`
		Note               []Annotation            `json:"note,omitempty"`
	}{
		ResourceType: i.ResourceType(),
		ID:           i.ID,
		Identifier:   i.Identifier,
		Status:       i.Status,
		StatusReason: i.StatusReason,
		VaccineCode:  i.VaccineCode,
		Patient:      i.Patient,
		LotNumber:    i.LotNumber,
		Route:        i.Route,
		DoseQuantity: i.DoseQuantity,
		Performer:    i.Performer,
		Note:         i.Note,
	}

	switch v := i.Occurrence.(type) {
	case OccurrenceDateTime:
		w.OccurrenceDateTime = v.Value
	case OccurrenceString:
		w.OccurrenceString = v.Value
	}

	return json.Marshal(w)
}

package fhir

import "encoding/json"

// Observation carries a single measurement or assertion: a lab result, a
// vital sign, a social-history finding, or a functional-status assessment.
type Observation struct {
	ID               string
	Identifier       []Identifier
	Status           string
	Category         []CodeableConcept
	Code             *CodeableConcept
	Subject          *Reference
	Effective        ObservationEffective
	Performer        []Reference
	Value            ObservationValue
	DataAbsentReason *CodeableConcept
	Interpretation   []CodeableConcept
	Note             []Annotation
	ReferenceRange   []ObservationReferenceRange
	HasMember        []Reference
}

// ObservationReferenceRange bounds the normal interval for a result value.
type ObservationReferenceRange struct {
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
	Text string    `json:"text,omitempty"`
}

func (o *Observation) ResourceType() string { return "Observation" }
func (o *Observation) ResourceID() string   { return o.ID }
func (o *Observation) Key() Key             { return Key{Type: o.ResourceType(), ID: o.ID} }

func (o *Observation) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType         string                      `json:"resourceType"`
		ID                   string                      `json:"id,omitempty"`
		Identifier           []Identifier                `json:"identifier,omitempty"`
		Status               string                      `json:"status,omitempty"`
		Category             []CodeableConcept           `json:"category,omitempty"`
		Code                 *CodeableConcept            `json:"code,omitempty"`
		Subject              *Reference                  `json:"subject,omitempty"`
		EffectiveDateTime    string                      `json:"effectiveDateTime,omitempty"`
		EffectivePeriod      *Period                     `json:"effectivePeriod,omitempty"`
		Performer            []Reference                 `json:"performer,omitempty"`
		ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
		ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
		ValueString          string                      `json:"valueString,omitempty"`
		DataAbsentReason     *CodeableConcept            `json:"dataAbsentReason,omitempty"`
		Interpretation       []CodeableConcept           `json:"interpretation,omitempty"`
		Note                 []Annotation                `json:"note,omitempty"`
		ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
		HasMember            []Reference                 `json:"hasMember,omitempty"`
	}{
		ResourceType:     o.ResourceType(),
		ID:               o.ID,
		Identifier:       o.Identifier,
		Status:           o.Status,
		Category:         o.Category,
		Code:             o.Code,
		Subject:          o.Subject,
		Performer:        o.Performer,
		DataAbsentReason: o.DataAbsentReason,
		Interpretation:   o.Interpretation,
		Note:             o.Note,
		ReferenceRange:   o.ReferenceRange,
		HasMember:        o.HasMember,
	}

	switch v := o.Effective.(type) {
	case EffectiveDateTime:
		w.EffectiveDateTime = v.Value
	case EffectivePeriod:
		p := v.Value
		w.EffectivePeriod = &p
	}
	switch v := o.Value.(type) {
	case ValueQuantity:
		q := v.Value
		w.ValueQuantity = &q
	case ValueCodeableConcept:
		cc := v.Value
		w.ValueCodeableConcept = &cc
	case ValueString:
		w.ValueString = v.Value
	}

	return json.Marshal(w)
}

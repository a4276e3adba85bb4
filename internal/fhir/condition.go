package fhir

import "encoding/json"

// Condition is a problem, diagnosis, or health concern attributed to the
// bundle's subject.
type Condition struct {
	ID                 string
	Identifier         []Identifier
	ClinicalStatus     *CodeableConcept
	VerificationStatus *CodeableConcept
	Category           []CodeableConcept
	Severity           *CodeableConcept
	Code               *CodeableConcept
	Subject            *Reference
	Encounter          *Reference
	Onset              ConditionOnset
	Abatement          ConditionAbatement
	RecordedDate       string
	Asserter           *Reference
	Note               []Annotation
}

func (c *Condition) ResourceType() string { return "Condition" }
func (c *Condition) ResourceID() string   { return c.ID }
func (c *Condition) Key() Key             { return Key{Type: c.ResourceType(), ID: c.ID} }

func (c *Condition) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType       string            `json:"resourceType"`
		ID                 string            `json:"id,omitempty"`
		Identifier         []Identifier      `json:"identifier,omitempty"`
		ClinicalStatus     *CodeableConcept  `json:"clinicalStatus,omitempty"`
		VerificationStatus *CodeableConcept  `json:"verificationStatus,omitempty"`
		Category           []CodeableConcept `json:"category,omitempty"`
		Severity           *CodeableConcept  `json:"severity,omitempty"`
		Code               *CodeableConcept  `json:"code,omitempty"`
		Subject            *Reference        `json:"subject,omitempty"`
		Encounter          *Reference        `json:"encounter,omitempty"`
		OnsetDateTime      string            `json:"onsetDateTime,omitempty"`
		OnsetPeriod        *Period           `json:"onsetPeriod,omitempty"`
		OnsetString        string            `json:"onsetString,omitempty"`
		AbatementDateTime  string            `json:"abatementDateTime,omitempty"`
		RecordedDate       string            `json:"recordedDate,omitempty"`
		Asserter           *Reference        `json:"asserter,omitempty"`
		Note               []Annotation      `json:"note,omitempty"`
	}{
		ResourceType:       c.ResourceType(),
		ID:                 c.ID,
		Identifier:         c.Identifier,
		ClinicalStatus:     c.ClinicalStatus,
		VerificationStatus: c.VerificationStatus,
		Category:           c.Category,
		Severity:           c.Severity,
		Code:               c.Code,
		Subject:            c.Subject,
		Encounter:          c.Encounter,
		RecordedDate:       c.RecordedDate,
		Asserter:           c.Asserter,
		Note:               c.Note,
	}

	switch v := c.Onset.(type) {
	case OnsetDateTime:
		w.OnsetDateTime = v.Value
	case OnsetPeriod:
		p := v.Value
		w.OnsetPeriod = &p
	case OnsetText:
		w.OnsetString = v.Value
	}
	if v, ok := c.Abatement.(AbatementDateTime); ok {
		w.AbatementDateTime = v.Value
	}

	return json.Marshal(w)
}

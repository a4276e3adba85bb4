package fhir

import "encoding/json"

// DiagnosticReport groups the member observations of a result battery under
// the panel code.
type DiagnosticReport struct {
	ID         string
	Identifier []Identifier
	Status     string
	Category   []CodeableConcept
	Code       *CodeableConcept
	Subject    *Reference
	Effective  ReportEffective
	Issued     string
	Performer  []Reference
	Result     []Reference
}

func (r *DiagnosticReport) ResourceType() string { return "DiagnosticReport" }
func (r *DiagnosticReport) ResourceID() string   { return r.ID }
func (r *DiagnosticReport) Key() Key             { return Key{Type: r.ResourceType(), ID: r.ID} }

func (r *DiagnosticReport) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType      string            `json:"resourceType"`
		ID                string            `json:"id,omitempty"`
		Identifier        []Identifier      `json:"identifier,omitempty"`
		Status            string            `json:"status,omitempty"`
		Category          []CodeableConcept `json:"category,omitempty"`
		Code              *CodeableConcept  `json:"code,omitempty"`
		Subject           *Reference        `json:"subject,omitempty"`
		EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`
		EffectivePeriod   *Period           `json:"effectivePeriod,omitempty"`
		Issued            string            `json:"issued,omitempty"`
		Performer         []Reference       `json:"performer,omitempty"`
		Result            []Reference       `json:"result,omitempty"`
	}{
		ResourceType: r.ResourceType(),
		ID:           r.ID,
		Identifier:   r.Identifier,
		Status:       r.Status,
		Category:     r.Category,
		Code:         r.Code,
		Subject:      r.Subject,
		Issued:       r.Issued,
		Performer:    r.Performer,
		Result:       r.Result,
	}

	switch v := r.Effective.(type) {
	case EffectiveDateTime:
		w.EffectiveDateTime = v.Value
	case EffectivePeriod:
		p := v.Value
		w.EffectivePeriod = &p
	}

	return json.Marshal(w)
}

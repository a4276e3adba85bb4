package fhir

import "encoding/json"

// ServiceRequest is a planned or ordered act: a future procedure, a referral,
// or any plan-of-treatment activity that has not happened yet.
type ServiceRequest struct {
	ID         string
	Identifier []Identifier
	Status     string
	Intent     string
	Code       *CodeableConcept
	Subject    *Reference
	Occurrence RequestOccurrence
	AuthoredOn string
	Requester  *Reference
	BodySite   []CodeableConcept
	Note       []Annotation
}

func (s *ServiceRequest) ResourceType() string { return "ServiceRequest" }
func (s *ServiceRequest) ResourceID() string   { return s.ID }
func (s *ServiceRequest) Key() Key             { return Key{Type: s.ResourceType(), ID: s.ID} }

func (s *ServiceRequest) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType       string            `json:"resourceType"`
		ID                 string            `json:"id,omitempty"`
		Identifier         []Identifier      `json:"identifier,omitempty"`
		Status             string            `json:"status,omitempty"`
		Intent             string            `json:"intent,omitempty"`
		Code               *CodeableConcept  `json:"code,omitempty"`
		Subject            *Reference        `json:"subject,omitempty"`
		OccurrenceDateTime string            `json:"occurrenceDateTime,omitempty"`
		OccurrencePeriod   *Period           `json:"occurrencePeriod,omitempty"`
		AuthoredOn         string            `json:"authoredOn,omitempty"`
		Requester          *Reference        `json:"requester,omitempty"`
		BodySite           []CodeableConcept `json:"bodySite,omitempty"`
		Note               []Annotation      `json:"note,omitempty"`
	}{
		ResourceType: s.ResourceType(),
		ID:           s.ID,
		Identifier:   s.Identifier,
		Status:       s.Status,
		Intent:       s.Intent,
		Code:         s.Code,
		Subject:      s.Subject,
		AuthoredOn:   s.AuthoredOn,
		Requester:    s.Requester,
		BodySite:     s.BodySite,
		Note:         s.Note,
	}

	switch v := s.Occurrence.(type) {
	case OccurrenceDateTime:
		w.OccurrenceDateTime = v.Value
	case OccurrencePeriod:
		p := v.Value
		w.OccurrencePeriod = &p
	}

	return json.Marshal(w)
}

// Package fhir defines the target resource model emitted by the conversion
// engine: a small, purpose-built subset of FHIR R4 in which mutually
// exclusive choice fields are sealed unions, so an illegally double-populated
// resource cannot be constructed.
package fhir

// Key identifies a resource within a bundle: resource type plus logical id.
type Key struct {
	Type string
	ID   string
}

// String renders the key in the relative reference form "Type/id".
func (k Key) String() string {
	return k.Type + "/" + k.ID
}

// Resource is implemented by every resource the engine can emit.
type Resource interface {
	ResourceType() string
	ResourceID() string
	Key() Key
}

var (
	_ Resource = (*Patient)(nil)
	_ Resource = (*Practitioner)(nil)
	_ Resource = (*Organization)(nil)
	_ Resource = (*Device)(nil)
	_ Resource = (*Condition)(nil)
	_ Resource = (*Observation)(nil)
	_ Resource = (*AllergyIntolerance)(nil)
	_ Resource = (*MedicationStatement)(nil)
	_ Resource = (*Immunization)(nil)
	_ Resource = (*Procedure)(nil)
	_ Resource = (*Encounter)(nil)
	_ Resource = (*DiagnosticReport)(nil)
	_ Resource = (*ServiceRequest)(nil)
	_ Resource = (*Goal)(nil)
	_ Resource = (*Composition)(nil)
)

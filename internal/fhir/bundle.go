package fhir

import "encoding/json"

// Bundle is the document container. Entry order is fixed at assembly time:
// Composition first, then the patient, then the other header resources,
// then clinical resources in section order.
type Bundle struct {
	ID         string
	Identifier *Identifier
	Type       string
	Timestamp  string
	Entry      []BundleEntry
}

// BundleEntry pairs a resource with its fullUrl. The engine emits relative
// fullUrls of the form "Type/id" so that output is stable across hosts.
type BundleEntry struct {
	FullURL  string   `json:"fullUrl,omitempty"`
	Resource Resource `json:"resource,omitempty"`
}

func (b *Bundle) ResourceType() string { return "Bundle" }
func (b *Bundle) ResourceID() string   { return b.ID }
func (b *Bundle) Key() Key             { return Key{Type: b.ResourceType(), ID: b.ID} }

func (b *Bundle) MarshalJSON() ([]byte, error) {
	w := struct {
		ResourceType string        `json:"resourceType"`
		ID           string        `json:"id,omitempty"`
		Identifier   *Identifier   `json:"identifier,omitempty"`
		Type         string        `json:"type,omitempty"`
		Timestamp    string        `json:"timestamp,omitempty"`
		Entry        []BundleEntry `json:"entry,omitempty"`
	}{
		ResourceType: b.ResourceType(),
		ID:           b.ID,
		Identifier:   b.Identifier,
		Type:         b.Type,
		Timestamp:    b.Timestamp,
		Entry:        b.Entry,
	}
	return json.Marshal(w)
}

// Find returns the entry resource matching key, or nil.
func (b *Bundle) Find(key Key) Resource {
	for _, e := range b.Entry {
		if e.Resource != nil && e.Resource.Key() == key {
			return e.Resource
		}
	}
	return nil
}

// ResourcesOfType returns every entry resource with the given type, in
// bundle order.
func (b *Bundle) ResourcesOfType(typ string) []Resource {
	var out []Resource
	for _, e := range b.Entry {
		if e.Resource != nil && e.Resource.ResourceType() == typ {
			out = append(out, e.Resource)
		}
	}
	return out
}

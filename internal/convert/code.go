package convert

import (
	"fmt"
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
)

// unmappableSystemError reports a coded value whose code system, and every
// translation's, has no known target URI.
type unmappableSystemError struct {
	Code   string
	System string
}

func (e *unmappableSystemError) Error() string {
	return fmt.Sprintf("code %q in unmapped system %q", e.Code, e.System)
}

// CodeConcept renders a source coded value as a concept. Outcomes:
//   - nil, nil: the element is absent or carries nothing usable
//   - concept, nil: the primary code resolved, or a translation did (the
//     first resolvable coding leads); further resolvable translations are
//     appended
//   - nil, error: a code is present but no system resolves
//
// A null-flavored or codeless element with original text yields a text-only
// concept rather than an error.
func CodeConcept(c *cda.Code, vocab Vocabulary) (*fhir.CodeableConcept, error) {
	if c == nil {
		return nil, nil
	}
	text := conceptText(c)
	if c.Code == "" {
		if text != "" {
			return fhir.TextConcept(text), nil
		}
		return nil, nil
	}

	var codings []fhir.Coding
	if uri, ok := vocab.SystemURI(c.CodeSystem); ok {
		codings = append(codings, fhir.Coding{System: uri, Code: c.Code, Display: c.DisplayName})
	}
	for _, tr := range c.Translations {
		if tr.Code == "" {
			continue
		}
		if uri, ok := vocab.SystemURI(tr.CodeSystem); ok {
			codings = append(codings, fhir.Coding{System: uri, Code: tr.Code, Display: tr.DisplayName})
		}
	}
	if len(codings) == 0 {
		return nil, &unmappableSystemError{Code: c.Code, System: c.CodeSystem}
	}

	cc := &fhir.CodeableConcept{Coding: codings, Text: text}
	if cc.Text == "" {
		cc.Text = codings[0].Display
	}
	return cc, nil
}

// OptionalConcept is CodeConcept for optional coded fields: an unmappable
// system omits the field instead of failing the entry.
func OptionalConcept(c *cda.Code, vocab Vocabulary) *fhir.CodeableConcept {
	cc, err := CodeConcept(c, vocab)
	if err != nil {
		return nil
	}
	return cc
}

// ObservationValueOf converts a typed source value into the matching
// Observation value variant. Outcomes mirror CodeConcept: nil, nil when the
// value is absent or unusable without being wrong; an error only when a
// coded value's systems all miss.
func ObservationValueOf(v *cda.Value, vocab Vocabulary) (fhir.ObservationValue, error) {
	if v == nil {
		return nil, nil
	}
	switch xsiLocal(v.XSIType) {
	case "PQ", "INT", "REAL", "MO":
		if q := QuantityOf(v); q != nil {
			return fhir.ValueQuantity{Value: *q}, nil
		}
		return nil, nil
	case "CD", "CE", "CO", "CS":
		cc, err := CodeConcept(valueAsCode(v), vocab)
		if err != nil || cc == nil {
			return nil, err
		}
		return fhir.ValueCodeableConcept{Value: *cc}, nil
	case "ST", "ED":
		if t := strings.TrimSpace(v.Text); t != "" {
			return fhir.ValueString{Value: t}, nil
		}
		return nil, nil
	case "":
		// Untyped: infer from which attributes are populated.
		if v.Value != "" {
			if q := QuantityOf(v); q != nil {
				return fhir.ValueQuantity{Value: *q}, nil
			}
			return nil, nil
		}
		if v.Code != "" {
			cc, err := CodeConcept(valueAsCode(v), vocab)
			if err != nil || cc == nil {
				return nil, err
			}
			return fhir.ValueCodeableConcept{Value: *cc}, nil
		}
		if t := strings.TrimSpace(v.Text); t != "" {
			return fhir.ValueString{Value: t}, nil
		}
	}
	return nil, nil
}

// valueAsCode views a coded observation value through the Code shape so the
// concept helpers apply.
func valueAsCode(v *cda.Value) *cda.Code {
	return &cda.Code{
		Code:           v.Code,
		CodeSystem:     v.CodeSystem,
		CodeSystemName: v.CodeSystemName,
		DisplayName:    v.DisplayName,
		NullFlavor:     v.NullFlavor,
		OriginalText:   v.OriginalText,
		Translations:   v.Translations,
	}
}

// xsiLocal strips a namespace prefix from an xsi:type value.
func xsiLocal(t string) string {
	if i := strings.LastIndexByte(t, ':'); i >= 0 {
		return t[i+1:]
	}
	return t
}

func conceptText(c *cda.Code) string {
	if c.OriginalText != nil {
		if t := strings.TrimSpace(c.OriginalText.Text); t != "" {
			return t
		}
	}
	return c.DisplayName
}

// statusOf extracts a status code value, tolerating an absent element.
func statusOf(c *cda.Code) string {
	if c == nil {
		return ""
	}
	return c.Code
}

package convert

import (
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

type observationOpts struct {
	concept      string
	category     string
	seed         string
	requireValue bool
}

// buildObservation converts one observation-shaped entry into an
// Observation. Result, vital sign, social history, and functional status
// converters all funnel through here; they differ only in category and in
// whether a value is required.
func buildObservation(ctx *Context, o *cda.Observation, opts observationOpts) (*fhir.Observation, *Error) {
	cc, err := CodeConcept(o.Code, ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, opts.concept, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, opts.concept, "code")
	}

	root, ext := firstID(o.IDs)
	id := ctx.Registry.GenerateID("Observation", root, ext, opts.seed)
	key := fhir.Key{Type: "Observation", ID: id}

	obs := &fhir.Observation{
		ID:         id,
		Identifier: identifiersOf(o.IDs),
		Category:   []fhir.CodeableConcept{*observationCategory(opts.category)},
		Code:       cc,
	}

	if code, ok := ctx.Vocab.StatusCode(terminology.DomainObservation, statusOf(o.StatusCode)); ok {
		obs.Status = code
	} else {
		obs.Status = terminology.ObservationFinal
	}

	v, verr := ObservationValueOf(o.FirstValue(), ctx.Vocab)
	if verr != nil {
		return nil, errUnmappable(ctx, opts.concept, verr)
	}
	if v != nil {
		obs.Value = v
	} else if opts.requireValue {
		return nil, errMissing(ctx, opts.concept, "value")
	} else {
		obs.DataAbsentReason = fhir.Concept(terminology.URIDataAbsent, "unknown", "Unknown")
	}

	if tc, ok := ResolveTime(o.EffectiveTime); ok {
		obs.Effective = tc.ObservationEffective()
	}
	obs.Interpretation = interpretationsOf(ctx, o.InterpretationCodes)
	obs.ReferenceRange = referenceRangesOf(o.ReferenceRanges)
	obs.Subject = ctx.SubjectRef(key)

	ctx.Registry.Register(obs)
	return obs, nil
}

func observationCategory(code string) *fhir.CodeableConcept {
	display := ""
	switch code {
	case terminology.CategoryLaboratory:
		display = "Laboratory"
	case terminology.CategoryVitalSigns:
		display = "Vital Signs"
	case terminology.CategorySocialHistory:
		display = "Social History"
	case terminology.CategorySurvey:
		display = "Survey"
	}
	return fhir.Concept(terminology.URIObservationCategory, code, display)
}

func interpretationsOf(ctx *Context, codes []cda.Code) []fhir.CodeableConcept {
	var out []fhir.CodeableConcept
	for i := range codes {
		if cc := OptionalConcept(&codes[i], ctx.Vocab); cc != nil {
			out = append(out, *cc)
		}
	}
	return out
}

// referenceRangesOf keeps ranges that carry at least one bound or a text
// description.
func referenceRangesOf(ranges []cda.ReferenceRange) []fhir.ObservationReferenceRange {
	var out []fhir.ObservationReferenceRange
	for _, rr := range ranges {
		or := rr.ObservationRange
		if or == nil {
			continue
		}
		var r fhir.ObservationReferenceRange
		if or.Value != nil {
			r.Low = QuantityBound(or.Value.Low)
			r.High = QuantityBound(or.Value.High)
		}
		if or.Text != nil {
			r.Text = strings.TrimSpace(or.Text.Text)
		}
		if r.Low == nil && r.High == nil && r.Text == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

package convert

import (
	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const (
	conceptSmokingStatus = "smoking-status"
	conceptSocialHistory = "social-history-observation"
)

// convertSmokingStatus converts a smoking status observation. The coded
// value is the whole point of the record, so it is required; the code is
// normalized to the standard tobacco use concept.
func convertSmokingStatus(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptSmokingStatus, "smoking status entry is not an observation")
	}

	v := obs.FirstValue()
	if v == nil {
		return nil, errMissing(ctx, conceptSmokingStatus, "value")
	}
	cc, err := CodeConcept(valueAsCode(v), ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptSmokingStatus, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, conceptSmokingStatus, "value")
	}

	root, ext := firstID(obs.IDs)
	id := ctx.Registry.GenerateID("Observation", root, ext, ctx.Path)
	key := fhir.Key{Type: "Observation", ID: id}

	smoking := &fhir.Observation{
		ID:         id,
		Identifier: identifiersOf(obs.IDs),
		Category:   []fhir.CodeableConcept{*observationCategory(terminology.CategorySocialHistory)},
		Code:       fhir.Concept(terminology.URILOINC, cda.LOINCSmokingStatus, "Tobacco smoking status NHIS"),
		Value:      fhir.ValueCodeableConcept{Value: *cc},
	}

	if code, ok := ctx.Vocab.StatusCode(terminology.DomainObservation, statusOf(obs.StatusCode)); ok {
		smoking.Status = code
	} else {
		smoking.Status = terminology.ObservationFinal
	}

	// The template records the status as of an instant, not a span.
	if dt, ok := occurrencePoint(obs.EffectiveTime); ok {
		smoking.Effective = fhir.EffectiveDateTime{Value: dt}
	}
	smoking.Subject = ctx.SubjectRef(key)

	ctx.Registry.Register(smoking)
	return []fhir.Resource{smoking}, nil
}

// convertSocialHistoryObservation handles the generic social history shape:
// any coded item, with or without a value.
func convertSocialHistoryObservation(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptSocialHistory, "social history entry is not an observation")
	}
	res, cerr := buildObservation(ctx, obs, observationOpts{
		concept:  conceptSocialHistory,
		category: terminology.CategorySocialHistory,
		seed:     ctx.Path,
	})
	if cerr != nil {
		return nil, cerr
	}
	return []fhir.Resource{res}, nil
}

package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const (
	conceptResultOrganizer   = "result-organizer"
	conceptResultObservation = "result-observation"
)

// convertResultOrganizer converts a lab panel into a DiagnosticReport plus
// one Observation per member result, with the report holding references to
// its members.
func convertResultOrganizer(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	org := entry.Organizer
	if org == nil {
		return nil, errMalformed(ctx, conceptResultOrganizer, "result entry is not an organizer")
	}

	cc, err := CodeConcept(org.Code, ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptResultOrganizer, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, conceptResultOrganizer, "code")
	}

	root, ext := firstID(org.IDs)
	id := ctx.Registry.GenerateID("DiagnosticReport", root, ext, ctx.Path)
	key := fhir.Key{Type: "DiagnosticReport", ID: id}

	rep := &fhir.DiagnosticReport{
		ID:         id,
		Identifier: identifiersOf(org.IDs),
		Category:   []fhir.CodeableConcept{*fhir.Concept(terminology.URIDiagnosticServiceSec, "LAB", "Laboratory")},
		Code:       cc,
	}

	if code, ok := ctx.Vocab.StatusCode(terminology.DomainObservation, statusOf(org.StatusCode)); ok {
		rep.Status = code
	} else {
		rep.Status = terminology.ObservationFinal
	}
	if tc, ok := ResolveTime(org.EffectiveTime); ok {
		rep.Effective = tc.ReportEffective()
	}
	rep.Subject = ctx.SubjectRef(key)

	out := []fhir.Resource{rep}
	for n, member := range org.Observations() {
		obs, cerr := buildObservation(ctx, member, observationOpts{
			concept:  conceptResultObservation,
			category: terminology.CategoryLaboratory,
			seed:     fmt.Sprintf("%s/result[%d]", ctx.Path, n+1),
		})
		if cerr != nil {
			return nil, cerr
		}
		rep.Result = append(rep.Result, *ctx.Registry.Reference(key, obs.Key()))
		out = append(out, obs)
	}
	if len(out) == 1 {
		return nil, errMissing(ctx, conceptResultOrganizer, "result observation")
	}

	ctx.Registry.Register(rep)
	return out, nil
}

// convertStandaloneResult handles a result observation appearing directly as
// a section entry, outside any organizer.
func convertStandaloneResult(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptResultObservation, "result entry is not an observation")
	}
	res, cerr := buildObservation(ctx, obs, observationOpts{
		concept:  conceptResultObservation,
		category: terminology.CategoryLaboratory,
		seed:     ctx.Path,
	})
	if cerr != nil {
		return nil, cerr
	}
	return []fhir.Resource{res}, nil
}

package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const (
	conceptVitalSignsOrganizer = "vital-signs-organizer"
	conceptVitalSign           = "vital-sign-observation"
)

// convertVitalSignsOrganizer converts a vital signs set into a panel
// Observation whose hasMember references point at one Observation per
// member vital sign.
func convertVitalSignsOrganizer(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	org := entry.Organizer
	if org == nil {
		return nil, errMalformed(ctx, conceptVitalSignsOrganizer, "vital signs entry is not an organizer")
	}

	cc, err := CodeConcept(org.Code, ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptVitalSignsOrganizer, err)
	}
	if cc == nil {
		// Panels are frequently coded only loosely; fall back to the
		// standard vital signs panel concept.
		cc = fhir.Concept(terminology.URILOINC, "85353-1", "Vital signs, weight, height, head circumference, oxygen saturation and BMI panel")
	}

	root, ext := firstID(org.IDs)
	id := ctx.Registry.GenerateID("Observation", root, ext, ctx.Path)
	key := fhir.Key{Type: "Observation", ID: id}

	panel := &fhir.Observation{
		ID:         id,
		Identifier: identifiersOf(org.IDs),
		Category:   []fhir.CodeableConcept{*observationCategory(terminology.CategoryVitalSigns)},
		Code:       cc,
	}

	if code, ok := ctx.Vocab.StatusCode(terminology.DomainObservation, statusOf(org.StatusCode)); ok {
		panel.Status = code
	} else {
		panel.Status = terminology.ObservationFinal
	}
	if tc, ok := ResolveTime(org.EffectiveTime); ok {
		panel.Effective = tc.ObservationEffective()
	}
	panel.Subject = ctx.SubjectRef(key)

	out := []fhir.Resource{panel}
	for n, member := range org.Observations() {
		obs, cerr := buildObservation(ctx, member, observationOpts{
			concept:      conceptVitalSign,
			category:     terminology.CategoryVitalSigns,
			seed:         fmt.Sprintf("%s/vital[%d]", ctx.Path, n+1),
			requireValue: true,
		})
		if cerr != nil {
			return nil, cerr
		}
		panel.HasMember = append(panel.HasMember, *ctx.Registry.Reference(key, obs.Key()))
		out = append(out, obs)
	}
	if len(out) == 1 {
		return nil, errMissing(ctx, conceptVitalSignsOrganizer, "vital sign observation")
	}

	ctx.Registry.Register(panel)
	return out, nil
}

// convertStandaloneVitalSign handles a vital sign observation appearing
// directly as a section entry, outside any organizer.
func convertStandaloneVitalSign(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptVitalSign, "vital sign entry is not an observation")
	}
	res, cerr := buildObservation(ctx, obs, observationOpts{
		concept:      conceptVitalSign,
		category:     terminology.CategoryVitalSigns,
		seed:         ctx.Path,
		requireValue: true,
	})
	if cerr != nil {
		return nil, cerr
	}
	return []fhir.Resource{res}, nil
}

package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const (
	conceptAllergyConcern     = "allergy-concern"
	conceptAllergyObservation = "allergy-observation"
)

// convertAllergyConcern unwraps an allergy concern act into one
// AllergyIntolerance per nested allergy observation.
func convertAllergyConcern(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	act := entry.Act
	if act == nil {
		return nil, errMalformed(ctx, conceptAllergyConcern, "concern entry is not an act")
	}

	var out []fhir.Resource
	n := 0
	for i := range act.EntryRelationships {
		obs := act.EntryRelationships[i].Observation
		if obs == nil || !cda.HasTemplate(obs.TemplateIDs, cda.TemplateAllergyObservation) {
			continue
		}
		n++
		a, cerr := buildAllergy(ctx, obs, allergyOpts{
			concept:       conceptAllergyConcern,
			concernStatus: statusOf(act.StatusCode),
			seed:          fmt.Sprintf("%s/allergy[%d]", ctx.Path, n),
			actAuthors:    act.Authors,
		})
		if cerr != nil {
			return nil, cerr
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, errMissing(ctx, conceptAllergyConcern, "allergy observation")
	}
	return out, nil
}

// convertAllergyObservation handles an allergy observation appearing
// directly as a section entry.
func convertAllergyObservation(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptAllergyObservation, "allergy entry is not an observation")
	}
	a, cerr := buildAllergy(ctx, obs, allergyOpts{
		concept: conceptAllergyObservation,
		seed:    ctx.Path,
	})
	if cerr != nil {
		return nil, cerr
	}
	return []fhir.Resource{a}, nil
}

type allergyOpts struct {
	concept       string
	concernStatus string
	seed          string
	actAuthors    []cda.Author
}

// buildAllergy converts one allergy observation. The allergen is the
// consumable participant's substance code; the observation value classifies
// the kind of propensity (allergy vs intolerance, and its category).
func buildAllergy(ctx *Context, obs *cda.Observation, opts allergyOpts) (*fhir.AllergyIntolerance, *Error) {
	root, ext := firstID(obs.IDs)
	id := ctx.Registry.GenerateID("AllergyIntolerance", root, ext, opts.seed)
	key := fhir.Key{Type: "AllergyIntolerance", ID: id}

	a := &fhir.AllergyIntolerance{ID: id, Identifier: identifiersOf(obs.IDs)}

	if v := obs.FirstValue(); v != nil && v.Code != "" {
		if t, ok := terminology.AllergyType(v.Code); ok {
			a.Type = t
		}
		if c, ok := terminology.AllergyCategory(v.Code); ok {
			a.Category = []string{c}
		}
	}

	if obs.Negated() {
		a.Code = fhir.Concept(terminology.URISNOMED, "716186003", "No known allergy")
	} else {
		sub := allergenCode(obs)
		if sub == nil {
			return nil, errMissing(ctx, opts.concept, "allergen participant")
		}
		cc, err := CodeConcept(sub, ctx.Vocab)
		if err != nil {
			return nil, errUnmappable(ctx, opts.concept, err)
		}
		if cc == nil {
			return nil, errMissing(ctx, opts.concept, "allergen participant")
		}
		a.Code = cc
	}

	a.ClinicalStatus = allergyClinicalStatus(ctx, opts.concernStatus)
	a.VerificationStatus = fhir.Concept(terminology.URIAllergyVerStatus, "confirmed", "Confirmed")

	if t := obs.EffectiveTime; t != nil {
		if dt, ok := FHIRDateTime(t.Value); ok {
			a.Onset = fhir.OnsetDateTime{Value: dt}
		} else if dt, ok := FHIRDateTime(t.LowValue()); ok {
			a.Onset = fhir.OnsetDateTime{Value: dt}
		}
	}

	if dt := authorTime(obs.Authors); dt != "" {
		a.RecordedDate = dt
	} else if dt := authorTime(opts.actAuthors); dt != "" {
		a.RecordedDate = dt
	}

	if sev, ok := severityCode(obs.EntryRelationships); ok {
		if crit, ok := terminology.Criticality(sev); ok {
			a.Criticality = crit
		}
	}

	a.Reaction = reactionsOf(ctx, obs.EntryRelationships)
	a.Patient = ctx.SubjectRef(key)
	a.Recorder = ctx.AuthorRef(key)

	ctx.Registry.Register(a)
	return a, nil
}

func allergyClinicalStatus(ctx *Context, concernStatus string) *fhir.CodeableConcept {
	code, ok := ctx.Vocab.StatusCode(terminology.DomainAllergyClinical, concernStatus)
	if !ok {
		code = terminology.AllergyActive
	}
	return fhir.Concept(terminology.URIAllergyClinical, code, "")
}

// allergenCode finds the substance code of the consumable participant.
func allergenCode(obs *cda.Observation) *cda.Code {
	for _, p := range obs.Participants {
		if p.TypeCode != "" && p.TypeCode != "CSM" {
			continue
		}
		if p.ParticipantRole == nil || p.ParticipantRole.PlayingEntity == nil {
			continue
		}
		if c := p.ParticipantRole.PlayingEntity.Code; c != nil {
			return c
		}
	}
	return nil
}

// severityCode returns the value of a nested severity observation.
func severityCode(ers []cda.EntryRelationship) (string, bool) {
	for i := range ers {
		o := ers[i].Observation
		if o == nil || !cda.HasTemplate(o.TemplateIDs, cda.TemplateSeverityObservation) {
			continue
		}
		if v := o.FirstValue(); v != nil && v.Code != "" {
			return v.Code, true
		}
	}
	return "", false
}

// reactionsOf collects nested reaction observations. A reaction without a
// mappable manifestation is dropped, since a manifestation is what a
// reaction asserts.
func reactionsOf(ctx *Context, ers []cda.EntryRelationship) []fhir.AllergyReaction {
	var out []fhir.AllergyReaction
	for i := range ers {
		o := ers[i].Observation
		if o == nil || !cda.HasTemplate(o.TemplateIDs, cda.TemplateReactionObservation) {
			continue
		}
		v := o.FirstValue()
		if v == nil {
			continue
		}
		cc, err := CodeConcept(valueAsCode(v), ctx.Vocab)
		if err != nil || cc == nil {
			continue
		}

		r := fhir.AllergyReaction{Manifestation: []fhir.CodeableConcept{*cc}}
		if t := o.EffectiveTime; t != nil {
			if dt, ok := FHIRDateTime(t.Value); ok {
				r.Onset = dt
			} else if dt, ok := FHIRDateTime(t.LowValue()); ok {
				r.Onset = dt
			}
		}
		if sev, ok := severityCode(o.EntryRelationships); ok {
			if s, ok := terminology.ReactionSeverity(sev); ok {
				r.Severity = s
			}
		}
		out = append(out, r)
	}
	return out
}

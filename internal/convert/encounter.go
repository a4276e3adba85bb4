package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const conceptEncounter = "encounter-activity"

// convertEncounterActivity converts an encounter activity into an Encounter,
// plus one Condition per encounter diagnosis documented under it.
func convertEncounterActivity(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	enc := entry.Encounter
	if enc == nil {
		return nil, errMalformed(ctx, conceptEncounter, "encounter entry is not an encounter")
	}

	root, ext := firstID(enc.IDs)
	id := ctx.Registry.GenerateID("Encounter", root, ext, ctx.Path)
	key := fhir.Key{Type: "Encounter", ID: id}

	e := &fhir.Encounter{
		ID:         id,
		Identifier: identifiersOf(enc.IDs),
		Class:      encounterClass(enc.Code),
	}
	if cc := OptionalConcept(enc.Code, ctx.Vocab); cc != nil {
		e.Type = []fhir.CodeableConcept{*cc}
	}
	if code, ok := ctx.Vocab.StatusCode(terminology.DomainEncounter, statusOf(enc.StatusCode)); ok {
		e.Status = code
	} else {
		e.Status = terminology.EncounterFinished
	}
	if tc, ok := ResolveTime(enc.EffectiveTime); ok {
		e.Period = tc.PeriodValue()
	}
	e.Subject = ctx.SubjectRef(key)

	out := []fhir.Resource{e}
	if p, ref, ok := actorRef(ctx, key, enc.Performers); ok {
		e.Participant = []fhir.EncounterParticipant{{Individual: ref}}
		if p != nil {
			out = append(out, p)
		}
	}

	// Encounter diagnoses ride along as acts wrapping problem observations.
	n := 0
	for i := range enc.EntryRelationships {
		act := enc.EntryRelationships[i].Act
		if act == nil || !cda.HasTemplate(act.TemplateIDs, cda.TemplateEncounterDiagnosis) {
			continue
		}
		for j := range act.EntryRelationships {
			obs := act.EntryRelationships[j].Observation
			if obs == nil || !cda.HasTemplate(obs.TemplateIDs, cda.TemplateProblemObservation) {
				continue
			}
			n++
			cond, cerr := buildCondition(ctx, obs, conditionOpts{
				concept:    conceptEncounter,
				category:   "encounter-diagnosis",
				seed:       fmt.Sprintf("%s/diagnosis[%d]", ctx.Path, n),
				actAuthors: act.Authors,
			})
			if cerr != nil {
				return nil, cerr
			}
			cond.Encounter = ctx.Registry.Reference(cond.Key(), key)
			e.Diagnosis = append(e.Diagnosis, fhir.EncounterDiagnosis{
				Condition: ctx.Registry.Reference(key, cond.Key()),
			})
			out = append(out, cond)
		}
	}

	ctx.Registry.Register(e)
	return out, nil
}

// encounterClass reads the encounter class from an ActCode coding on the
// encounter code or its translations. Office visits dominate C-CDA sources,
// so an encounter that states no class reads as ambulatory.
func encounterClass(c *cda.Code) *fhir.Coding {
	if c != nil {
		if c.CodeSystem == terminology.OIDActCode && c.Code != "" {
			return &fhir.Coding{System: terminology.URIV3ActCode, Code: c.Code, Display: c.DisplayName}
		}
		for _, t := range c.Translations {
			if t.CodeSystem == terminology.OIDActCode && t.Code != "" {
				return &fhir.Coding{System: terminology.URIV3ActCode, Code: t.Code, Display: t.DisplayName}
			}
		}
	}
	return &fhir.Coding{System: terminology.URIV3ActCode, Code: "AMB", Display: "ambulatory"}
}

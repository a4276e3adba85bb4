package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const (
	conceptProblemConcern     = "problem-concern"
	conceptProblemObservation = "problem-observation"
)

// convertProblemConcern unwraps a problem concern act: each nested problem
// observation becomes one Condition, with the concern's statusCode driving
// the clinical status.
func convertProblemConcern(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	act := entry.Act
	if act == nil {
		return nil, errMalformed(ctx, conceptProblemConcern, "concern entry is not an act")
	}

	var out []fhir.Resource
	n := 0
	for i := range act.EntryRelationships {
		obs := act.EntryRelationships[i].Observation
		if obs == nil || !cda.HasTemplate(obs.TemplateIDs, cda.TemplateProblemObservation) {
			continue
		}
		n++
		cond, cerr := buildCondition(ctx, obs, conditionOpts{
			concept:       conceptProblemConcern,
			concernStatus: statusOf(act.StatusCode),
			category:      "problem-list-item",
			seed:          fmt.Sprintf("%s/problem[%d]", ctx.Path, n),
			actAuthors:    act.Authors,
		})
		if cerr != nil {
			return nil, cerr
		}
		out = append(out, cond)
	}
	if len(out) == 0 {
		return nil, errMissing(ctx, conceptProblemConcern, "problem observation")
	}
	return out, nil
}

// convertProblemObservation handles a problem observation appearing directly
// as a section entry, without a concern wrapper.
func convertProblemObservation(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptProblemObservation, "problem entry is not an observation")
	}
	cond, cerr := buildCondition(ctx, obs, conditionOpts{
		concept:  conceptProblemObservation,
		category: "problem-list-item",
		seed:     ctx.Path,
	})
	if cerr != nil {
		return nil, cerr
	}
	return []fhir.Resource{cond}, nil
}

type conditionOpts struct {
	concept       string
	concernStatus string // "" when there is no concern wrapper
	category      string
	seed          string
	actAuthors    []cda.Author
}

// buildCondition converts one problem observation. The problem itself is the
// observation's value; the observation code only classifies the kind of
// problem and is not carried over.
func buildCondition(ctx *Context, obs *cda.Observation, opts conditionOpts) (*fhir.Condition, *Error) {
	root, ext := firstID(obs.IDs)
	id := ctx.Registry.GenerateID("Condition", root, ext, opts.seed)
	key := fhir.Key{Type: "Condition", ID: id}

	cond := &fhir.Condition{
		ID:         id,
		Identifier: identifiersOf(obs.IDs),
		Category:   []fhir.CodeableConcept{*conditionCategory(opts.category)},
	}

	if obs.Negated() {
		// Explicit negative assertion: the record states there is no
		// problem, rather than omitting one.
		cond.Code = fhir.Concept(terminology.URISNOMED, "160245001", "No current problems or disability")
	} else {
		v := obs.FirstValue()
		if v == nil {
			return nil, errMissing(ctx, opts.concept, "value")
		}
		cc, err := CodeConcept(valueAsCode(v), ctx.Vocab)
		if err != nil {
			return nil, errUnmappable(ctx, opts.concept, err)
		}
		if cc == nil {
			return nil, errMissing(ctx, opts.concept, "value")
		}
		cond.Code = cc
	}

	// Onset is the interval's point or low bound; the high bound is the
	// abatement.
	var abated bool
	if t := obs.EffectiveTime; t != nil {
		if dt, ok := FHIRDateTime(t.Value); ok {
			cond.Onset = fhir.OnsetDateTime{Value: dt}
		} else if dt, ok := FHIRDateTime(t.LowValue()); ok {
			cond.Onset = fhir.OnsetDateTime{Value: dt}
		}
		if dt, ok := FHIRDateTime(t.HighValue()); ok {
			cond.Abatement = fhir.AbatementDateTime{Value: dt}
			abated = true
		}
	}

	cond.ClinicalStatus = conditionClinicalStatus(ctx, opts.concernStatus, abated)
	cond.VerificationStatus = fhir.Concept(terminology.URIConditionVerStatus, "confirmed", "Confirmed")

	if dt := authorTime(obs.Authors); dt != "" {
		cond.RecordedDate = dt
	} else if dt := authorTime(opts.actAuthors); dt != "" {
		cond.RecordedDate = dt
	}

	cond.Subject = ctx.SubjectRef(key)
	cond.Asserter = ctx.AuthorRef(key)

	ctx.Registry.Register(cond)
	return cond, nil
}

// conditionClinicalStatus applies the concern status map with the
// default-active rule: an absent or unmapped status reads as active, or as
// resolved when the problem already carries an abatement date. A problem is
// never hidden behind a rejected status.
func conditionClinicalStatus(ctx *Context, concernStatus string, abated bool) *fhir.CodeableConcept {
	if code, ok := ctx.Vocab.StatusCode(terminology.DomainConditionClinical, concernStatus); ok {
		return fhir.Concept(terminology.URIConditionClinical, code, "")
	}
	if abated {
		return fhir.Concept(terminology.URIConditionClinical, terminology.ConditionResolved, "")
	}
	return fhir.Concept(terminology.URIConditionClinical, terminology.ConditionActive, "")
}

func conditionCategory(code string) *fhir.CodeableConcept {
	display := ""
	switch code {
	case "problem-list-item":
		display = "Problem List Item"
	case "encounter-diagnosis":
		display = "Encounter Diagnosis"
	}
	return fhir.Concept(terminology.URIConditionCategory, code, display)
}

package convert

import (
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const conceptGoal = "goal-observation"

// convertGoalObservation converts a goal observation into a Goal. The goal's
// description prefers the observation value (the stated target) and falls
// back to the observation code (the kind of goal).
func convertGoalObservation(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptGoal, "goal entry is not an observation")
	}

	desc, err := goalDescription(ctx, obs)
	if err != nil {
		return nil, errUnmappable(ctx, conceptGoal, err)
	}
	if desc == nil {
		return nil, errMissing(ctx, conceptGoal, "description")
	}

	root, ext := firstID(obs.IDs)
	id := ctx.Registry.GenerateID("Goal", root, ext, ctx.Path)
	key := fhir.Key{Type: "Goal", ID: id}

	g := &fhir.Goal{
		ID:          id,
		Identifier:  identifiersOf(obs.IDs),
		Description: desc,
	}

	if code, ok := ctx.Vocab.StatusCode(terminology.DomainGoal, statusOf(obs.StatusCode)); ok {
		g.LifecycleStatus = code
	} else {
		g.LifecycleStatus = "active"
	}

	if t := obs.EffectiveTime; t != nil {
		if d, ok := FHIRDate(t.Value); ok {
			g.Start = fhir.StartDate{Value: d}
		} else if d, ok := FHIRDate(t.LowValue()); ok {
			g.Start = fhir.StartDate{Value: d}
		}
	}
	g.Subject = ctx.SubjectRef(key)

	ctx.Registry.Register(g)
	return []fhir.Resource{g}, nil
}

func goalDescription(ctx *Context, obs *cda.Observation) (*fhir.CodeableConcept, error) {
	if v := obs.FirstValue(); v != nil {
		switch xsiLocal(v.XSIType) {
		case "ST", "ED":
			if s := strings.TrimSpace(v.Text); s != "" {
				return &fhir.CodeableConcept{Text: s}, nil
			}
		default:
			if v.Code != "" {
				return CodeConcept(valueAsCode(v), ctx.Vocab)
			}
			if s := strings.TrimSpace(v.Text); s != "" {
				return &fhir.CodeableConcept{Text: s}, nil
			}
		}
	}
	return CodeConcept(obs.Code, ctx.Vocab)
}

package convert

import (
	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const (
	conceptPlannedAct       = "planned-act"
	conceptPlannedProcedure = "planned-procedure"
)

// plannedView flattens the planned activity shapes into the fields a
// ServiceRequest draws on.
type plannedView struct {
	concept     string
	ids         []cda.InstanceID
	code        *cda.Code
	status      string
	effective   *cda.Time
	targetSites []cda.Code
	authors     []cda.Author
}

// convertPlannedAct converts a plan-of-care activity act into a
// ServiceRequest.
func convertPlannedAct(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	act := entry.Act
	if act == nil {
		return nil, errMalformed(ctx, conceptPlannedAct, "planned activity entry is not an act")
	}
	return buildServiceRequest(ctx, plannedView{
		concept:   conceptPlannedAct,
		ids:       act.IDs,
		code:      act.Code,
		status:    statusOf(act.StatusCode),
		effective: act.EffectiveTime,
		authors:   act.Authors,
	})
}

// convertPlannedProcedure converts a planned procedure into a
// ServiceRequest.
func convertPlannedProcedure(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	p := entry.Procedure
	if p == nil {
		return nil, errMalformed(ctx, conceptPlannedProcedure, "planned procedure entry is not a procedure")
	}
	return buildServiceRequest(ctx, plannedView{
		concept:     conceptPlannedProcedure,
		ids:         p.IDs,
		code:        p.Code,
		status:      statusOf(p.StatusCode),
		effective:   p.EffectiveTime,
		targetSites: p.TargetSiteCodes,
		authors:     p.Authors,
	})
}

func buildServiceRequest(ctx *Context, v plannedView) ([]fhir.Resource, *Error) {
	cc, err := CodeConcept(v.code, ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, v.concept, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, v.concept, "code")
	}

	root, ext := firstID(v.ids)
	id := ctx.Registry.GenerateID("ServiceRequest", root, ext, ctx.Path)
	key := fhir.Key{Type: "ServiceRequest", ID: id}

	sr := &fhir.ServiceRequest{
		ID:         id,
		Identifier: identifiersOf(v.ids),
		Intent:     "plan",
		Code:       cc,
	}

	// A plan still on the books is active; a rejected or absent status never
	// hides the planned work.
	if code, ok := ctx.Vocab.StatusCode(terminology.DomainServiceRequest, v.status); ok {
		sr.Status = code
	} else {
		sr.Status = "active"
	}

	if tc, ok := ResolveTime(v.effective); ok {
		sr.Occurrence = tc.RequestOccurrence()
	}
	for i := range v.targetSites {
		if site := OptionalConcept(&v.targetSites[i], ctx.Vocab); site != nil {
			sr.BodySite = append(sr.BodySite, *site)
		}
	}
	sr.AuthoredOn = authorTime(v.authors)
	sr.Subject = ctx.SubjectRef(key)
	sr.Requester = ctx.AuthorRef(key)

	ctx.Registry.Register(sr)
	return []fhir.Resource{sr}, nil
}

package convert

import (
	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const conceptProcedure = "procedure-activity"

// procedureView flattens the three procedure activity shapes (act,
// observation, procedure) into the fields a Procedure draws on.
type procedureView struct {
	ids         []cda.InstanceID
	code        *cda.Code
	status      string
	negated     bool
	effective   *cda.Time
	targetSites []cda.Code
	performers  []cda.Performer
}

// convertProcedureActivity converts a procedure activity of any shape into
// a Procedure. The shapes differ only in which optional fields they can
// carry; the code is required on all of them.
func convertProcedureActivity(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	var v procedureView
	switch {
	case entry.Procedure != nil:
		p := entry.Procedure
		v = procedureView{
			ids:         p.IDs,
			code:        p.Code,
			status:      statusOf(p.StatusCode),
			negated:     p.Negated(),
			effective:   p.EffectiveTime,
			targetSites: p.TargetSiteCodes,
			performers:  p.Performers,
		}
	case entry.Act != nil:
		a := entry.Act
		v = procedureView{
			ids:        a.IDs,
			code:       a.Code,
			status:     statusOf(a.StatusCode),
			negated:    a.NegationInd == "true",
			effective:  a.EffectiveTime,
			performers: a.Performers,
		}
	case entry.Observation != nil:
		o := entry.Observation
		v = procedureView{
			ids:        o.IDs,
			code:       o.Code,
			status:     statusOf(o.StatusCode),
			negated:    o.Negated(),
			effective:  o.EffectiveTime,
			performers: o.Performers,
		}
		if o.TargetSiteCode != nil {
			v.targetSites = []cda.Code{*o.TargetSiteCode}
		}
	default:
		return nil, errMalformed(ctx, conceptProcedure, "procedure entry has no recognizable shape")
	}

	cc, err := CodeConcept(v.code, ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptProcedure, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, conceptProcedure, "code")
	}

	root, ext := firstID(v.ids)
	id := ctx.Registry.GenerateID("Procedure", root, ext, ctx.Path)
	key := fhir.Key{Type: "Procedure", ID: id}

	proc := &fhir.Procedure{
		ID:         id,
		Identifier: identifiersOf(v.ids),
		Code:       cc,
	}

	if v.negated {
		proc.Status = terminology.ProcedureNotDone
	} else if code, ok := ctx.Vocab.StatusCode(terminology.DomainProcedure, v.status); ok {
		proc.Status = code
	} else {
		proc.Status = terminology.ProcedureCompleted
	}

	if tc, ok := ResolveTime(v.effective); ok {
		proc.Performed = tc.ProcedurePerformed()
	}
	for i := range v.targetSites {
		if site := OptionalConcept(&v.targetSites[i], ctx.Vocab); site != nil {
			proc.BodySite = append(proc.BodySite, *site)
		}
	}
	proc.Subject = ctx.SubjectRef(key)

	out := []fhir.Resource{proc}
	if p, ref, ok := actorRef(ctx, key, v.performers); ok {
		proc.Performer = []fhir.ProcedurePerformer{{Actor: ref}}
		if p != nil {
			out = append(out, p)
		}
	}

	ctx.Registry.Register(proc)
	return out, nil
}

package convert

import (
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const conceptImmunization = "immunization-activity"

// convertImmunizationActivity converts an immunization activity into an
// Immunization. A negated activity becomes a not-done record carrying the
// refusal reason when one is documented.
func convertImmunizationActivity(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	sa := entry.SubstanceAdministration
	if sa == nil {
		return nil, errMalformed(ctx, conceptImmunization, "immunization entry is not a substanceAdministration")
	}

	cc, err := CodeConcept(sa.Consumable.MaterialCode(), ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptImmunization, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, conceptImmunization, "vaccine code")
	}

	occurrence, ok := occurrencePoint(sa.IntervalTime())
	if !ok {
		return nil, errMissing(ctx, conceptImmunization, "effectiveTime")
	}

	root, ext := firstID(sa.IDs)
	id := ctx.Registry.GenerateID("Immunization", root, ext, ctx.Path)
	key := fhir.Key{Type: "Immunization", ID: id}

	imm := &fhir.Immunization{
		ID:          id,
		Identifier:  identifiersOf(sa.IDs),
		VaccineCode: cc,
		Occurrence:  fhir.OccurrenceDateTime{Value: occurrence},
		Route:       OptionalConcept(sa.RouteCode, ctx.Vocab),
	}

	if sa.Negated() {
		imm.Status = terminology.ImmunizationNotDone
		imm.StatusReason = refusalReason(ctx, sa.EntryRelationships)
	} else if code, ok := ctx.Vocab.StatusCode(terminology.DomainImmunization, statusOf(sa.StatusCode)); ok {
		imm.Status = code
	} else {
		imm.Status = terminology.ImmunizationCompleted
	}

	if mp := sa.Consumable; mp != nil && mp.ManufacturedProduct != nil && mp.ManufacturedProduct.ManufacturedMaterial != nil {
		imm.LotNumber = strings.TrimSpace(mp.ManufacturedProduct.ManufacturedMaterial.LotNumberText)
	}
	imm.DoseQuantity = QuantityOf(sa.DoseQuantity)
	imm.Patient = ctx.SubjectRef(key)

	out := []fhir.Resource{imm}
	if p, ref, ok := actorRef(ctx, key, sa.Performers); ok {
		imm.Performer = []fhir.ImmunizationPerformer{{Actor: ref}}
		if p != nil {
			out = append(out, p)
		}
	}

	ctx.Registry.Register(imm)
	return out, nil
}

// occurrencePoint reduces an effective time to the single administration
// instant: the literal value, or the interval start.
func occurrencePoint(t *cda.Time) (string, bool) {
	if t == nil {
		return "", false
	}
	if dt, ok := FHIRDateTime(t.Value); ok {
		return dt, true
	}
	return FHIRDateTime(t.LowValue())
}

// refusalReason returns the coded reason of a nested refusal act.
func refusalReason(ctx *Context, ers []cda.EntryRelationship) *fhir.CodeableConcept {
	for i := range ers {
		act := ers[i].Act
		if act == nil || !cda.HasTemplate(act.TemplateIDs, cda.TemplateImmunizationRefusal) {
			continue
		}
		if cc := OptionalConcept(act.Code, ctx.Vocab); cc != nil {
			return cc
		}
	}
	return nil
}

package convert

import (
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const conceptMedication = "medication-activity"

// convertMedicationActivity converts a medication activity into a
// MedicationStatement. The administered material's code is the statement's
// medication; an activity without one cannot say what was taken.
func convertMedicationActivity(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	sa := entry.SubstanceAdministration
	if sa == nil {
		return nil, errMalformed(ctx, conceptMedication, "medication entry is not a substanceAdministration")
	}

	cc, err := CodeConcept(sa.Consumable.MaterialCode(), ctx.Vocab)
	if err != nil {
		return nil, errUnmappable(ctx, conceptMedication, err)
	}
	if cc == nil {
		return nil, errMissing(ctx, conceptMedication, "manufactured material code")
	}

	root, ext := firstID(sa.IDs)
	id := ctx.Registry.GenerateID("MedicationStatement", root, ext, ctx.Path)
	key := fhir.Key{Type: "MedicationStatement", ID: id}

	m := &fhir.MedicationStatement{
		ID:         id,
		Identifier: identifiersOf(sa.IDs),
		Medication: fhir.MedicationConcept{Value: *cc},
	}

	if sa.Negated() {
		m.Status = terminology.MedicationNotTaken
	} else if code, ok := ctx.Vocab.StatusCode(terminology.DomainMedication, statusOf(sa.StatusCode)); ok {
		m.Status = code
	} else {
		m.Status = terminology.MedicationUnknown
	}

	if tc, ok := ResolveTime(sa.IntervalTime()); ok {
		m.Effective = tc.MedicationEffective()
	}

	m.DateAsserted = authorTime(sa.Authors)
	m.Subject = ctx.SubjectRef(key)
	m.InformationSource = ctx.AuthorRef(key)

	if d := dosageOf(ctx, sa); d != nil {
		m.Dosage = []fhir.Dosage{*d}
	}

	ctx.Registry.Register(m)
	return []fhir.Resource{m}, nil
}

// dosageOf assembles route, free-text sig, and dose/rate amounts. Returns
// nil when the activity carries none of them.
func dosageOf(ctx *Context, sa *cda.SubstanceAdministration) *fhir.Dosage {
	d := fhir.Dosage{Route: OptionalConcept(sa.RouteCode, ctx.Vocab)}
	if sa.Text != nil {
		d.Text = strings.TrimSpace(sa.Text.Text)
	}

	dar := fhir.DoseAndRate{
		DoseQuantity: QuantityOf(sa.DoseQuantity),
		RateQuantity: QuantityOf(sa.RateQuantity),
	}
	if dar.DoseQuantity != nil || dar.RateQuantity != nil {
		d.DoseAndRate = []fhir.DoseAndRate{dar}
	}

	if d.Text == "" && d.Route == nil && d.DoseAndRate == nil {
		return nil
	}
	return &d
}

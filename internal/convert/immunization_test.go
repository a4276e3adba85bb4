package convert

import (
	"testing"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

func immunizationActivity() *cda.SubstanceAdministration {
	return &cda.SubstanceAdministration{
		TemplateIDs:    tid(cda.TemplateImmunizationActivity),
		IDs:            []cda.InstanceID{{Root: "1.2.3.4", Extension: "imm-1"}},
		StatusCode:     &cda.Code{Code: "completed"},
		EffectiveTimes: []cda.Time{{Value: "20231015"}},
		Consumable: &cda.Consumable{ManufacturedProduct: &cda.ManufacturedProduct{
			ManufacturedMaterial: &cda.ManufacturedMaterial{
				Code:          codeOf("140", terminology.OIDCVX, "Influenza, seasonal, injectable, preservative free"),
				LotNumberText: " LOT-4711 ",
			},
		}},
	}
}

func TestConvertImmunizationActivity_Base(t *testing.T) {
	ctx := testContext(t)
	entry := cda.Entry{SubstanceAdministration: immunizationActivity()}

	out, cerr := convertImmunizationActivity(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	imm := out[0].(*fhir.Immunization)
	if imm.Status != terminology.ImmunizationCompleted {
		t.Errorf("expected status completed, got %q", imm.Status)
	}
	occ, ok := imm.Occurrence.(fhir.OccurrenceDateTime)
	if !ok || occ.Value != "2023-10-15" {
		t.Errorf("unexpected occurrence: %+v", imm.Occurrence)
	}
	if imm.VaccineCode.Coding[0].Code != "140" {
		t.Errorf("unexpected vaccine code: %+v", imm.VaccineCode)
	}
	if imm.LotNumber != "LOT-4711" {
		t.Errorf("expected trimmed lot number, got %q", imm.LotNumber)
	}
}

func TestConvertImmunizationActivity_IntervalStartAsOccurrence(t *testing.T) {
	ctx := testContext(t)
	sa := immunizationActivity()
	sa.EffectiveTimes = []cda.Time{{Low: &cda.Bound{Value: "20231015"}}}
	entry := cda.Entry{SubstanceAdministration: sa}

	out, cerr := convertImmunizationActivity(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	occ := out[0].(*fhir.Immunization).Occurrence.(fhir.OccurrenceDateTime)
	if occ.Value != "2023-10-15" {
		t.Errorf("expected the interval start as occurrence, got %q", occ.Value)
	}
}

func TestConvertImmunizationActivity_MissingOccurrence(t *testing.T) {
	ctx := testContext(t)
	sa := immunizationActivity()
	sa.EffectiveTimes = nil
	entry := cda.Entry{SubstanceAdministration: sa}

	_, cerr := convertImmunizationActivity(ctx, &entry)
	if cerr == nil || cerr.Kind != MissingRequiredField {
		t.Fatalf("expected MissingRequiredField, got %v", cerr)
	}
}

func TestConvertImmunizationActivity_RefusedWithReason(t *testing.T) {
	ctx := testContext(t)
	sa := immunizationActivity()
	sa.NegationInd = "true"
	sa.EntryRelationships = []cda.EntryRelationship{{
		Act: &cda.Act{
			TemplateIDs: tid(cda.TemplateImmunizationRefusal),
			Code:        codeOf("PATOBJ", terminology.OIDActReason, "patient objection"),
		},
	}}
	entry := cda.Entry{SubstanceAdministration: sa}

	out, cerr := convertImmunizationActivity(ctx, &entry)
	if cerr != nil {
		t.Fatalf("a refusal must convert, not fail: %v", cerr)
	}
	imm := out[0].(*fhir.Immunization)
	if imm.Status != terminology.ImmunizationNotDone {
		t.Errorf("expected status not-done, got %q", imm.Status)
	}
	if imm.StatusReason == nil || imm.StatusReason.Coding[0].Code != "PATOBJ" {
		t.Errorf("expected the refusal reason, got %+v", imm.StatusReason)
	}
}

func TestConvertImmunizationActivity_PerformerPriority(t *testing.T) {
	ctx := testContext(t)
	author := &fhir.Practitioner{ID: "author-1"}
	ctx.Registry.Register(author)
	ctx.Doc.AuthorKey = author.Key()

	// With an entry-level performer, the minted practitioner wins.
	sa := immunizationActivity()
	sa.Performers = []cda.Performer{{AssignedEntity: &cda.AssignedEntity{
		IDs:            []cda.InstanceID{{Root: "2.16.840.1.113883.4.6", Extension: "555"}},
		AssignedPerson: &cda.Person{Names: []cda.Name{{Givens: []string{"Flo"}, Family: "Shotte"}}},
	}}}
	out, cerr := convertImmunizationActivity(ctx, &cda.Entry{SubstanceAdministration: sa})
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if len(out) != 2 {
		t.Fatalf("expected the minted practitioner alongside the immunization, got %d resources", len(out))
	}
	imm := out[0].(*fhir.Immunization)
	if len(imm.Performer) != 1 || imm.Performer[0].Actor.Reference != "Practitioner/555" {
		t.Errorf("expected the entry performer, got %+v", imm.Performer)
	}

	// Without one, the document author backs it up.
	out, cerr = convertImmunizationActivity(ctx, &cda.Entry{SubstanceAdministration: immunizationActivity()})
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	imm = out[0].(*fhir.Immunization)
	if len(imm.Performer) != 1 || imm.Performer[0].Actor.Reference != "Practitioner/author-1" {
		t.Errorf("expected the document author fallback, got %+v", imm.Performer)
	}

	// With neither, the field is omitted, never faked.
	ctx2 := testContext(t)
	out, cerr = convertImmunizationActivity(ctx2, &cda.Entry{SubstanceAdministration: immunizationActivity()})
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if perf := out[0].(*fhir.Immunization).Performer; perf != nil {
		t.Errorf("expected no performer, got %+v", perf)
	}
}

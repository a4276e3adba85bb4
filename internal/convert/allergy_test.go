package convert

import (
	"testing"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/terminology"
)

func allergyObservation() *cda.Observation {
	return &cda.Observation{
		TemplateIDs:   tid(cda.TemplateAllergyObservation),
		IDs:           []cda.InstanceID{{Root: "1.2.3.4", Extension: "alg-1"}},
		Code:          codeOf("ASSERTION", "2.16.840.1.113883.5.4", ""),
		StatusCode:    &cda.Code{Code: "completed"},
		EffectiveTime: &cda.Time{Low: &cda.Bound{Value: "20150601"}},
		Values: []cda.Value{{
			XSIType: "CD", Code: "416098002",
			CodeSystem: terminology.OIDSNOMED, DisplayName: "Drug allergy",
		}},
		Participants: []cda.Participant{{
			TypeCode: "CSM",
			ParticipantRole: &cda.ParticipantRole{
				PlayingEntity: &cda.PlayingEntity{
					Code: codeOf("7980", terminology.OIDRxNorm, "Penicillin G"),
				},
			},
		}},
	}
}

func TestBuildAllergy_Base(t *testing.T) {
	ctx := testContext(t)
	a, cerr := buildAllergy(ctx, allergyObservation(), allergyOpts{concept: "test", concernStatus: "active", seed: "s"})
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if a.ID != "alg-1" {
		t.Errorf("expected the source extension as id, got %q", a.ID)
	}
	if a.Code == nil || a.Code.Coding[0].Code != "7980" {
		t.Errorf("expected the allergen as the code, got %+v", a.Code)
	}
	if a.Type != "allergy" {
		t.Errorf("expected type allergy from the propensity value, got %q", a.Type)
	}
	if len(a.Category) != 1 || a.Category[0] != "medication" {
		t.Errorf("expected category medication, got %v", a.Category)
	}
	if a.ClinicalStatus.Coding[0].Code != terminology.AllergyActive {
		t.Errorf("unexpected clinicalStatus: %+v", a.ClinicalStatus)
	}
}

func TestBuildAllergy_MissingAllergen(t *testing.T) {
	ctx := testContext(t)
	obs := allergyObservation()
	obs.Participants = nil
	_, cerr := buildAllergy(ctx, obs, allergyOpts{concept: "test", seed: "s"})
	if cerr == nil || cerr.Kind != MissingRequiredField {
		t.Fatalf("expected MissingRequiredField, got %v", cerr)
	}
}

func TestBuildAllergy_Negated(t *testing.T) {
	ctx := testContext(t)
	obs := allergyObservation()
	obs.NegationInd = "true"
	obs.Participants = nil

	a, cerr := buildAllergy(ctx, obs, allergyOpts{concept: "test", seed: "s"})
	if cerr != nil {
		t.Fatalf("a negated assertion must convert, not fail: %v", cerr)
	}
	c := a.Code.Coding[0]
	if c.System != terminology.URISNOMED || c.Code != "716186003" {
		t.Errorf("expected the explicit no-known-allergy concept, got %+v", c)
	}
}

func TestBuildAllergy_StatusDefaultsActive(t *testing.T) {
	ctx := testContext(t)
	a, cerr := buildAllergy(ctx, allergyObservation(), allergyOpts{concept: "test", seed: "s"})
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if a.ClinicalStatus.Coding[0].Code != terminology.AllergyActive {
		t.Errorf("absent concern status should default to active, got %+v", a.ClinicalStatus)
	}
}

func TestBuildAllergy_ReactionsAndSeverity(t *testing.T) {
	ctx := testContext(t)
	obs := allergyObservation()
	obs.EntryRelationships = []cda.EntryRelationship{
		{
			Observation: &cda.Observation{
				TemplateIDs: tid(cda.TemplateReactionObservation),
				Values: []cda.Value{{
					XSIType: "CD", Code: "247472004",
					CodeSystem: terminology.OIDSNOMED, DisplayName: "Hives",
				}},
				EffectiveTime: &cda.Time{Low: &cda.Bound{Value: "20150601"}},
				EntryRelationships: []cda.EntryRelationship{{
					Observation: &cda.Observation{
						TemplateIDs: tid(cda.TemplateSeverityObservation),
						Values:      []cda.Value{{XSIType: "CD", Code: "24484000", CodeSystem: terminology.OIDSNOMED}},
					},
				}},
			},
		},
		{
			Observation: &cda.Observation{
				TemplateIDs: tid(cda.TemplateSeverityObservation),
				Values:      []cda.Value{{XSIType: "CD", Code: "24484000", CodeSystem: terminology.OIDSNOMED}},
			},
		},
	}

	a, cerr := buildAllergy(ctx, obs, allergyOpts{concept: "test", seed: "s"})
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if len(a.Reaction) != 1 {
		t.Fatalf("expected 1 reaction, got %d", len(a.Reaction))
	}
	r := a.Reaction[0]
	if len(r.Manifestation) != 1 || r.Manifestation[0].Coding[0].Code != "247472004" {
		t.Errorf("unexpected manifestation: %+v", r.Manifestation)
	}
	if r.Severity != "severe" {
		t.Errorf("expected reaction severity severe, got %q", r.Severity)
	}
	if r.Onset != "2015-06-01" {
		t.Errorf("unexpected reaction onset: %q", r.Onset)
	}
	if a.Criticality != "high" {
		t.Errorf("expected observation-level severity as criticality high, got %q", a.Criticality)
	}
}

func TestConvertAllergyConcern_Dispatch(t *testing.T) {
	ctx := testContext(t)
	entry := cda.Entry{Act: &cda.Act{
		TemplateIDs: tid(cda.TemplateAllergyConcernAct),
		StatusCode:  &cda.Code{Code: "completed"},
		EntryRelationships: []cda.EntryRelationship{
			{Observation: allergyObservation()},
		},
	}}
	out, cerr := convertAllergyConcern(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(out))
	}
}

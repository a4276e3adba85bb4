package convert

import (
	"testing"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

func goalEntry(mutate func(*cda.Observation)) cda.Entry {
	obs := &cda.Observation{
		MoodCode:      "GOL",
		TemplateIDs:   tid(cda.TemplateGoalObservation),
		IDs:           []cda.InstanceID{{Root: "1.2.3", Extension: "goal-1"}},
		Code:          codeOf("29463-7", terminology.OIDLOINC, "Body weight"),
		StatusCode:    &cda.Code{Code: "active"},
		EffectiveTime: &cda.Time{Value: "20240201"},
		Values: []cda.Value{{
			XSIType: "ST", Text: "Lose 10 pounds by summer",
		}},
	}
	if mutate != nil {
		mutate(obs)
	}
	return cda.Entry{Observation: obs}
}

func TestConvertGoalObservation(t *testing.T) {
	ctx := testContext(t)
	entry := goalEntry(nil)

	out, cerr := convertGoalObservation(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	g, ok := out[0].(*fhir.Goal)
	if !ok {
		t.Fatalf("resource is %T, want *fhir.Goal", out[0])
	}
	if g.LifecycleStatus != "active" {
		t.Errorf("lifecycleStatus = %q, want active", g.LifecycleStatus)
	}
	// The stated target wins over the goal kind.
	if g.Description == nil || g.Description.Text != "Lose 10 pounds by summer" {
		t.Errorf("description = %+v, want the value text", g.Description)
	}
	start, ok := g.Start.(fhir.StartDate)
	if !ok {
		t.Fatalf("start is %T, want StartDate", g.Start)
	}
	if start.Value != "2024-02-01" {
		t.Errorf("start = %q, want 2024-02-01", start.Value)
	}
	if g.Subject == nil || g.Subject.Reference != "Patient/patient-1" {
		t.Errorf("subject = %+v, want Patient/patient-1", g.Subject)
	}
}

func TestConvertGoalObservation_CodedValue(t *testing.T) {
	ctx := testContext(t)
	entry := goalEntry(func(o *cda.Observation) {
		o.Values = []cda.Value{{
			XSIType: "CD", Code: "160904001",
			CodeSystem: terminology.OIDSNOMED, DisplayName: "Full-time employment",
		}}
	})

	out, cerr := convertGoalObservation(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	g := out[0].(*fhir.Goal)
	if len(g.Description.Coding) != 1 || g.Description.Coding[0].Code != "160904001" {
		t.Errorf("description = %+v, want coded value", g.Description)
	}
}

func TestConvertGoalObservation_FallsBackToCode(t *testing.T) {
	ctx := testContext(t)
	entry := goalEntry(func(o *cda.Observation) {
		o.Values = nil
	})

	out, cerr := convertGoalObservation(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	g := out[0].(*fhir.Goal)
	if len(g.Description.Coding) != 1 || g.Description.Coding[0].Code != "29463-7" {
		t.Errorf("description = %+v, want the observation code", g.Description)
	}
}

func TestConvertGoalObservation_StatusFallback(t *testing.T) {
	ctx := testContext(t)
	entry := goalEntry(func(o *cda.Observation) {
		o.StatusCode = nil
		o.EffectiveTime = &cda.Time{Low: &cda.Bound{Value: "20240315"}}
	})

	out, cerr := convertGoalObservation(ctx, &entry)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	g := out[0].(*fhir.Goal)
	if g.LifecycleStatus != "active" {
		t.Errorf("lifecycleStatus = %q, want active fallback", g.LifecycleStatus)
	}
	if start, ok := g.Start.(fhir.StartDate); !ok || start.Value != "2024-03-15" {
		t.Errorf("start = %+v, want interval low 2024-03-15", g.Start)
	}
}

func TestConvertGoalObservation_NoDescription(t *testing.T) {
	ctx := testContext(t)
	entry := goalEntry(func(o *cda.Observation) {
		o.Values = nil
		o.Code = nil
	})

	_, cerr := convertGoalObservation(ctx, &entry)
	if cerr == nil || cerr.Kind != MissingRequiredField {
		t.Fatalf("error = %v, want missing-required-field", cerr)
	}
}

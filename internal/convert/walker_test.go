package convert

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

// testContext builds a conversion context with a registered subject, the way
// the engine does before walking.
func testContext(t *testing.T) *Context {
	t.Helper()
	ctx := &Context{
		Doc:      &DocumentScope{},
		Registry: NewRegistry(),
		Vocab:    DefaultVocabulary{Systems: terminology.Default()},
		Log:      zerolog.Nop(),
	}
	patient := &fhir.Patient{ID: "patient-1"}
	ctx.Registry.Register(patient)
	ctx.Doc.SubjectKey = patient.Key()
	return ctx
}

func tid(roots ...string) []cda.TemplateID {
	out := make([]cda.TemplateID, len(roots))
	for i, r := range roots {
		out[i] = cda.TemplateID{Root: r}
	}
	return out
}

func codeOf(code, system, display string) *cda.Code {
	return &cda.Code{Code: code, CodeSystem: system, DisplayName: display}
}

// problemEntry builds a problem concern act wrapping one problem
// observation, the canonical shape of a problems section entry.
func problemEntry(concernTemplates, obsTemplates []string) cda.Entry {
	return cda.Entry{Act: &cda.Act{
		TemplateIDs: tid(concernTemplates...),
		IDs:         []cda.InstanceID{{Root: "1.2.3.4", Extension: "concern-1"}},
		StatusCode:  &cda.Code{Code: "active"},
		EntryRelationships: []cda.EntryRelationship{{
			TypeCode: "SUBJ",
			Observation: &cda.Observation{
				TemplateIDs:   tid(obsTemplates...),
				IDs:           []cda.InstanceID{{Root: "1.2.3.4", Extension: "prob-1"}},
				Code:          codeOf("55607006", terminology.OIDSNOMED, "Problem"),
				StatusCode:    &cda.Code{Code: "completed"},
				EffectiveTime: &cda.Time{Value: "20230510"},
				Values: []cda.Value{{
					XSIType:     "CD",
					Code:        "38341003",
					CodeSystem:  terminology.OIDSNOMED,
					DisplayName: "Hypertension",
				}},
			},
		}},
	}}
}

func problemSection(entries ...cda.Entry) *cda.Section {
	return &cda.Section{
		TemplateIDs: tid(cda.TemplateProblemsSection),
		Code:        codeOf(cda.LOINCProblemsSection, terminology.OIDLOINC, "Problem list"),
		Title:       "Problems",
		Entries:     entries,
	}
}

func TestWalk_BaseCase(t *testing.T) {
	ctx := testContext(t)
	entry := problemEntry(
		[]string{cda.TemplateProblemConcernAct},
		[]string{cda.TemplateProblemObservation},
	)

	res, err := Walk(ctx, []*cda.Section{problemSection(entry)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
	if len(res.Resources) != 1 {
		t.Fatalf("expected exactly 1 resource, got %d", len(res.Resources))
	}

	cond, ok := res.Resources[0].(*fhir.Condition)
	if !ok {
		t.Fatalf("expected a Condition, got %T", res.Resources[0])
	}
	if cond.ID != "prob-1" {
		t.Errorf("expected the source extension as id, got %q", cond.ID)
	}
	if _, ok := cond.Onset.(fhir.OnsetDateTime); !ok {
		t.Errorf("expected the point-in-time onset variant, got %T", cond.Onset)
	}
	if cond.ClinicalStatus == nil || cond.ClinicalStatus.Coding[0].Code != terminology.ConditionActive {
		t.Errorf("expected clinicalStatus active, got %+v", cond.ClinicalStatus)
	}
}

func TestWalk_DuplicateTemplatesConvertOnce(t *testing.T) {
	ctx := testContext(t)
	// Base and versioned template ids on both the concern and the
	// observation: the classic duplicate-output trap.
	entry := problemEntry(
		[]string{cda.TemplateProblemConcernAct, cda.TemplateProblemConcernAct},
		[]string{cda.TemplateProblemObservation, cda.TemplateProblemObservation},
	)

	res, err := Walk(ctx, []*cda.Section{problemSection(entry)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Resources) != 1 {
		t.Fatalf("entry with duplicate template ids must convert once, got %d resources", len(res.Resources))
	}
}

func TestWalk_UnknownTemplateIsNoOp(t *testing.T) {
	ctx := testContext(t)
	entry := cda.Entry{Observation: &cda.Observation{
		TemplateIDs: tid("2.16.840.1.113883.10.20.99.99"),
		Code:        codeOf("X", terminology.OIDLOINC, ""),
	}}

	res, err := Walk(ctx, []*cda.Section{problemSection(entry)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Resources) != 0 || len(res.Issues) != 0 {
		t.Errorf("unrecognized template should be skipped silently, got %d resources, %d issues",
			len(res.Resources), len(res.Issues))
	}
}

func TestWalk_PartialFailureContinues(t *testing.T) {
	ctx := testContext(t)
	// First entry is missing its problem observation value; the second is
	// fine. The walk must record one issue and still convert the second.
	broken := problemEntry(
		[]string{cda.TemplateProblemConcernAct},
		[]string{cda.TemplateProblemObservation},
	)
	broken.Act.EntryRelationships[0].Observation.Values = nil
	good := problemEntry(
		[]string{cda.TemplateProblemConcernAct},
		[]string{cda.TemplateProblemObservation},
	)

	res, err := Walk(ctx, []*cda.Section{problemSection(broken, good)})
	if err != nil {
		t.Fatalf("per-entry failure must not abort the walk: %v", err)
	}
	if len(res.Issues) != 1 {
		t.Fatalf("expected 1 recorded issue, got %d", len(res.Issues))
	}
	if res.Issues[0].Kind != MissingRequiredField {
		t.Errorf("expected MissingRequiredField, got %s", res.Issues[0].Kind)
	}
	if len(res.Resources) != 1 {
		t.Fatalf("expected the sibling entry to convert, got %d resources", len(res.Resources))
	}
}

func TestWalk_NestedSections(t *testing.T) {
	ctx := testContext(t)
	inner := problemSection(problemEntry(
		[]string{cda.TemplateProblemConcernAct},
		[]string{cda.TemplateProblemObservation},
	))
	outer := &cda.Section{
		Code:       codeOf("10154-3", terminology.OIDLOINC, "Chief complaint"),
		Title:      "Hospital Course",
		Components: []cda.SectionComponent{{Section: inner}},
	}

	res, err := Walk(ctx, []*cda.Section{outer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Resources) != 1 {
		t.Fatalf("expected the nested entry to convert, got %d resources", len(res.Resources))
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 producing section, got %d", len(res.Sections))
	}
	sc := res.Sections[0].Context
	if sc.Code != cda.LOINCProblemsSection {
		t.Errorf("expected the inner section's code, got %q", sc.Code)
	}
	if sc.Parent == nil || sc.Parent.Code != "10154-3" {
		t.Errorf("expected the ancestor section as parent context, got %+v", sc.Parent)
	}
}

func TestWalk_SectionIndexSkipsSupportingActors(t *testing.T) {
	ctx := testContext(t)
	entry := cda.Entry{Procedure: &cda.Procedure{
		TemplateIDs:   tid(cda.TemplateProcedureActivityProc),
		IDs:           []cda.InstanceID{{Root: "1.2.3", Extension: "proc-1"}},
		Code:          codeOf("80146002", terminology.OIDSNOMED, "Appendectomy"),
		StatusCode:    &cda.Code{Code: "completed"},
		EffectiveTime: &cda.Time{Value: "20230102"},
		Performers: []cda.Performer{{
			AssignedEntity: &cda.AssignedEntity{
				IDs:            []cda.InstanceID{{Root: "2.16.840.1.113883.4.6", Extension: "1234567890"}},
				AssignedPerson: &cda.Person{Names: []cda.Name{{Givens: []string{"Sam"}, Family: "Cutter"}}},
			},
		}},
	}}
	section := &cda.Section{
		Code:    codeOf(cda.LOINCProceduresSection, terminology.OIDLOINC, "Procedures"),
		Entries: []cda.Entry{entry},
	}

	res, err := Walk(ctx, []*cda.Section{section})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Resources) != 2 {
		t.Fatalf("expected Procedure plus minted Practitioner, got %d resources", len(res.Resources))
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 producing section, got %d", len(res.Sections))
	}
	keys := res.Sections[0].Keys
	if len(keys) != 1 || keys[0].Type != "Procedure" {
		t.Errorf("section index should list the procedure only, got %v", keys)
	}
}

func TestWalk_DeterministicOrder(t *testing.T) {
	build := func() *WalkResult {
		ctx := testContext(t)
		sections := []*cda.Section{
			problemSection(
				problemEntry([]string{cda.TemplateProblemConcernAct}, []string{cda.TemplateProblemObservation}),
			),
			{
				Code: codeOf(cda.LOINCVitalSignsSection, terminology.OIDLOINC, "Vital signs"),
				Entries: []cda.Entry{{Organizer: &cda.Organizer{
					TemplateIDs:   tid(cda.TemplateVitalSignsOrganizer),
					IDs:           []cda.InstanceID{{Root: "1.2.3", Extension: "vs-1"}},
					StatusCode:    &cda.Code{Code: "completed"},
					EffectiveTime: &cda.Time{Value: "20230102"},
					Components: []cda.OrganizerComponent{{Observation: &cda.Observation{
						TemplateIDs:   tid(cda.TemplateVitalSignObservation),
						IDs:           []cda.InstanceID{{Root: "1.2.3", Extension: "vs-1-1"}},
						Code:          codeOf("8867-4", terminology.OIDLOINC, "Heart rate"),
						StatusCode:    &cda.Code{Code: "completed"},
						EffectiveTime: &cda.Time{Value: "20230102"},
						Values:        []cda.Value{{XSIType: "PQ", Value: "72", Unit: "/min"}},
					}}},
				}}},
			},
		}
		res, err := Walk(ctx, sections)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res
	}

	first := build()
	second := build()
	if len(first.Resources) != len(second.Resources) {
		t.Fatalf("runs differ in resource count: %d vs %d", len(first.Resources), len(second.Resources))
	}
	for i := range first.Resources {
		if first.Resources[i].Key() != second.Resources[i].Key() {
			t.Errorf("resource %d differs across runs: %v vs %v",
				i, first.Resources[i].Key(), second.Resources[i].Key())
		}
	}
}

package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
)

// Converter turns one source entry into zero or more resources. A converter
// registers every resource it returns and records every reference it embeds,
// so the closing check can settle them.
type Converter func(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error)

// dispatch maps entry template roots to converters. An entry is converted at
// most once: the first of its template roots (in document order) present
// here wins, so an entry carrying both a base and a versioned template id
// for the same concept produces one resource set, not two. Roots absent from
// the table are no-ops, which keeps unrecognized content forward-compatible.
var dispatch = map[string]Converter{
	cda.TemplateProblemConcernAct:     convertProblemConcern,
	cda.TemplateProblemObservation:    convertProblemObservation,
	cda.TemplateAllergyConcernAct:     convertAllergyConcern,
	cda.TemplateAllergyObservation:    convertAllergyObservation,
	cda.TemplateMedicationActivity:    convertMedicationActivity,
	cda.TemplateImmunizationActivity:  convertImmunizationActivity,
	cda.TemplateProcedureActivityProc: convertProcedureActivity,
	cda.TemplateProcedureActivityAct:  convertProcedureActivity,
	cda.TemplateProcedureActivityObs:  convertProcedureActivity,
	cda.TemplateResultOrganizer:       convertResultOrganizer,
	cda.TemplateResultObservation:     convertStandaloneResult,
	cda.TemplateVitalSignsOrganizer:   convertVitalSignsOrganizer,
	cda.TemplateVitalSignObservation:  convertStandaloneVitalSign,
	cda.TemplateSmokingStatus:         convertSmokingStatus,
	cda.TemplateSocialHistoryObs:      convertSocialHistoryObservation,
	cda.TemplateEncounterActivity:     convertEncounterActivity,
	cda.TemplatePlanOfCareActivityAct: convertPlannedAct,
	cda.TemplatePlannedProcedure:      convertPlannedProcedure,
	cda.TemplateGoalObservation:       convertGoalObservation,
	cda.TemplateNonMedSupplyActivity:  convertDeviceSupply,
	cda.TemplateFunctionalStatusObs:   convertFunctionalStatus,
}

// SectionOutput groups the keys of the clinical resources produced under one
// section, in production order. The assembler turns these into the
// composition's section index.
type SectionOutput struct {
	Context *SectionContext
	Keys    []fhir.Key
}

// WalkResult is everything one traversal produced: resources in
// deterministic pre-order, per-section key groups, and the recovered
// per-entry errors.
type WalkResult struct {
	Resources []fhir.Resource
	Sections  []SectionOutput
	Issues    []*Error
}

// Walk converts the section tree in document pre-order. Per-entry errors are
// collected and traversal continues with the remaining entries; a structural
// error aborts the whole walk.
func Walk(ctx *Context, sections []*cda.Section) (*WalkResult, error) {
	res := &WalkResult{}
	for _, s := range sections {
		if err := walkSection(ctx, s, nil, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func walkSection(ctx *Context, section *cda.Section, parent *SectionContext, res *WalkResult) error {
	sc := &SectionContext{Title: section.Title, Coded: section.Code, Parent: parent}
	if section.Code != nil {
		sc.Code = section.Code.Code
	}
	label := sectionLabel(section)
	out := SectionOutput{Context: sc}

	sctx := *ctx
	sctx.Section = sc
	for i := range section.Entries {
		entry := &section.Entries[i]
		conv := converterFor(entry)
		if conv == nil {
			continue
		}

		ectx := sctx
		ectx.Path = fmt.Sprintf("%s/entry[%d]", label, i+1)
		resources, cerr := conv(&ectx, entry)
		if cerr != nil {
			if cerr.Fatal() {
				return cerr
			}
			ctx.Log.Warn().
				Str("kind", string(cerr.Kind)).
				Str("concept", cerr.Concept).
				Str("path", cerr.Path).
				Msg("entry skipped")
			res.Issues = append(res.Issues, cerr)
			continue
		}
		for _, r := range resources {
			res.Resources = append(res.Resources, r)
			if indexable(r) {
				out.Keys = append(out.Keys, r.Key())
			}
		}
	}
	if len(out.Keys) > 0 {
		res.Sections = append(res.Sections, out)
	}

	for _, sub := range section.Subsections() {
		if err := walkSection(ctx, sub, sc, res); err != nil {
			return err
		}
	}
	return nil
}

// converterFor picks the converter for the first recognized template root.
func converterFor(e *cda.Entry) Converter {
	for _, root := range e.TemplateRoots() {
		if conv, ok := dispatch[root]; ok {
			return conv
		}
	}
	return nil
}

// indexable reports whether a resource belongs in the composition's section
// index. Practitioners and organizations minted for participations do not;
// they are supporting actors, not section content.
func indexable(r fhir.Resource) bool {
	switch r.ResourceType() {
	case "Practitioner", "Organization":
		return false
	default:
		return true
	}
}

func sectionLabel(s *cda.Section) string {
	if s.Code != nil && s.Code.Code != "" {
		return "section[" + s.Code.Code + "]"
	}
	if s.Title != "" {
		return "section[" + s.Title + "]"
	}
	return "section"
}

package convert

import (
	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const conceptFunctionalStatus = "functional-status-observation"

// convertFunctionalStatus converts a functional status observation into a
// survey Observation.
func convertFunctionalStatus(ctx *Context, entry *cda.Entry) ([]fhir.Resource, *Error) {
	obs := entry.Observation
	if obs == nil {
		return nil, errMalformed(ctx, conceptFunctionalStatus, "functional status entry is not an observation")
	}
	res, cerr := buildObservation(ctx, obs, observationOpts{
		concept:  conceptFunctionalStatus,
		category: terminology.CategorySurvey,
		seed:     ctx.Path,
	})
	if cerr != nil {
		return nil, cerr
	}
	return []fhir.Resource{res}, nil
}

package convert

import (
	"fmt"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

const uriBCP47 = "urn:ietf:bcp:47"

// HeaderResources holds the resources minted from the document header, in
// the order the bundle fronts them.
type HeaderResources struct {
	Patient   *fhir.Patient
	Authors   []*fhir.Practitioner
	Custodian *fhir.Organization
}

// All returns the header resources after the patient, in bundle order.
func (h *HeaderResources) All() []fhir.Resource {
	var out []fhir.Resource
	for _, a := range h.Authors {
		out = append(out, a)
	}
	if h.Custodian != nil {
		out = append(out, h.Custodian)
	}
	return out
}

// BuildHeader converts the document header: the record target becomes the
// Patient, person authors become Practitioners, and the custodian becomes
// an Organization. The subject and author keys are written back into the
// document scope so entry converters can reference them.
func BuildHeader(ctx *Context, doc *cda.Document) (*HeaderResources, *Error) {
	patient, cerr := buildPatient(ctx, doc.RecordTarget)
	if cerr != nil {
		return nil, cerr
	}
	ctx.Doc.SubjectKey = patient.Key()

	h := &HeaderResources{Patient: patient}
	for i := range doc.Authors {
		seed := fmt.Sprintf("header/author[%d]", i+1)
		p, ok := PractitionerFromAuthor(ctx, &doc.Authors[i], seed)
		if !ok {
			continue
		}
		ctx.Registry.Register(p)
		h.Authors = append(h.Authors, p)
		if ctx.Doc.AuthorKey == (fhir.Key{}) {
			ctx.Doc.AuthorKey = p.Key()
		}
	}
	if org, ok := custodianOrg(ctx, doc.Custodian); ok {
		ctx.Registry.Register(org)
		h.Custodian = org
	}
	return h, nil
}

// buildPatient converts the record target demographics. A document without
// a patient role is not convertible at all.
func buildPatient(ctx *Context, rt *cda.RecordTarget) (*fhir.Patient, *Error) {
	if rt == nil || rt.PatientRole == nil {
		return nil, errMalformed(ctx, "patient", "document names no patient")
	}
	pr := rt.PatientRole

	root, ext := firstID(pr.IDs)
	p := &fhir.Patient{
		ID:         ctx.Registry.GenerateID("Patient", root, ext, "header/recordTarget"),
		Identifier: identifiersOf(pr.IDs),
		Telecom:    contactPointsOf(pr.Telecoms),
		Address:    addressesOf(pr.Addrs),
	}

	if d := pr.Patient; d != nil {
		p.Name = humanNames(d.Names)
		if d.AdministrativeGenderCode != nil {
			if g, ok := terminology.AdministrativeGender(d.AdministrativeGenderCode.Code); ok {
				p.Gender = g
			}
		}
		if d.BirthTime != nil {
			if bd, ok := FHIRDate(d.BirthTime.Value); ok {
				p.BirthDate = bd
			}
		}
		p.MaritalStatus = OptionalConcept(d.MaritalStatusCode, ctx.Vocab)
		p.Communication = communicationsOf(d.LanguageCommunications)
	}

	ctx.Registry.Register(p)
	return p, nil
}

func communicationsOf(lcs []cda.LanguageCommunication) []fhir.PatientCommunication {
	var out []fhir.PatientCommunication
	for _, lc := range lcs {
		if lc.LanguageCode == nil || lc.LanguageCode.Code == "" {
			continue
		}
		out = append(out, fhir.PatientCommunication{
			Language:  fhir.Concept(uriBCP47, lc.LanguageCode.Code, ""),
			Preferred: lc.PreferenceInd.True(),
		})
	}
	return out
}

// custodianOrg converts the custodian organization. ok is false when the
// header names none or the organization carries nothing identifiable.
func custodianOrg(ctx *Context, c *cda.Custodian) (*fhir.Organization, bool) {
	if c == nil || c.AssignedCustodian == nil {
		return nil, false
	}
	co := c.AssignedCustodian.RepresentedCustodianOrganization
	if co == nil {
		return nil, false
	}
	ids := identifiersOf(co.IDs)
	if co.Name == "" && len(ids) == 0 {
		return nil, false
	}

	root, ext := firstID(co.IDs)
	return &fhir.Organization{
		ID:         ctx.Registry.GenerateID("Organization", root, ext, "header/custodian"),
		Identifier: ids,
		Name:       co.Name,
		Telecom:    contactPointsOf(co.Telecoms),
		Address:    addressesOf(co.Addrs),
	}, true
}

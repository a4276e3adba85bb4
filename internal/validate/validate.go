// Package validate checks converted resources against the structural rules
// of the target schema: required elements, status value sets, and the id
// grammar. It plugs into the conversion engine as its resource validator.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ehr/cdafhir/internal/fhir"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9.-]{1,64}$`)

// Checker validates one resource at a time. Safe for concurrent use.
type Checker struct {
	v *validator.Validate
}

func NewChecker() *Checker {
	v := validator.New()
	_ = v.RegisterValidation("fhirid", func(fl validator.FieldLevel) bool {
		return idPattern.MatchString(fl.Field().String())
	})
	return &Checker{v: v}
}

// Validate reports the first structural problem found in r, or nil. Types
// without a registered shape only get the id check.
func (c *Checker) Validate(r fhir.Resource) error {
	if r == nil {
		return errors.New("nil resource")
	}
	if !idPattern.MatchString(r.ResourceID()) {
		return fmt.Errorf("%s: id %q violates the id grammar", r.ResourceType(), r.ResourceID())
	}
	shape := shapeOf(r)
	if shape == nil {
		return nil
	}
	err := c.v.Struct(shape)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s/%s: %s fails %q", r.ResourceType(), r.ResourceID(),
			fieldName(fe), fe.Tag())
	}
	return fmt.Errorf("%s/%s: %w", r.ResourceType(), r.ResourceID(), err)
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is "conditionShape.Subject"; keep the field part.
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.StructField()
}

// The shape structs restate each resource's constraints as validate tags.
// Only the converted-from-source rules are expressed here, not the full
// schema: elements the converters never populate carry no tag.

type conditionShape struct {
	ClinicalStatus *fhir.CodeableConcept `validate:"required"`
	Code           *fhir.CodeableConcept `validate:"required"`
	Subject        *fhir.Reference       `validate:"required"`
}

type observationShape struct {
	Status           string                `validate:"required,oneof=registered preliminary final amended corrected cancelled entered-in-error unknown"`
	Code             *fhir.CodeableConcept `validate:"required"`
	Subject          *fhir.Reference       `validate:"required"`
	Value            fhir.ObservationValue `validate:"excluded_with=DataAbsentReason"`
	DataAbsentReason *fhir.CodeableConcept
}

type medicationStatementShape struct {
	Status     string              `validate:"required,oneof=active completed entered-in-error intended stopped on-hold unknown not-taken"`
	Medication fhir.MedicationForm `validate:"required"`
	Subject    *fhir.Reference     `validate:"required"`
}

type allergyShape struct {
	Patient     *fhir.Reference       `validate:"required"`
	Code        *fhir.CodeableConcept `validate:"required"`
	Type        string                `validate:"omitempty,oneof=allergy intolerance"`
	Category    []string              `validate:"dive,oneof=food medication environment biologic"`
	Criticality string                `validate:"omitempty,oneof=low high unable-to-assess"`
}

type immunizationShape struct {
	Status      string                      `validate:"required,oneof=completed entered-in-error not-done"`
	VaccineCode *fhir.CodeableConcept       `validate:"required"`
	Patient     *fhir.Reference             `validate:"required"`
	Occurrence  fhir.ImmunizationOccurrence `validate:"required"`
}

type procedureShape struct {
	Status  string                `validate:"required,oneof=preparation in-progress not-done on-hold stopped completed entered-in-error unknown"`
	Code    *fhir.CodeableConcept `validate:"required"`
	Subject *fhir.Reference       `validate:"required"`
}

type encounterShape struct {
	Status  string          `validate:"required,oneof=planned arrived triaged in-progress onleave finished cancelled entered-in-error unknown"`
	Class   *fhir.Coding    `validate:"required"`
	Subject *fhir.Reference `validate:"required"`
}

type diagnosticReportShape struct {
	Status  string                `validate:"required,oneof=registered partial preliminary final amended corrected appended cancelled entered-in-error unknown"`
	Code    *fhir.CodeableConcept `validate:"required"`
	Subject *fhir.Reference       `validate:"required"`
	Result  []fhir.Reference      `validate:"min=1"`
}

type compositionShape struct {
	Status  string                `validate:"required,oneof=preliminary final amended entered-in-error"`
	Type    *fhir.CodeableConcept `validate:"required"`
	Date    string                `validate:"required"`
	Title   string                `validate:"required"`
	Author  []fhir.Reference      `validate:"min=1"`
	Subject *fhir.Reference       `validate:"required"`
}

type goalShape struct {
	LifecycleStatus string                `validate:"required,oneof=proposed planned accepted active on-hold completed cancelled entered-in-error rejected"`
	Description     *fhir.CodeableConcept `validate:"required"`
	Subject         *fhir.Reference       `validate:"required"`
}

type serviceRequestShape struct {
	Status  string                `validate:"required,oneof=draft active on-hold revoked completed entered-in-error unknown"`
	Intent  string                `validate:"required,oneof=proposal plan directive order option"`
	Code    *fhir.CodeableConcept `validate:"required"`
	Subject *fhir.Reference       `validate:"required"`
}

type deviceShape struct {
	Status string                `validate:"omitempty,oneof=active inactive entered-in-error unknown"`
	Type   *fhir.CodeableConcept `validate:"required"`
}

type patientShape struct {
	Gender string `validate:"omitempty,oneof=male female other unknown"`
}

func shapeOf(r fhir.Resource) any {
	switch t := r.(type) {
	case *fhir.Condition:
		return &conditionShape{ClinicalStatus: t.ClinicalStatus, Code: t.Code, Subject: t.Subject}
	case *fhir.Observation:
		return &observationShape{Status: t.Status, Code: t.Code, Subject: t.Subject,
			Value: t.Value, DataAbsentReason: t.DataAbsentReason}
	case *fhir.MedicationStatement:
		return &medicationStatementShape{Status: t.Status, Medication: t.Medication, Subject: t.Subject}
	case *fhir.AllergyIntolerance:
		return &allergyShape{Patient: t.Patient, Code: t.Code, Type: t.Type,
			Category: t.Category, Criticality: t.Criticality}
	case *fhir.Immunization:
		return &immunizationShape{Status: t.Status, VaccineCode: t.VaccineCode,
			Patient: t.Patient, Occurrence: t.Occurrence}
	case *fhir.Procedure:
		return &procedureShape{Status: t.Status, Code: t.Code, Subject: t.Subject}
	case *fhir.Encounter:
		return &encounterShape{Status: t.Status, Class: t.Class, Subject: t.Subject}
	case *fhir.DiagnosticReport:
		return &diagnosticReportShape{Status: t.Status, Code: t.Code, Subject: t.Subject, Result: t.Result}
	case *fhir.Composition:
		return &compositionShape{Status: t.Status, Type: t.Type, Date: t.Date,
			Title: t.Title, Author: t.Author, Subject: t.Subject}
	case *fhir.Goal:
		return &goalShape{LifecycleStatus: t.LifecycleStatus, Description: t.Description, Subject: t.Subject}
	case *fhir.ServiceRequest:
		return &serviceRequestShape{Status: t.Status, Intent: t.Intent, Code: t.Code, Subject: t.Subject}
	case *fhir.Device:
		return &deviceShape{Status: t.Status, Type: t.Type}
	case *fhir.Patient:
		return &patientShape{Gender: t.Gender}
	default:
		return nil
	}
}

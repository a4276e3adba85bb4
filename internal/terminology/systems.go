// Package terminology resolves source vocabulary identifiers (HL7 OIDs,
// status codes) to their canonical target representations. Every lookup is
// pure and stateless; a miss is an expected outcome for the caller to handle,
// never an error.
package terminology

// Mapper resolves a source code-system OID to its canonical URI.
type Mapper interface {
	SystemURI(oid string) (string, bool)
}

// Canonical target code-system URIs referenced by the converters.
const (
	URILOINC  = "http://loinc.org"
	URISNOMED = "http://snomed.info/sct"
	URIUCUM   = "http://unitsofmeasure.org"

	URIConditionClinical    = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	URIConditionVerStatus   = "http://terminology.hl7.org/CodeSystem/condition-ver-status"
	URIConditionCategory    = "http://terminology.hl7.org/CodeSystem/condition-category"
	URIAllergyClinical      = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	URIAllergyVerStatus     = "http://terminology.hl7.org/CodeSystem/allergyintolerance-verification"
	URIObservationCategory  = "http://terminology.hl7.org/CodeSystem/observation-category"
	URIV3ActCode            = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
	URIV3NullFlavor         = "http://terminology.hl7.org/CodeSystem/v3-NullFlavor"
	URIV3ObsInterpretation  = "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation"
	URIDiagnosticServiceSec = "http://terminology.hl7.org/CodeSystem/v2-0074"
	URIDataAbsent           = "http://terminology.hl7.org/CodeSystem/data-absent-reason"
)

// Source code-system OIDs that appear in C-CDA documents.
const (
	OIDLOINC         = "2.16.840.1.113883.6.1"
	OIDSNOMED        = "2.16.840.1.113883.6.96"
	OIDRxNorm        = "2.16.840.1.113883.6.88"
	OIDICD10CM       = "2.16.840.1.113883.6.90"
	OIDICD9CM        = "2.16.840.1.113883.6.103"
	OIDCPT           = "2.16.840.1.113883.6.12"
	OIDNDC           = "2.16.840.1.113883.6.69"
	OIDCVX           = "2.16.840.1.113883.12.292"
	OIDUNII          = "2.16.840.1.113883.4.9"
	OIDAdminGender   = "2.16.840.1.113883.5.1"
	OIDActCode       = "2.16.840.1.113883.5.4"
	OIDActReason     = "2.16.840.1.113883.5.8"
	OIDMaritalStatus = "2.16.840.1.113883.5.2"
	OIDObsInterpret  = "2.16.840.1.113883.5.83"
	OIDRouteOfAdmin  = "2.16.840.1.113883.5.112"
	OIDNullFlavor    = "2.16.840.1.113883.5.1008"
)

// Table is an immutable OID→URI lookup table implementing Mapper.
type Table struct {
	systems map[string]string
}

// SystemURI returns the canonical URI for an OID.
func (t *Table) SystemURI(oid string) (string, bool) {
	uri, ok := t.systems[oid]
	return uri, ok
}

// Default returns the built-in code-system table covering the vocabularies
// commonly carried by C-CDA documents.
func Default() *Table {
	return &Table{systems: map[string]string{
		OIDLOINC:         URILOINC,
		OIDSNOMED:        URISNOMED,
		OIDRxNorm:        "http://www.nlm.nih.gov/research/umls/rxnorm",
		OIDICD10CM:       "http://hl7.org/fhir/sid/icd-10-cm",
		OIDICD9CM:        "http://hl7.org/fhir/sid/icd-9-cm",
		OIDCPT:           "http://www.ama-assn.org/go/cpt",
		OIDNDC:           "http://hl7.org/fhir/sid/ndc",
		OIDCVX:           "http://hl7.org/fhir/sid/cvx",
		OIDUNII:          "http://fdasis.nlm.nih.gov",
		OIDAdminGender:   "http://terminology.hl7.org/CodeSystem/v3-AdministrativeGender",
		OIDActCode:       URIV3ActCode,
		OIDActReason:     "http://terminology.hl7.org/CodeSystem/v3-ActReason",
		OIDMaritalStatus: "http://terminology.hl7.org/CodeSystem/v3-MaritalStatus",
		OIDObsInterpret:  URIV3ObsInterpretation,
		OIDRouteOfAdmin:  "http://terminology.hl7.org/CodeSystem/v3-RouteOfAdministration",
		OIDNullFlavor:    URIV3NullFlavor,
	}}
}

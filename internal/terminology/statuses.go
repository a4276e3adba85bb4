package terminology

// Condition clinicalStatus codes.
const (
	ConditionActive   = "active"
	ConditionInactive = "inactive"
	ConditionResolved = "resolved"
)

// AllergyIntolerance clinicalStatus codes.
const (
	AllergyActive   = "active"
	AllergyInactive = "inactive"
)

// Observation status codes.
const (
	ObservationPreliminary = "preliminary"
	ObservationFinal       = "final"
	ObservationCancelled   = "cancelled"
)

// Observation category codes.
const (
	CategoryVitalSigns    = "vital-signs"
	CategoryLaboratory    = "laboratory"
	CategorySocialHistory = "social-history"
	CategorySurvey        = "survey"
)

// MedicationStatement status codes.
const (
	MedicationActive   = "active"
	MedicationComplete = "completed"
	MedicationStopped  = "stopped"
	MedicationOnHold   = "on-hold"
	MedicationNotTaken = "not-taken"
	MedicationUnknown  = "unknown"
)

// Procedure status codes.
const (
	ProcedureCompleted  = "completed"
	ProcedureInProgress = "in-progress"
	ProcedureStopped    = "stopped"
	ProcedureNotDone    = "not-done"
	ProcedureOnHold     = "on-hold"
)

// Encounter status codes.
const (
	EncounterFinished   = "finished"
	EncounterInProgress = "in-progress"
	EncounterCancelled  = "cancelled"
)

// Immunization status codes.
const (
	ImmunizationCompleted = "completed"
	ImmunizationNotDone   = "not-done"
)

// StatusDomain selects which target value set a source act status maps into.
type StatusDomain string

const (
	DomainConditionClinical StatusDomain = "condition-clinical"
	DomainAllergyClinical   StatusDomain = "allergy-clinical"
	DomainObservation       StatusDomain = "observation-status"
	DomainMedication        StatusDomain = "medication-status"
	DomainProcedure         StatusDomain = "procedure-status"
	DomainEncounter         StatusDomain = "encounter-status"
	DomainImmunization      StatusDomain = "immunization-status"
	DomainServiceRequest    StatusDomain = "service-request-status"
	DomainGoal              StatusDomain = "goal-status"
)

// StatusCode maps a source act status into the value set for domain. A false
// result means the source code has no defined mapping; callers apply their
// own documented fallback or reject the value.
func StatusCode(domain StatusDomain, code string) (string, bool) {
	switch domain {
	case DomainConditionClinical:
		return ConditionClinicalStatus(code)
	case DomainAllergyClinical:
		return AllergyClinicalStatus(code)
	case DomainObservation:
		return ObservationStatus(code)
	case DomainMedication:
		return MedicationStatus(code)
	case DomainProcedure:
		return ProcedureStatus(code)
	case DomainEncounter:
		return EncounterStatus(code)
	case DomainImmunization:
		return ImmunizationStatus(code)
	case DomainServiceRequest:
		return ServiceRequestStatus(code)
	case DomainGoal:
		return GoalStatus(code)
	default:
		return "", false
	}
}

// ConditionClinicalStatus maps a concern statusCode to a Condition
// clinicalStatus code.
func ConditionClinicalStatus(code string) (string, bool) {
	switch code {
	case "active":
		return ConditionActive, true
	case "suspended", "aborted":
		return ConditionInactive, true
	case "completed":
		return ConditionResolved, true
	default:
		return "", false
	}
}

// AllergyClinicalStatus maps a concern statusCode to an AllergyIntolerance
// clinicalStatus code.
func AllergyClinicalStatus(code string) (string, bool) {
	switch code {
	case "active":
		return AllergyActive, true
	case "suspended", "aborted", "completed":
		return AllergyInactive, true
	default:
		return "", false
	}
}

// ObservationStatus maps an observation statusCode to an Observation status.
func ObservationStatus(code string) (string, bool) {
	switch code {
	case "completed":
		return ObservationFinal, true
	case "active":
		return ObservationPreliminary, true
	case "aborted", "cancelled":
		return ObservationCancelled, true
	default:
		return "", false
	}
}

// ProcedureStatus maps a procedure statusCode to a Procedure status.
func ProcedureStatus(code string) (string, bool) {
	switch code {
	case "completed":
		return ProcedureCompleted, true
	case "active":
		return ProcedureInProgress, true
	case "aborted":
		return ProcedureStopped, true
	case "cancelled":
		return ProcedureNotDone, true
	case "suspended":
		return ProcedureOnHold, true
	default:
		return "", false
	}
}

// EncounterStatus maps an encounter statusCode to an Encounter status.
func EncounterStatus(code string) (string, bool) {
	switch code {
	case "completed":
		return EncounterFinished, true
	case "active":
		return EncounterInProgress, true
	case "cancelled", "aborted":
		return EncounterCancelled, true
	default:
		return "", false
	}
}

// MedicationStatus maps a substance administration statusCode to a
// MedicationStatement status.
func MedicationStatus(code string) (string, bool) {
	switch code {
	case "active":
		return MedicationActive, true
	case "completed":
		return MedicationComplete, true
	case "aborted":
		return MedicationStopped, true
	case "suspended":
		return MedicationOnHold, true
	default:
		return "", false
	}
}

// ImmunizationStatus maps an immunization activity statusCode to an
// Immunization status.
func ImmunizationStatus(code string) (string, bool) {
	switch code {
	case "completed":
		return ImmunizationCompleted, true
	default:
		return "", false
	}
}

// ServiceRequestStatus maps a planned activity statusCode to a
// ServiceRequest status.
func ServiceRequestStatus(code string) (string, bool) {
	switch code {
	case "active":
		return "active", true
	case "new":
		return "draft", true
	case "completed":
		return "completed", true
	case "cancelled", "aborted":
		return "revoked", true
	case "suspended":
		return "on-hold", true
	default:
		return "", false
	}
}

// GoalStatus maps a goal observation statusCode to a Goal lifecycleStatus.
func GoalStatus(code string) (string, bool) {
	switch code {
	case "active":
		return "active", true
	case "new":
		return "proposed", true
	case "completed":
		return "completed", true
	case "cancelled":
		return "cancelled", true
	case "suspended":
		return "on-hold", true
	default:
		return "", false
	}
}

// AdministrativeGender maps an HL7 v3 gender code to the target
// administrative gender.
func AdministrativeGender(code string) (string, bool) {
	switch code {
	case "M":
		return "male", true
	case "F":
		return "female", true
	case "UN":
		return "other", true
	case "UNK":
		return "unknown", true
	default:
		return "", false
	}
}

// Criticality maps a SNOMED severity code to an AllergyIntolerance
// criticality.
func Criticality(severityCode string) (string, bool) {
	switch severityCode {
	case "255604002", "371923003", "6736007": // mild, mild-moderate, moderate
		return "low", true
	case "371924009", "24484000", "399166001": // moderate-severe, severe, fatal
		return "high", true
	default:
		return "", false
	}
}

// ReactionSeverity maps a SNOMED severity code to a reaction severity.
func ReactionSeverity(severityCode string) (string, bool) {
	switch severityCode {
	case "255604002", "371923003":
		return "mild", true
	case "6736007":
		return "moderate", true
	case "371924009", "24484000", "399166001":
		return "severe", true
	default:
		return "", false
	}
}

// AllergyCategory maps a SNOMED allergy/intolerance type code to an
// AllergyIntolerance category. Codes describing a general propensity carry
// no category.
func AllergyCategory(typeCode string) (string, bool) {
	switch typeCode {
	case "414285001", "235719002", "418471000": // food allergy/intolerance
		return "food", true
	case "416098002", "59037007", "419511003": // drug allergy/intolerance
		return "medication", true
	case "232347008", "426232007": // environmental
		return "environment", true
	default:
		return "", false
	}
}

// AllergyType maps a SNOMED allergy/intolerance kind code to the target
// type field. Propensity codes name neither an allergy nor an intolerance,
// so they carry no type.
func AllergyType(typeCode string) (string, bool) {
	switch typeCode {
	case "419199007", "416098002", "414285001", "232347008", "426232007":
		return "allergy", true
	case "59037007", "235719002":
		return "intolerance", true
	default:
		return "", false
	}
}

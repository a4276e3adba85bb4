package cda

// Template identifiers and section codes for C-CDA R2.1 documents.
const (
	Namespace = "urn:hl7-org:v3"

	// Document-level template IDs
	TemplateUSRealmHeader = "2.16.840.1.113883.10.20.22.1.1"
	TemplateCCDDocument   = "2.16.840.1.113883.10.20.22.1.2"

	// Section-level template IDs (entries-required variants end in .1)
	TemplateAllergiesSection         = "2.16.840.1.113883.10.20.22.2.6.1"
	TemplateAllergiesSectionBase     = "2.16.840.1.113883.10.20.22.2.6"
	TemplateMedicationsSection       = "2.16.840.1.113883.10.20.22.2.1.1"
	TemplateMedicationsSectionBase   = "2.16.840.1.113883.10.20.22.2.1"
	TemplateProblemsSection          = "2.16.840.1.113883.10.20.22.2.5.1"
	TemplateProblemsSectionBase      = "2.16.840.1.113883.10.20.22.2.5"
	TemplateProceduresSection        = "2.16.840.1.113883.10.20.22.2.7.1"
	TemplateProceduresSectionBase    = "2.16.840.1.113883.10.20.22.2.7"
	TemplateResultsSection           = "2.16.840.1.113883.10.20.22.2.3.1"
	TemplateResultsSectionBase       = "2.16.840.1.113883.10.20.22.2.3"
	TemplateVitalSignsSection        = "2.16.840.1.113883.10.20.22.2.4.1"
	TemplateVitalSignsSectionBase    = "2.16.840.1.113883.10.20.22.2.4"
	TemplateImmunizationsSection     = "2.16.840.1.113883.10.20.22.2.2.1"
	TemplateImmunizationsSectionBase = "2.16.840.1.113883.10.20.22.2.2"
	TemplateSocialHistorySection     = "2.16.840.1.113883.10.20.22.2.17"
	TemplatePlanOfTreatmentSection   = "2.16.840.1.113883.10.20.22.2.10"
	TemplateEncountersSection        = "2.16.840.1.113883.10.20.22.2.22.1"
	TemplateEncountersSectionBase    = "2.16.840.1.113883.10.20.22.2.22"
	TemplateGoalsSection             = "2.16.840.1.113883.10.20.22.2.60"
	TemplateMedicalEquipmentSection  = "2.16.840.1.113883.10.20.22.2.23"
	TemplateFunctionalStatusSection  = "2.16.840.1.113883.10.20.22.2.14"

	// Entry-level template IDs
	TemplateProblemConcernAct     = "2.16.840.1.113883.10.20.22.4.3"
	TemplateProblemObservation    = "2.16.840.1.113883.10.20.22.4.4"
	TemplateAllergyConcernAct     = "2.16.840.1.113883.10.20.22.4.30"
	TemplateAllergyObservation    = "2.16.840.1.113883.10.20.22.4.7"
	TemplateReactionObservation   = "2.16.840.1.113883.10.20.22.4.9"
	TemplateSeverityObservation   = "2.16.840.1.113883.10.20.22.4.8"
	TemplateMedicationActivity    = "2.16.840.1.113883.10.20.22.4.16"
	TemplateImmunizationActivity  = "2.16.840.1.113883.10.20.22.4.52"
	TemplateImmunizationRefusal   = "2.16.840.1.113883.10.20.22.4.53"
	TemplateProcedureActivityProc = "2.16.840.1.113883.10.20.22.4.14"
	TemplateProcedureActivityAct  = "2.16.840.1.113883.10.20.22.4.12"
	TemplateProcedureActivityObs  = "2.16.840.1.113883.10.20.22.4.13"
	TemplateResultOrganizer       = "2.16.840.1.113883.10.20.22.4.1"
	TemplateResultObservation     = "2.16.840.1.113883.10.20.22.4.2"
	TemplateVitalSignsOrganizer   = "2.16.840.1.113883.10.20.22.4.26"
	TemplateVitalSignObservation  = "2.16.840.1.113883.10.20.22.4.27"
	TemplateSmokingStatus         = "2.16.840.1.113883.10.20.22.4.78"
	TemplateSocialHistoryObs      = "2.16.840.1.113883.10.20.22.4.38"
	TemplateEncounterActivity     = "2.16.840.1.113883.10.20.22.4.49"
	TemplateEncounterDiagnosis    = "2.16.840.1.113883.10.20.22.4.80"
	TemplatePlanOfCareActivityAct = "2.16.840.1.113883.10.20.22.4.39"
	TemplatePlannedProcedure      = "2.16.840.1.113883.10.20.22.4.41"
	TemplateGoalObservation       = "2.16.840.1.113883.10.20.22.4.121"
	TemplateNonMedSupplyActivity  = "2.16.840.1.113883.10.20.22.4.50"
	TemplateFunctionalStatusObs   = "2.16.840.1.113883.10.20.22.4.67"
	TemplateAgeObservation        = "2.16.840.1.113883.10.20.22.4.31"

	// LOINC codes identifying sections
	LOINCAllergiesSection        = "48765-2"
	LOINCMedicationsSection      = "10160-0"
	LOINCProblemsSection         = "11450-4"
	LOINCProceduresSection       = "47519-4"
	LOINCResultsSection          = "30954-2"
	LOINCVitalSignsSection       = "8716-3"
	LOINCImmunizationsSection    = "11369-6"
	LOINCSocialHistorySection    = "29762-2"
	LOINCPlanOfTreatmentSection  = "18776-5"
	LOINCEncountersSection       = "46240-8"
	LOINCGoalsSection            = "61146-7"
	LOINCMedicalEquipmentSection = "46264-8"
	LOINCFunctionalStatusSection = "47420-5"
	LOINCSmokingStatus           = "72166-2"
)

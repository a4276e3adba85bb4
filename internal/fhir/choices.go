package fhir

// Choice-typed fields ("onset[x]", "value[x]", ...) are sealed unions: each
// resource declares an interface with an unexported marker method, and only
// the variant structs below implement it. A resource holds exactly one
// variant (or nil for absent), so populating two branches of a choice is not
// expressible. The resource's MarshalJSON explodes the active variant into
// the matching wire key.

// ConditionOnset is Condition.onset[x].
type ConditionOnset interface{ isConditionOnset() }

// ConditionAbatement is Condition.abatement[x].
type ConditionAbatement interface{ isConditionAbatement() }

// AllergyOnset is AllergyIntolerance.onset[x].
type AllergyOnset interface{ isAllergyOnset() }

// ObservationEffective is Observation.effective[x].
type ObservationEffective interface{ isObservationEffective() }

// ObservationValue is Observation.value[x].
type ObservationValue interface{ isObservationValue() }

// ReportEffective is DiagnosticReport.effective[x].
type ReportEffective interface{ isReportEffective() }

// MedicationEffective is MedicationStatement.effective[x].
type MedicationEffective interface{ isMedicationEffective() }

// MedicationForm is MedicationStatement.medication[x].
type MedicationForm interface{ isMedicationForm() }

// ProcedurePerformed is Procedure.performed[x].
type ProcedurePerformed interface{ isProcedurePerformed() }

// ImmunizationOccurrence is Immunization.occurrence[x].
type ImmunizationOccurrence interface{ isImmunizationOccurrence() }

// RequestOccurrence is ServiceRequest.occurrence[x].
type RequestOccurrence interface{ isRequestOccurrence() }

// GoalStart is Goal.start[x].
type GoalStart interface{ isGoalStart() }

// OnsetDateTime is a point-in-time onset.
type OnsetDateTime struct{ Value string }

// OnsetPeriod is an interval onset.
type OnsetPeriod struct{ Value Period }

// OnsetText is a free-text onset.
type OnsetText struct{ Value string }

func (OnsetDateTime) isConditionOnset() {}
func (OnsetPeriod) isConditionOnset() {}
func (OnsetText) isConditionOnset() {}

func (OnsetDateTime) isAllergyOnset() {}
func (OnsetPeriod) isAllergyOnset() {}

// AbatementDateTime is a point-in-time abatement.
type AbatementDateTime struct{ Value string }

func (AbatementDateTime) isConditionAbatement() {}

// EffectiveDateTime is a point-in-time effective time.
type EffectiveDateTime struct{ Value string }

// EffectivePeriod is an interval effective time.
type EffectivePeriod struct{ Value Period }

func (EffectiveDateTime) isObservationEffective() {}
func (EffectivePeriod) isObservationEffective() {}

func (EffectiveDateTime) isReportEffective() {}
func (EffectivePeriod) isReportEffective() {}

func (EffectiveDateTime) isMedicationEffective() {}
func (EffectivePeriod) isMedicationEffective() {}

// ValueQuantity is a measured observation value.
type ValueQuantity struct{ Value Quantity }

// ValueCodeableConcept is a coded observation value.
type ValueCodeableConcept struct{ Value CodeableConcept }

// ValueString is a free-text observation value.
type ValueString struct{ Value string }

func (ValueQuantity) isObservationValue() {}
func (ValueCodeableConcept) isObservationValue() {}
func (ValueString) isObservationValue() {}

// MedicationConcept carries the medication as an inline coded concept.
type MedicationConcept struct{ Value CodeableConcept }

// MedicationReference points at a Medication resource.
type MedicationReference struct{ Value Reference }

func (MedicationConcept) isMedicationForm() {}
func (MedicationReference) isMedicationForm() {}

// PerformedDateTime is a point-in-time performance.
type PerformedDateTime struct{ Value string }

// PerformedPeriod is an interval performance.
type PerformedPeriod struct{ Value Period }

func (PerformedDateTime) isProcedurePerformed() {}
func (PerformedPeriod) isProcedurePerformed() {}

// OccurrenceDateTime is a point-in-time occurrence.
type OccurrenceDateTime struct{ Value string }

// OccurrencePeriod is an interval occurrence.
type OccurrencePeriod struct{ Value Period }

// OccurrenceString is a free-text occurrence.
type OccurrenceString struct{ Value string }

func (OccurrenceDateTime) isImmunizationOccurrence() {}
func (OccurrenceString) isImmunizationOccurrence() {}

func (OccurrenceDateTime) isRequestOccurrence() {}
func (OccurrencePeriod) isRequestOccurrence() {}

// StartDate is a calendar-date goal start.
type StartDate struct{ Value string }

// StartConcept is a coded goal start.
type StartConcept struct{ Value CodeableConcept }

func (StartDate) isGoalStart() {}
func (StartConcept) isGoalStart() {}

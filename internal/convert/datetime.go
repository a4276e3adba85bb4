package convert

import (
	"fmt"
	"strings"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
)

// FHIRDateTime renders an HL7 timestamp as a target dateTime, keeping the
// source precision (year, month, day, minute, or second). Timestamps that
// carry time-of-day but no offset are taken as UTC.
func FHIRDateTime(ts string) (string, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return "", false
	}
	if _, err := cda.ParseTime(ts); err != nil {
		return "", false
	}

	body, zone := cda.SplitTimeZone(ts)
	if i := strings.IndexByte(body, '.'); i >= 0 {
		body = body[:i]
	}
	if len(body) > 14 {
		body = body[:14]
	}

	switch len(body) {
	case 14:
		return fmt.Sprintf("%s-%s-%sT%s:%s:%s%s",
			body[0:4], body[4:6], body[6:8], body[8:10], body[10:12], body[12:14], fhirOffset(zone)), true
	case 12:
		return fmt.Sprintf("%s-%s-%sT%s:%s:00%s",
			body[0:4], body[4:6], body[6:8], body[8:10], body[10:12], fhirOffset(zone)), true
	case 8:
		return body[0:4] + "-" + body[4:6] + "-" + body[6:8], true
	case 6:
		return body[0:4] + "-" + body[4:6], true
	case 4:
		return body, true
	}
	return "", false
}

// FHIRDate renders an HL7 timestamp as a target date, truncating any
// time-of-day.
func FHIRDate(ts string) (string, bool) {
	dt, ok := FHIRDateTime(ts)
	if !ok {
		return "", false
	}
	if len(dt) > 10 {
		dt = dt[:10]
	}
	return dt, true
}

// fhirOffset converts a ±zzzz suffix to ±zz:zz; an absent offset reads as
// UTC.
func fhirOffset(zone string) string {
	if len(zone) == 5 {
		return zone[:3] + ":" + zone[3:]
	}
	return "Z"
}

// TimeChoice is a resolved source effective time: a point value, or an
// interval when no usable point exists. The literal point wins when both
// appear, so downstream choice fields always get exactly one variant.
type TimeChoice struct {
	Point    string
	Interval *fhir.Period
}

// ResolveTime reduces an effective time element to a TimeChoice. An interval
// needs at least one usable bound. Returns false when nothing usable
// remains, including for nil input.
func ResolveTime(t *cda.Time) (TimeChoice, bool) {
	if t == nil {
		return TimeChoice{}, false
	}
	if dt, ok := FHIRDateTime(t.Value); ok {
		return TimeChoice{Point: dt}, true
	}
	var p fhir.Period
	if dt, ok := FHIRDateTime(t.LowValue()); ok {
		p.Start = dt
	}
	if dt, ok := FHIRDateTime(t.HighValue()); ok {
		p.End = dt
	}
	if p.Start == "" && p.End == "" {
		return TimeChoice{}, false
	}
	return TimeChoice{Interval: &p}, true
}

// ObservationEffective returns the matching Observation choice variant.
func (t TimeChoice) ObservationEffective() fhir.ObservationEffective {
	if t.Point != "" {
		return fhir.EffectiveDateTime{Value: t.Point}
	}
	if t.Interval != nil {
		return fhir.EffectivePeriod{Value: *t.Interval}
	}
	return nil
}

// ReportEffective returns the matching DiagnosticReport choice variant.
func (t TimeChoice) ReportEffective() fhir.ReportEffective {
	if t.Point != "" {
		return fhir.EffectiveDateTime{Value: t.Point}
	}
	if t.Interval != nil {
		return fhir.EffectivePeriod{Value: *t.Interval}
	}
	return nil
}

// MedicationEffective returns the matching MedicationStatement choice
// variant.
func (t TimeChoice) MedicationEffective() fhir.MedicationEffective {
	if t.Point != "" {
		return fhir.EffectiveDateTime{Value: t.Point}
	}
	if t.Interval != nil {
		return fhir.EffectivePeriod{Value: *t.Interval}
	}
	return nil
}

// ProcedurePerformed returns the matching Procedure choice variant.
func (t TimeChoice) ProcedurePerformed() fhir.ProcedurePerformed {
	if t.Point != "" {
		return fhir.PerformedDateTime{Value: t.Point}
	}
	if t.Interval != nil {
		return fhir.PerformedPeriod{Value: *t.Interval}
	}
	return nil
}

// RequestOccurrence returns the matching ServiceRequest choice variant.
func (t TimeChoice) RequestOccurrence() fhir.RequestOccurrence {
	if t.Point != "" {
		return fhir.OccurrenceDateTime{Value: t.Point}
	}
	if t.Interval != nil {
		return fhir.OccurrencePeriod{Value: *t.Interval}
	}
	return nil
}

// PeriodValue renders the choice as a plain period for targets without a
// point variant, widening a point to a period starting at it.
func (t TimeChoice) PeriodValue() *fhir.Period {
	if t.Interval != nil {
		p := *t.Interval
		return &p
	}
	if t.Point != "" {
		return &fhir.Period{Start: t.Point}
	}
	return nil
}

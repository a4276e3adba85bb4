package convert

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/fhir"
	"github.com/ehr/cdafhir/internal/terminology"
)

// QuantityOf converts a physical quantity value into a target Quantity. The
// decimal is parsed and re-rendered so equivalent source spellings ("1.5e0",
// "+1.5") come out identically run after run. Returns nil when the value is
// absent or not a number.
func QuantityOf(v *cda.Value) *fhir.Quantity {
	if v == nil || v.Value == "" {
		return nil
	}
	return quantityParts(v.Value, v.Unit)
}

// QuantityBound converts one endpoint of a quantity interval, as found in
// reference ranges.
func QuantityBound(b *cda.Bound) *fhir.Quantity {
	if b == nil || b.Value == "" {
		return nil
	}
	return quantityParts(b.Value, b.Unit)
}

func quantityParts(value, unit string) *fhir.Quantity {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}
	q := &fhir.Quantity{Value: json.Number(d.String()), Unit: unit}
	if unit != "" && unit != "1" {
		q.System = terminology.URIUCUM
		q.Code = unit
	}
	return q
}

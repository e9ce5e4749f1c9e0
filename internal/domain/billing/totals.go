package billing

import "billingapp/internal/domain/entities"

// Totals aggregates the money columns of an estimate or invoice.
//
// Invariants:
//   - TaxAmount == Subtotal * TaxRate / 100
//   - Total == Subtotal + TaxAmount
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// CalculateTotals sums line-item totals and applies a flat percentage tax to
// the whole subtotal. The stored item Total is trusted, not recomputed from
// quantity and rate; the line-item session keeps it consistent on mutation.
//
// taxRate is expected in [0,100] but is not clamped; out-of-range values
// propagate arithmetically. No rounding happens here, and non-numeric inputs
// (NaN) propagate silently; presentation layers round for display only.
func CalculateTotals(items []entities.LineItem, taxRate float64) Totals {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Total
	}
	taxAmount := subtotal * (taxRate / 100)
	return Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

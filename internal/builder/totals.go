package builder

import "math"

// Totals are derived from the selection on every read. Amounts stay
// unrounded during accumulation; Round2 applies only at payload or display
// time.
type Totals struct {
	TotalItems int     `json:"total_items"`
	Subtotal   float64 `json:"sub_total"`
	TaxAmount  float64 `json:"tax_amount"`
	GrandTotal float64 `json:"total_amount"`
}

// ComputeTotals is a pure recomputation from the line list. An empty list
// yields all-zero totals regardless of the VAT rate.
func ComputeTotals(lines []Line, vatPercent float64) Totals {
	var t Totals
	for _, line := range lines {
		t.TotalItems += line.Quantity
		t.Subtotal += line.UnitPrice * float64(line.Quantity)
	}
	t.TaxAmount = t.Subtotal * vatPercent / 100
	t.GrandTotal = t.Subtotal + t.TaxAmount
	return t
}

// Round2 rounds to currency precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package builder

import "time"

// PayloadLine is one order line as sent to the backend.
type PayloadLine struct {
	ProductID  string  `json:"product_id"`
	SupplierID string  `json:"supplier_id,omitempty"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// Payload is the canonical submission body. total_amount is always the
// grand total (subtotal plus VAT); sub_total is sent separately.
type Payload struct {
	Kind           string        `json:"-"`
	CounterpartyID string        `json:"counterparty_id"`
	OrderDate      string        `json:"order_date"`
	OrderStatus    string        `json:"order_status"`
	VATPercent     float64       `json:"vat"`
	Products       []PayloadLine `json:"products"`
	SubTotal       float64       `json:"sub_total"`
	TotalItems     int           `json:"total_items"`
	TotalAmount    float64       `json:"total_amount"`
	Notes          string        `json:"notes,omitempty"`
}

// BuildPayload assembles the submission body from the draft. It refuses to
// build when no counterparty is chosen or the selection is empty, mirroring
// the pre-submission checks.
func BuildPayload(d *Draft) (*Payload, error) {
	if d.CounterpartyID == "" {
		return nil, validationf("no counterparty selected")
	}
	lines := d.Lines()
	if len(lines) == 0 {
		return nil, validationf("at least one line is required")
	}

	products := make([]PayloadLine, 0, len(lines))
	for _, line := range lines {
		products = append(products, PayloadLine{
			ProductID:  line.ProductID,
			SupplierID: line.SupplierID,
			Quantity:   line.Quantity,
			Price:      Round2(line.UnitPrice),
		})
	}

	totals := ComputeTotals(lines, d.VATPercent)
	return &Payload{
		Kind:           d.Kind,
		CounterpartyID: d.CounterpartyID,
		OrderDate:      d.OrderDate.UTC().Format(time.RFC3339),
		OrderStatus:    d.Status,
		VATPercent:     d.VATPercent,
		Products:       products,
		SubTotal:       Round2(totals.Subtotal),
		TotalItems:     totals.TotalItems,
		TotalAmount:    Round2(totals.GrandTotal),
		Notes:          d.Notes,
	}, nil
}

package builder

import (
	"strconv"
	"time"

	"inventory-console/internal/models"

	"github.com/google/uuid"
)

// State is the draft lifecycle position.
type State string

const (
	StateEmpty           State = "empty"
	StatePartiallyFilled State = "partially_filled"
	StateReady           State = "ready"
	StateSubmitting      State = "submitting"
	StateSubmitted       State = "submitted"
)

// Pool names for Transfer.
const (
	PoolAvailable = "available"
	PoolSelected  = "selected"
)

// Line is one row of the order being built. UnitPrice is captured from the
// catalog at add time and does not track later price changes.
type Line struct {
	Key        string  `json:"key"`
	ProductID  string  `json:"product_id"`
	SupplierID string  `json:"supplier_id,omitempty"`
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"price"`
}

// Draft is the full in-memory state of one order being built. All mutations
// validate first and only then touch state, so a failed call leaves the
// draft exactly as it was.
type Draft struct {
	ID             string
	Kind           string
	CounterpartyID string
	OrderDate      time.Time
	Status         string
	VATPercent     float64
	Notes          string

	// ScopedCatalog marks drafts whose product catalog is filtered by the
	// chosen counterparty and must be reloaded when it changes.
	ScopedCatalog bool

	catalog    *Catalog
	lines      []Line
	available  map[string]bool
	submitting bool
	submitted  bool
}

// NewDraft opens a draft of the given kind over a catalog snapshot. Header
// fields start at their defaults: today's date, pending status, the
// configured VAT rate.
func NewDraft(kind string, catalog *Catalog, vatPercent float64) *Draft {
	available := make(map[string]bool, len(catalog.products))
	for _, p := range catalog.products {
		available[p.ID] = true
	}
	return &Draft{
		ID:         uuid.New().String(),
		Kind:       kind,
		OrderDate:  time.Now(),
		Status:     models.OrderStatusPending,
		VATPercent: vatPercent,
		catalog:    catalog,
		available:  available,
	}
}

// State derives the lifecycle position from current contents.
func (d *Draft) State() State {
	switch {
	case d.submitted:
		return StateSubmitted
	case d.submitting:
		return StateSubmitting
	case d.CounterpartyID != "" && len(d.lines) > 0:
		return StateReady
	case d.CounterpartyID != "" || len(d.lines) > 0:
		return StatePartiallyFilled
	default:
		return StateEmpty
	}
}

// Catalog returns the snapshot this draft selects from.
func (d *Draft) Catalog() *Catalog {
	return d.catalog
}

// ReplaceCatalog swaps in a fresh snapshot, used when the catalog is
// counterparty-scoped and the chosen counterparty changes. Products already
// selected keep their captured prices; the available pool is rebuilt from
// the new snapshot minus selected products.
func (d *Draft) ReplaceCatalog(catalog *Catalog) {
	d.catalog = catalog
	d.available = make(map[string]bool, len(catalog.products))
	for _, p := range catalog.products {
		if !d.hasProduct(p.ID) {
			d.available[p.ID] = true
		}
	}
}

// SetCounterparty validates and records the draft's counterparty.
func (d *Draft) SetCounterparty(id string) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if id == "" {
		return validationf("no counterparty chosen")
	}
	if !d.catalog.HasCounterparty(id) {
		return notFound("counterparty", id)
	}
	d.CounterpartyID = id
	return nil
}

// SetHeader updates optional header fields. Zero values leave a field as is.
func (d *Draft) SetHeader(orderDate *time.Time, status string, vatPercent *float64, notes *string) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if status != "" && !ValidStatus(d.Kind, status) {
		return validationf("invalid %s order status: %s", d.Kind, status)
	}
	if vatPercent != nil && *vatPercent < 0 {
		return validationf("vat percent must not be negative")
	}
	if orderDate != nil {
		d.OrderDate = *orderDate
	}
	if status != "" {
		d.Status = status
	}
	if vatPercent != nil {
		d.VATPercent = *vatPercent
	}
	if notes != nil {
		d.Notes = *notes
	}
	return nil
}

// AddLine appends a selection line, or merges quantity into the existing
// line with the same (product, counterparty) pair.
func (d *Draft) AddLine(productID, counterpartyID string, quantity int) (Line, error) {
	if err := d.ensureMutable(); err != nil {
		return Line{}, err
	}
	if quantity < 1 {
		return Line{}, validationf("quantity must be a positive integer")
	}
	if productID == "" {
		return Line{}, validationf("no product chosen")
	}
	product, ok := d.catalog.Product(productID)
	if !ok {
		return Line{}, notFound("product", productID)
	}
	if d.Kind == models.OrderKindPurchase {
		if counterpartyID == "" {
			return Line{}, validationf("no supplier chosen")
		}
		if !d.catalog.HasCounterparty(counterpartyID) {
			return Line{}, notFound("supplier", counterpartyID)
		}
	} else {
		// Sales lines never carry a per-line counterparty.
		counterpartyID = ""
	}

	for i := range d.lines {
		if d.lines[i].ProductID == productID && d.lines[i].SupplierID == counterpartyID {
			d.lines[i].Quantity += quantity
			return d.lines[i], nil
		}
	}

	line := Line{
		Key:        uuid.New().String(),
		ProductID:  productID,
		SupplierID: counterpartyID,
		Name:       product.Name,
		SKU:        product.SKU,
		Quantity:   quantity,
		UnitPrice:  product.Price,
	}
	d.lines = append(d.lines, line)
	delete(d.available, productID)
	return line, nil
}

// RemoveLine removes exactly one line by key and returns its product to the
// available pool when no other line references it.
func (d *Draft) RemoveLine(key string) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	for i := range d.lines {
		if d.lines[i].Key == key {
			productID := d.lines[i].ProductID
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			d.restoreToPool(productID)
			return nil
		}
	}
	return notFound("line", key)
}

// SetQuantity replaces a line's quantity. Deleting a line is RemoveLine's
// job, so zero is rejected here.
func (d *Draft) SetQuantity(key string, quantity int) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if quantity < 1 {
		return validationf("quantity must be a positive integer")
	}
	for i := range d.lines {
		if d.lines[i].Key == key {
			d.lines[i].Quantity = quantity
			return nil
		}
	}
	return notFound("line", key)
}

// Transfer models the drag-and-drop move between pools. The entry leaves the
// source pool and enters the destination pool in the same call.
func (d *Draft) Transfer(from, to, productID string) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	switch {
	case from == PoolAvailable && to == PoolSelected:
		if !d.available[productID] {
			return notFound("available product", productID)
		}
		counterpartyID := ""
		if d.Kind == models.OrderKindPurchase {
			if d.CounterpartyID == "" {
				return validationf("choose a supplier before transferring products")
			}
			counterpartyID = d.CounterpartyID
		}
		_, err := d.AddLine(productID, counterpartyID, 1)
		return err

	case from == PoolSelected && to == PoolAvailable:
		for i := range d.lines {
			if d.lines[i].ProductID == productID {
				return d.RemoveLine(d.lines[i].Key)
			}
		}
		return notFound("selected product", productID)

	default:
		return validationf("invalid transfer: %s -> %s", from, to)
	}
}

// Reorder moves a line to a new position. Totals are unaffected.
func (d *Draft) Reorder(fromIndex, toIndex int) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if fromIndex < 0 || fromIndex >= len(d.lines) {
		return notFound("line index", strconv.Itoa(fromIndex))
	}
	if toIndex < 0 || toIndex >= len(d.lines) {
		return validationf("target index out of range: %d", toIndex)
	}
	line := d.lines[fromIndex]
	d.lines = append(d.lines[:fromIndex], d.lines[fromIndex+1:]...)
	rest := append([]Line{}, d.lines[toIndex:]...)
	d.lines = append(append(d.lines[:toIndex], line), rest...)
	return nil
}

// Lines returns a copy of the selection in insertion order.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Available returns the available pool in catalog order.
func (d *Draft) Available() []models.Product {
	out := make([]models.Product, 0, len(d.available))
	for _, p := range d.catalog.products {
		if d.available[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// Totals recomputes derived totals from the current selection.
func (d *Draft) Totals() Totals {
	return ComputeTotals(d.lines, d.VATPercent)
}

// BeginSubmit transitions Ready -> Submitting. A second submit while the
// first is in flight is rejected, as is submitting an incomplete draft.
func (d *Draft) BeginSubmit() error {
	switch d.State() {
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateSubmitted:
		return validationf("draft already submitted")
	case StateReady:
		d.submitting = true
		return nil
	default:
		return validationf("draft is not ready: counterparty and at least one line required")
	}
}

// EndSubmit resolves an in-flight submission. Success clears the selection
// and terminates the draft; failure returns it to Ready with all state
// intact.
func (d *Draft) EndSubmit(success bool) {
	d.submitting = false
	if success {
		d.submitted = true
		d.lines = nil
		for _, p := range d.catalog.products {
			d.available[p.ID] = true
		}
	}
}

func (d *Draft) ensureMutable() error {
	switch d.State() {
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateSubmitted:
		return validationf("draft already submitted")
	}
	return nil
}

func (d *Draft) hasProduct(productID string) bool {
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			return true
		}
	}
	return false
}

func (d *Draft) restoreToPool(productID string) {
	if d.hasProduct(productID) {
		return
	}
	if _, ok := d.catalog.Product(productID); ok {
		d.available[productID] = true
	}
}

// ValidStatus reports whether status is valid for an order of the given
// kind: processing is sales-only, approved is purchase-only.
func ValidStatus(kind, status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	case models.OrderStatusProcessing:
		return kind == models.OrderKindSales
	case models.OrderStatusApproved:
		return kind == models.OrderKindPurchase
	}
	return false
}

package builder

import "inventory-console/internal/models"

// Catalog is the read-only snapshot a draft selects from. Entries are
// supplied by the catalog loader and never mutated here.
type Catalog struct {
	products       []models.Product
	productsByID   map[string]models.Product
	counterparties map[string]string
}

// NewCatalog builds a snapshot from loaded products and the counterparties
// eligible for the draft's kind. Counterparty display names are kept for
// draft views.
func NewCatalog(products []models.Product, counterparties map[string]string) *Catalog {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	if counterparties == nil {
		counterparties = map[string]string{}
	}
	return &Catalog{
		products:       products,
		productsByID:   byID,
		counterparties: counterparties,
	}
}

// Product returns the catalog entry for id.
func (c *Catalog) Product(id string) (models.Product, bool) {
	p, ok := c.productsByID[id]
	return p, ok
}

// Products returns all entries in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// HasCounterparty reports whether id references a loaded counterparty.
func (c *Catalog) HasCounterparty(id string) bool {
	_, ok := c.counterparties[id]
	return ok
}

// CounterpartyName returns the display name for a loaded counterparty.
func (c *Catalog) CounterpartyName(id string) string {
	return c.counterparties[id]
}

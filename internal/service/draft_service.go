package service

import (
	"context"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/catalog"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"go.uber.org/zap"
)

// DraftService owns the order-builder lifecycle: opening drafts over a
// catalog snapshot and applying user mutations to them.
type DraftService struct {
	registry   *builder.Registry
	loader     *catalog.Loader
	defaultVAT float64
	logger     *zap.Logger
}

// NewDraftService creates a draft service
func NewDraftService(registry *builder.Registry, loader *catalog.Loader, defaultVAT float64) *DraftService {
	return &DraftService{
		registry:   registry,
		loader:     loader,
		defaultVAT: defaultVAT,
		logger:     util.NamedLogger("drafts"),
	}
}

// CreateDraftRequest opens a new draft
type CreateDraftRequest struct {
	Kind string `json:"kind" binding:"required,oneof=sales purchase"`
	// SupplierID scopes the product catalog to one supplier's products.
	SupplierID string `json:"supplier_id,omitempty"`
}

// DraftView is the JSON projection of a draft
type DraftView struct {
	ID             string           `json:"id"`
	Kind           string           `json:"kind"`
	State          builder.State    `json:"state"`
	CounterpartyID string           `json:"counterparty_id,omitempty"`
	OrderDate      time.Time        `json:"order_date"`
	Status         string           `json:"order_status"`
	VATPercent     float64          `json:"vat"`
	Notes          string           `json:"notes,omitempty"`
	Lines          []builder.Line   `json:"lines"`
	Available      []models.Product `json:"available"`
	Totals         builder.Totals   `json:"totals"`
}

func viewOf(d *builder.Draft) *DraftView {
	totals := d.Totals()
	totals.Subtotal = builder.Round2(totals.Subtotal)
	totals.TaxAmount = builder.Round2(totals.TaxAmount)
	totals.GrandTotal = builder.Round2(totals.GrandTotal)
	return &DraftView{
		ID:             d.ID,
		Kind:           d.Kind,
		State:          d.State(),
		CounterpartyID: d.CounterpartyID,
		OrderDate:      d.OrderDate,
		Status:         d.Status,
		VATPercent:     d.VATPercent,
		Notes:          d.Notes,
		Lines:          d.Lines(),
		Available:      d.Available(),
		Totals:         totals,
	}
}

// CreateDraft loads a catalog snapshot and opens a draft over it.
func (ds *DraftService) CreateDraft(ctx context.Context, req *CreateDraftRequest) (*DraftView, error) {
	ctx, span := util.StartSpan(ctx, "DraftService.CreateDraft")
	defer span.End()

	snapshot, err := ds.loader.Snapshot(ctx, req.Kind, req.SupplierID)
	if err != nil {
		return nil, err
	}

	draft := builder.NewDraft(req.Kind, snapshot, ds.defaultVAT)
	draft.ScopedCatalog = req.SupplierID != ""
	ds.registry.Put(draft)

	util.DraftsOpenedTotal.WithLabelValues(req.Kind).Inc()
	ds.logger.Info("Draft opened",
		zap.String("draft_id", draft.ID),
		zap.String("kind", req.Kind))
	return viewOf(draft), nil
}

// GetDraft returns the current view of a draft.
func (ds *DraftService) GetDraft(id string) (*DraftView, error) {
	session, err := ds.registry.Get(id)
	if err != nil {
		return nil, err
	}
	var view *DraftView
	_ = session.Do(func(d *builder.Draft) error {
		view = viewOf(d)
		return nil
	})
	return view, nil
}

// DiscardDraft drops a draft, mirroring navigation away from the builder.
func (ds *DraftService) DiscardDraft(id string) error {
	if _, err := ds.registry.Get(id); err != nil {
		return err
	}
	ds.registry.Remove(id)
	return nil
}

// UpdateHeaderRequest mutates draft header fields; nil pointers leave a
// field unchanged.
type UpdateHeaderRequest struct {
	CounterpartyID *string    `json:"counterparty_id,omitempty"`
	OrderDate      *time.Time `json:"order_date,omitempty"`
	OrderStatus    string     `json:"order_status,omitempty"`
	VATPercent     *float64   `json:"vat,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// UpdateHeader applies header changes. When the draft's catalog is scoped
// to the counterparty and the counterparty changes, the catalog snapshot is
// reloaded before the change is applied.
func (ds *DraftService) UpdateHeader(ctx context.Context, id string, req *UpdateHeaderRequest) (*DraftView, error) {
	session, err := ds.registry.Get(id)
	if err != nil {
		return nil, err
	}

	var view *DraftView
	err = session.Do(func(d *builder.Draft) error {
		if req.CounterpartyID != nil && *req.CounterpartyID != d.CounterpartyID {
			if d.ScopedCatalog && d.Kind == models.OrderKindPurchase {
				snapshot, err := ds.loader.Snapshot(ctx, d.Kind, *req.CounterpartyID)
				if err != nil {
					return err
				}
				d.ReplaceCatalog(snapshot)
			}
			if err := d.SetCounterparty(*req.CounterpartyID); err != nil {
				return err
			}
		}
		if err := d.SetHeader(req.OrderDate, req.OrderStatus, req.VATPercent, req.Notes); err != nil {
			return err
		}
		view = viewOf(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	util.DraftMutationsTotal.WithLabelValues("header").Inc()
	return view, nil
}

// AddLineRequest appends or merges a selection line
type AddLineRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	SupplierID string `json:"supplier_id,omitempty"`
	Quantity   int    `json:"quantity"`
}

// AddLine adds a line to the draft. Quantity defaults to 1.
func (ds *DraftService) AddLine(id string, req *AddLineRequest) (*DraftView, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	return ds.mutate(id, "add_line", func(d *builder.Draft) error {
		_, err := d.AddLine(req.ProductID, req.SupplierID, req.Quantity)
		return err
	})
}

// RemoveLine removes a line by key.
func (ds *DraftService) RemoveLine(id, lineKey string) (*DraftView, error) {
	return ds.mutate(id, "remove_line", func(d *builder.Draft) error {
		return d.RemoveLine(lineKey)
	})
}

// SetQuantity replaces a line's quantity.
func (ds *DraftService) SetQuantity(id, lineKey string, quantity int) (*DraftView, error) {
	return ds.mutate(id, "set_quantity", func(d *builder.Draft) error {
		return d.SetQuantity(lineKey, quantity)
	})
}

// TransferRequest moves a product between the available and selected pools
type TransferRequest struct {
	From      string `json:"from" binding:"required,oneof=available selected"`
	To        string `json:"to" binding:"required,oneof=available selected"`
	ProductID string `json:"product_id" binding:"required"`
}

// Transfer applies a drag-and-drop pool move.
func (ds *DraftService) Transfer(id string, req *TransferRequest) (*DraftView, error) {
	return ds.mutate(id, "transfer", func(d *builder.Draft) error {
		return d.Transfer(req.From, req.To, req.ProductID)
	})
}

// ReorderRequest moves a selected line to a new position
type ReorderRequest struct {
	FromIndex int `json:"from_index"`
	ToIndex   int `json:"to_index"`
}

// Reorder changes line order within the selection.
func (ds *DraftService) Reorder(id string, req *ReorderRequest) (*DraftView, error) {
	return ds.mutate(id, "reorder", func(d *builder.Draft) error {
		return d.Reorder(req.FromIndex, req.ToIndex)
	})
}

func (ds *DraftService) mutate(id, op string, fn func(*builder.Draft) error) (*DraftView, error) {
	session, err := ds.registry.Get(id)
	if err != nil {
		return nil, err
	}

	var view *DraftView
	err = session.Do(func(d *builder.Draft) error {
		if err := fn(d); err != nil {
			return err
		}
		view = viewOf(d)
		return nil
	})
	if err != nil {
		reason := "error"
		if builder.IsValidation(err) {
			reason = "validation"
		} else if builder.IsNotFound(err) {
			reason = "not_found"
		}
		util.DraftMutationsRejected.WithLabelValues(op, reason).Inc()
		return nil, err
	}

	util.DraftMutationsTotal.WithLabelValues(op).Inc()
	return view, nil
}

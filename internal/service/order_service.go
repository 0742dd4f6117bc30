package service

import (
	"context"
	"fmt"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// submitLockTTL bounds how long a crashed submit can hold its lock.
const submitLockTTL = 30 * time.Second

type orderStore interface {
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	CreateOrderTx(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
}

type submissionCache interface {
	GetIdempotencyKey(ctx context.Context, key string) (string, error)
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

type orderEvents interface {
	PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error
}

// OrderService turns a ready draft into a recorded order.
type OrderService struct {
	store          orderStore
	redis          submissionCache
	eventPublisher orderEvents
	registry       *builder.Registry
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store orderStore,
	redis submissionCache,
	eventPublisher orderEvents,
	registry *builder.Registry,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		registry:       registry,
		logger:         util.NamedLogger("orders"),
	}
}

// SubmitResponse is returned after a successful submission
type SubmitResponse struct {
	OrderID string `json:"order_id"`
	Kind    string `json:"kind"`
	Status  string `json:"order_status"`
}

// SubmitDraft takes a draft through Ready -> Submitting -> Submitted. The
// draft ID doubles as the idempotency key: a retried submit of an
// already-recorded draft is served from the Redis key cache, falling back to
// the orders table when the cache is cold. On any persistence failure the
// draft returns to Ready with all lines and header fields intact.
func (s *OrderService) SubmitDraft(ctx context.Context, draftID string) (*SubmitResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SubmitDraft")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SubmitLatency.Observe(time.Since(start).Seconds())
	}()

	session, err := s.registry.Get(draftID)
	if err != nil {
		return nil, err
	}

	// Fast path: a retried submit whose order is already recorded is
	// answered from the cached idempotency key without touching the draft.
	if cachedID, err := s.redis.GetIdempotencyKey(ctx, draftID); err != nil {
		s.logger.Warn("Idempotency cache read failed", zap.Error(err))
	} else if cachedID != "" {
		if order, err := s.store.GetOrder(ctx, cachedID); err == nil {
			s.logger.Info("Duplicate submission served from cache",
				zap.String("draft_id", draftID),
				zap.String("order_id", order.ID))
			return &SubmitResponse{OrderID: order.ID, Kind: order.Kind, Status: order.Status}, nil
		}
	}

	// The per-draft lock covers retried requests landing on another
	// instance; within one instance the session mutex already serializes.
	locked, err := s.redis.AcquireLock(ctx, draftID, submitLockTTL)
	if err != nil {
		s.logger.Warn("Submission lock unavailable", zap.Error(err))
	} else if !locked {
		util.OrdersSubmitFailedTotal.WithLabelValues("in_flight").Inc()
		return nil, builder.ErrSubmissionInFlight
	} else {
		defer func() {
			if err := s.redis.ReleaseLock(ctx, draftID); err != nil {
				s.logger.Warn("Failed to release submission lock", zap.Error(err))
			}
		}()
	}

	existing, err := s.store.GetOrderByIdempotencyKey(ctx, draftID)
	if err != nil {
		util.OrdersSubmitFailedTotal.WithLabelValues("idempotency_check").Inc()
		return nil, &builder.SubmissionError{Err: err}
	}
	if existing != nil {
		s.logger.Info("Duplicate submission detected",
			zap.String("draft_id", draftID),
			zap.String("order_id", existing.ID))
		return &SubmitResponse{OrderID: existing.ID, Kind: existing.Kind, Status: existing.Status}, nil
	}

	// Transition to Submitting and freeze the payload under the session
	// lock. A concurrent submit gets ErrSubmissionInFlight here.
	var payload *builder.Payload
	err = session.Do(func(d *builder.Draft) error {
		if err := d.BeginSubmit(); err != nil {
			return err
		}
		p, err := builder.BuildPayload(d)
		if err != nil {
			d.EndSubmit(false)
			return err
		}
		payload = p
		return nil
	})
	if err != nil {
		util.OrdersSubmitFailedTotal.WithLabelValues("not_ready").Inc()
		return nil, err
	}

	order, items := s.recordOf(draftID, payload)
	if err := s.store.CreateOrderTx(ctx, order, items); err != nil {
		_ = session.Do(func(d *builder.Draft) error {
			d.EndSubmit(false)
			return nil
		})
		util.OrdersSubmitFailedTotal.WithLabelValues("db_error").Inc()
		return nil, &builder.SubmissionError{Err: err}
	}

	_ = session.Do(func(d *builder.Draft) error {
		d.EndSubmit(true)
		return nil
	})

	util.OrdersSubmittedTotal.WithLabelValues(order.Kind).Inc()
	s.logger.Info("Order recorded",
		zap.String("order_id", order.ID),
		zap.String("kind", order.Kind),
		zap.Float64("total_amount", order.TotalAmount))

	if err := s.redis.SetIdempotencyKey(ctx, draftID, order.ID, 24*time.Hour); err != nil {
		s.logger.Warn("Failed to cache idempotency key", zap.Error(err))
	}

	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID:        order.ID,
		Kind:           order.Kind,
		CounterpartyID: order.CounterpartyID,
		TotalAmount:    order.TotalAmount,
		TotalItems:     order.TotalItems,
		Items:          itemData(items),
	}
	if err := s.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}

	return &SubmitResponse{OrderID: order.ID, Kind: order.Kind, Status: order.Status}, nil
}

func (s *OrderService) recordOf(draftID string, payload *builder.Payload) (*models.Order, []models.OrderItem) {
	orderDate, err := time.Parse(time.RFC3339, payload.OrderDate)
	if err != nil {
		orderDate = time.Now().UTC()
	}

	order := &models.Order{
		ID:             uuid.New().String(),
		Kind:           payload.Kind,
		CounterpartyID: payload.CounterpartyID,
		OrderDate:      orderDate,
		Status:         payload.OrderStatus,
		VATPercent:     payload.VATPercent,
		SubTotal:       payload.SubTotal,
		TotalAmount:    payload.TotalAmount,
		TotalItems:     payload.TotalItems,
		Notes:          payload.Notes,
		IdempotencyKey: draftID,
	}

	items := make([]models.OrderItem, 0, len(payload.Products))
	for _, p := range payload.Products {
		items = append(items, models.OrderItem{
			ProductID:  p.ProductID,
			SupplierID: p.SupplierID,
			Quantity:   p.Quantity,
			UnitPrice:  p.Price,
		})
	}
	return order, items
}

func itemData(items []models.OrderItem) []models.OrderItemData {
	out := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItemData{
			ProductID:  item.ProductID,
			SupplierID: item.SupplierID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}
	return out
}

// OrderItemView is a recorded order line enriched with catalog fields for
// the console's detail view.
type OrderItemView struct {
	models.OrderItem
	Name string `json:"name,omitempty"`
	SKU  string `json:"sku,omitempty"`
}

// GetOrder retrieves a recorded order with its items. Items are enriched
// with product names; a failed catalog lookup degrades to bare lines.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, []OrderItemView, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	views := make([]OrderItemView, len(items))
	ids := make([]string, 0, len(items))
	for i, item := range items {
		views[i] = OrderItemView{OrderItem: item}
		ids = append(ids, item.ProductID)
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to enrich order items", zap.Error(err))
		return order, views, nil
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for i := range views {
		if p, ok := byID[views[i].ProductID]; ok {
			views[i].Name = p.Name
			views[i].SKU = p.SKU
		}
	}
	return order, views, nil
}

// UpdateStatus moves a recorded order to a new status. The status is
// validated against the order's kind.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, &builder.NotFoundError{Resource: "order", Ref: orderID}
	}
	if !builder.ValidStatus(order.Kind, status) {
		return nil, &builder.ValidationError{Msg: fmt.Sprintf("invalid %s order status: %s", order.Kind, status)}
	}
	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("order_status", status))
	return order, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders    map[string]*models.Order
	byIdem    map[string]*models.Order
	items     map[string][]models.OrderItem
	products  map[string]models.Product
	created   []*models.Order
	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:   map[string]*models.Order{},
		byIdem:   map[string]*models.Order{},
		items:    map[string][]models.OrderItem{},
		products: map[string]models.Product{},
	}
}

func (f *fakeOrderStore) GetOrderByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	return f.byIdem[key], nil
}

func (f *fakeOrderStore) CreateOrderTx(_ context.Context, order *models.Order, items []models.OrderItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, order)
	f.orders[order.ID] = order
	f.byIdem[order.IdempotencyKey] = order
	f.items[order.ID] = items
	return nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("order not found: %s", id)
}

func (f *fakeOrderStore) GetOrderItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderStore) GetProductsByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID, status string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return fmt.Errorf("order not found: %s", orderID)
	}
	o.Status = status
	return nil
}

type fakeSubmissionCache struct {
	keys  map[string]string
	locks map[string]bool
}

func newFakeSubmissionCache() *fakeSubmissionCache {
	return &fakeSubmissionCache{keys: map[string]string{}, locks: map[string]bool{}}
}

func (f *fakeSubmissionCache) GetIdempotencyKey(_ context.Context, key string) (string, error) {
	return f.keys[key], nil
}

func (f *fakeSubmissionCache) SetIdempotencyKey(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.keys[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeSubmissionCache) AcquireLock(_ context.Context, lockKey string, _ time.Duration) (bool, error) {
	if f.locks[lockKey] {
		return false, nil
	}
	f.locks[lockKey] = true
	return true, nil
}

func (f *fakeSubmissionCache) ReleaseLock(_ context.Context, lockKey string) error {
	delete(f.locks, lockKey)
	return nil
}

type fakeOrderEvents struct {
	published []*models.OrderSubmittedEvent
}

func (f *fakeOrderEvents) PublishOrderSubmitted(_ context.Context, event *models.OrderSubmittedEvent) error {
	f.published = append(f.published, event)
	return nil
}

func testOrderService() (*OrderService, *fakeOrderStore, *fakeSubmissionCache, *fakeOrderEvents, *builder.Registry) {
	fs := newFakeOrderStore()
	fc := newFakeSubmissionCache()
	fe := &fakeOrderEvents{}
	registry := builder.NewRegistry(time.Minute)
	svc := &OrderService{
		store:          fs,
		redis:          fc,
		eventPublisher: fe,
		registry:       registry,
		logger:         util.NamedLogger("orders"),
	}
	return svc, fs, fc, fe, registry
}

func readyDraft(registry *builder.Registry) *builder.Draft {
	d := openTestDraft(registry, models.OrderKindSales)
	if err := d.SetCounterparty("cp-1"); err != nil {
		panic(err)
	}
	if _, err := d.AddLine("prod-a", "", 3); err != nil {
		panic(err)
	}
	if _, err := d.AddLine("prod-b", "", 1); err != nil {
		panic(err)
	}
	return d
}

func TestSubmitDraftRecordsOrder(t *testing.T) {
	svc, fs, fc, fe, registry := testOrderService()
	d := readyDraft(registry)

	resp, err := svc.SubmitDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, models.OrderKindSales, resp.Kind)

	require.Len(t, fs.created, 1)
	order := fs.created[0]
	assert.Equal(t, d.ID, order.IdempotencyKey)
	assert.Equal(t, 4, order.TotalItems)
	assert.Equal(t, 55.50, order.SubTotal)
	assert.Equal(t, 59.94, order.TotalAmount)

	// The idempotency key is cached for retried submits.
	assert.Equal(t, order.ID, fc.keys[d.ID])

	require.Len(t, fe.published, 1)
	assert.Equal(t, order.ID, fe.published[0].OrderID)
	assert.Len(t, fe.published[0].Items, 2)

	assert.Equal(t, builder.StateSubmitted, d.State())
	assert.Empty(t, fc.locks)
}

func TestSubmitDraftServedFromKeyCache(t *testing.T) {
	svc, fs, fc, _, registry := testOrderService()
	d := readyDraft(registry)

	fs.orders["ord-1"] = &models.Order{ID: "ord-1", Kind: models.OrderKindSales, Status: models.OrderStatusPending}
	fc.keys[d.ID] = "ord-1"

	resp, err := svc.SubmitDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", resp.OrderID)

	// Nothing was written and the draft was never touched.
	assert.Empty(t, fs.created)
	assert.Equal(t, builder.StateReady, d.State())
}

func TestSubmitDraftDedupedThroughStore(t *testing.T) {
	svc, fs, _, _, registry := testOrderService()
	d := readyDraft(registry)

	// Cold cache, but the order landed in a previous attempt.
	fs.byIdem[d.ID] = &models.Order{ID: "ord-2", Kind: models.OrderKindSales, Status: models.OrderStatusPending}

	resp, err := svc.SubmitDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "ord-2", resp.OrderID)
	assert.Empty(t, fs.created)
	assert.Equal(t, builder.StateReady, d.State())
}

func TestSubmitDraftRejectedWhileLockHeld(t *testing.T) {
	svc, fs, fc, _, registry := testOrderService()
	d := readyDraft(registry)

	fc.locks[d.ID] = true

	_, err := svc.SubmitDraft(context.Background(), d.ID)
	assert.ErrorIs(t, err, builder.ErrSubmissionInFlight)
	assert.Empty(t, fs.created)
	assert.Equal(t, builder.StateReady, d.State())
}

func TestSubmitDraftFailureReturnsDraftToReady(t *testing.T) {
	svc, fs, fc, fe, registry := testOrderService()
	d := readyDraft(registry)

	fs.createErr = errors.New("connection refused")

	_, err := svc.SubmitDraft(context.Background(), d.ID)
	var se *builder.SubmissionError
	require.ErrorAs(t, err, &se)

	assert.Equal(t, builder.StateReady, d.State())
	assert.Len(t, d.Lines(), 2)
	assert.Empty(t, fc.keys)
	assert.Empty(t, fc.locks)
	assert.Empty(t, fe.published)
}

func TestSubmitDraftNotReady(t *testing.T) {
	svc, _, _, _, registry := testOrderService()
	d := openTestDraft(registry, models.OrderKindSales)

	_, err := svc.SubmitDraft(context.Background(), d.ID)
	assert.True(t, builder.IsValidation(err))
}

func TestUpdateStatus(t *testing.T) {
	svc, fs, _, _, _ := testOrderService()
	fs.orders["ord-1"] = &models.Order{ID: "ord-1", Kind: models.OrderKindPurchase, Status: models.OrderStatusPending}

	order, err := svc.UpdateStatus(context.Background(), "ord-1", models.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, order.Status)
	assert.Equal(t, models.OrderStatusApproved, fs.orders["ord-1"].Status)

	// Processing belongs to the sales lifecycle only.
	_, err = svc.UpdateStatus(context.Background(), "ord-1", models.OrderStatusProcessing)
	assert.True(t, builder.IsValidation(err))

	_, err = svc.UpdateStatus(context.Background(), "missing", models.OrderStatusApproved)
	assert.True(t, builder.IsNotFound(err))
}

func TestGetOrderEnrichesItems(t *testing.T) {
	svc, fs, _, _, _ := testOrderService()
	fs.orders["ord-1"] = &models.Order{ID: "ord-1", Kind: models.OrderKindSales}
	fs.items["ord-1"] = []models.OrderItem{
		{ProductID: "prod-a", Quantity: 2, UnitPrice: 10.00},
		{ProductID: "prod-gone", Quantity: 1, UnitPrice: 5.00},
	}
	fs.products["prod-a"] = models.Product{ID: "prod-a", Name: "Product A", SKU: "SKU-A"}

	order, items, err := svc.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	require.Len(t, items, 2)
	assert.Equal(t, "Product A", items[0].Name)
	assert.Equal(t, "SKU-A", items[0].SKU)

	// A line whose product left the catalog stays a bare line.
	assert.Empty(t, items[1].Name)
}

func TestRecordOf(t *testing.T) {
	s := &OrderService{}
	payload := &builder.Payload{
		Kind:           models.OrderKindPurchase,
		CounterpartyID: "cp-1",
		OrderDate:      "2026-03-14T00:00:00Z",
		OrderStatus:    models.OrderStatusPending,
		VATPercent:     8,
		Products: []builder.PayloadLine{
			{ProductID: "prod-a", SupplierID: "cp-1", Quantity: 3, Price: 10.00},
			{ProductID: "prod-b", SupplierID: "cp-1", Quantity: 1, Price: 25.50},
		},
		SubTotal:    55.50,
		TotalItems:  4,
		TotalAmount: 59.94,
		Notes:       "restock",
	}

	order, items := s.recordOf("draft-123", payload)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "draft-123", order.IdempotencyKey)
	assert.Equal(t, models.OrderKindPurchase, order.Kind)
	assert.Equal(t, "cp-1", order.CounterpartyID)
	assert.Equal(t, 2026, order.OrderDate.Year())
	assert.Equal(t, 55.50, order.SubTotal)
	assert.Equal(t, 59.94, order.TotalAmount)
	assert.Equal(t, 4, order.TotalItems)
	assert.Equal(t, "restock", order.Notes)

	require.Len(t, items, 2)
	assert.Equal(t, "prod-a", items[0].ProductID)
	assert.Equal(t, "cp-1", items[0].SupplierID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 10.00, items[0].UnitPrice)
}

func TestRecordOfBadDateFallsBackToNow(t *testing.T) {
	s := &OrderService{}
	payload := &builder.Payload{
		Kind:           models.OrderKindSales,
		CounterpartyID: "cp-2",
		OrderDate:      "not-a-date",
		OrderStatus:    models.OrderStatusPending,
	}

	order, _ := s.recordOf("draft-456", payload)
	assert.False(t, order.OrderDate.IsZero())
}

func TestItemData(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "prod-a", SupplierID: "cp-1", Quantity: 2, UnitPrice: 3.75},
	}

	data := itemData(items)
	require.Len(t, data, 1)
	assert.Equal(t, models.OrderItemData{
		ProductID:  "prod-a",
		SupplierID: "cp-1",
		Quantity:   2,
		UnitPrice:  3.75,
	}, data[0])
}

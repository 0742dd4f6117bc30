package service

import (
	"testing"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraftService() (*DraftService, *builder.Registry) {
	registry := builder.NewRegistry(time.Minute)
	ds := &DraftService{
		registry:   registry,
		defaultVAT: 8,
		logger:     util.NamedLogger("drafts"),
	}
	return ds, registry
}

func openTestDraft(registry *builder.Registry, kind string) *builder.Draft {
	snapshot := builder.NewCatalog([]models.Product{
		{ID: "prod-a", Name: "Product A", SKU: "SKU-A", Price: 10.00, Stock: 5},
		{ID: "prod-b", Name: "Product B", SKU: "SKU-B", Price: 25.50, Stock: 2},
	}, map[string]string{"cp-1": "Acme - Acme Corp"})
	draft := builder.NewDraft(kind, snapshot, 8)
	registry.Put(draft)
	return draft
}

func TestAddLineDefaultsQuantityToOne(t *testing.T) {
	ds, registry := testDraftService()
	draft := openTestDraft(registry, models.OrderKindSales)

	view, err := ds.AddLine(draft.ID, &AddLineRequest{ProductID: "prod-a"})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestMutationsReturnRoundedTotals(t *testing.T) {
	ds, registry := testDraftService()
	draft := openTestDraft(registry, models.OrderKindSales)

	_, err := ds.AddLine(draft.ID, &AddLineRequest{ProductID: "prod-a", Quantity: 3})
	require.NoError(t, err)
	view, err := ds.AddLine(draft.ID, &AddLineRequest{ProductID: "prod-b", Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, 4, view.Totals.TotalItems)
	assert.Equal(t, 55.50, view.Totals.Subtotal)
	assert.Equal(t, 4.44, view.Totals.TaxAmount)
	assert.Equal(t, 59.94, view.Totals.GrandTotal)
}

func TestRejectedMutationLeavesViewIntact(t *testing.T) {
	ds, registry := testDraftService()
	draft := openTestDraft(registry, models.OrderKindSales)

	_, err := ds.AddLine(draft.ID, &AddLineRequest{ProductID: "prod-a"})
	require.NoError(t, err)

	_, err = ds.SetQuantity(draft.ID, "missing-key", 5)
	assert.True(t, builder.IsNotFound(err))

	view, err := ds.GetDraft(draft.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestTransferThroughService(t *testing.T) {
	ds, registry := testDraftService()
	draft := openTestDraft(registry, models.OrderKindSales)

	view, err := ds.Transfer(draft.ID, &TransferRequest{
		From:      builder.PoolAvailable,
		To:        builder.PoolSelected,
		ProductID: "prod-b",
	})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "prod-b", view.Lines[0].ProductID)
	require.Len(t, view.Available, 1)
	assert.Equal(t, "prod-a", view.Available[0].ID)
}

func TestGetDraftUnknownID(t *testing.T) {
	ds, _ := testDraftService()

	_, err := ds.GetDraft("nope")
	assert.True(t, builder.IsNotFound(err))
}

func TestDiscardDraft(t *testing.T) {
	ds, registry := testDraftService()
	draft := openTestDraft(registry, models.OrderKindPurchase)

	require.NoError(t, ds.DiscardDraft(draft.ID))
	assert.True(t, builder.IsNotFound(ds.DiscardDraft(draft.ID)))
	assert.Equal(t, 0, registry.Len())
}

package builder

import (
	"testing"

	"inventory-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	products := []models.Product{
		{ID: "prod-a", Name: "Product A", SKU: "SKU-A", Price: 10.00, Stock: 5},
		{ID: "prod-b", Name: "Product B", SKU: "SKU-B", Price: 25.50, Stock: 2},
		{ID: "prod-c", Name: "Product C", SKU: "SKU-C", Price: 3.75, Stock: 10},
	}
	counterparties := map[string]string{
		"cp-1": "Acme - Acme Corp",
		"cp-2": "Globex - Globex Inc",
	}
	return NewCatalog(products, counterparties)
}

func salesDraft() *Draft {
	return NewDraft(models.OrderKindSales, testCatalog(), 0)
}

func purchaseDraft() *Draft {
	return NewDraft(models.OrderKindPurchase, testCatalog(), 0)
}

func TestAddLineMergesDuplicatePairs(t *testing.T) {
	d := purchaseDraft()

	_, err := d.AddLine("prod-a", "cp-1", 2)
	require.NoError(t, err)
	_, err = d.AddLine("prod-a", "cp-1", 3)
	require.NoError(t, err)

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	// Same product from a different supplier is a distinct line.
	_, err = d.AddLine("prod-a", "cp-2", 1)
	require.NoError(t, err)
	assert.Len(t, d.Lines(), 2)
}

func TestAddLineCapturesPriceAtSelectionTime(t *testing.T) {
	d := salesDraft()

	line, err := d.AddLine("prod-b", "", 1)
	require.NoError(t, err)
	assert.Equal(t, 25.50, line.UnitPrice)
	assert.Equal(t, "SKU-B", line.SKU)
}

func TestAddLineValidation(t *testing.T) {
	d := purchaseDraft()

	_, err := d.AddLine("prod-a", "cp-1", 0)
	assert.True(t, IsValidation(err))

	_, err = d.AddLine("prod-a", "cp-1", -3)
	assert.True(t, IsValidation(err))

	_, err = d.AddLine("", "cp-1", 1)
	assert.True(t, IsValidation(err))

	_, err = d.AddLine("prod-a", "", 1)
	assert.True(t, IsValidation(err))

	_, err = d.AddLine("prod-x", "cp-1", 1)
	assert.True(t, IsNotFound(err))

	_, err = d.AddLine("prod-a", "cp-x", 1)
	assert.True(t, IsNotFound(err))

	// Nothing was mutated by the rejected calls.
	assert.Empty(t, d.Lines())
}

func TestSalesLinesCarryNoCounterparty(t *testing.T) {
	d := salesDraft()

	line, err := d.AddLine("prod-a", "cp-1", 1)
	require.NoError(t, err)
	assert.Empty(t, line.SupplierID)
}

func TestRemoveLineExcludesContributionExactlyOnce(t *testing.T) {
	d := salesDraft()

	a, err := d.AddLine("prod-a", "", 3)
	require.NoError(t, err)
	_, err = d.AddLine("prod-b", "", 1)
	require.NoError(t, err)

	require.NoError(t, d.RemoveLine(a.Key))

	totals := d.Totals()
	assert.Equal(t, 1, totals.TotalItems)
	assert.InDelta(t, 25.50, totals.Subtotal, 1e-9)

	assert.True(t, IsNotFound(d.RemoveLine(a.Key)))
}

func TestSetQuantity(t *testing.T) {
	d := salesDraft()

	line, err := d.AddLine("prod-a", "", 1)
	require.NoError(t, err)

	require.NoError(t, d.SetQuantity(line.Key, 7))
	assert.Equal(t, 7, d.Lines()[0].Quantity)

	// Zero is RemoveLine's job, not SetQuantity's.
	assert.True(t, IsValidation(d.SetQuantity(line.Key, 0)))
	assert.Equal(t, 7, d.Lines()[0].Quantity)

	assert.True(t, IsNotFound(d.SetQuantity("missing", 2)))
}

func availableIDs(d *Draft) []string {
	products := d.Available()
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestTransferIsAtomic(t *testing.T) {
	d := salesDraft()

	require.NoError(t, d.Transfer(PoolAvailable, PoolSelected, "prod-b"))

	assert.NotContains(t, availableIDs(d), "prod-b")
	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "prod-b", lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)

	// Round trip restores pool membership.
	require.NoError(t, d.Transfer(PoolSelected, PoolAvailable, "prod-b"))
	assert.Contains(t, availableIDs(d), "prod-b")
	assert.Empty(t, d.Lines())
	assert.ElementsMatch(t, []string{"prod-a", "prod-b", "prod-c"}, availableIDs(d))
}

func TestTransferUnknownProduct(t *testing.T) {
	d := salesDraft()

	assert.True(t, IsNotFound(d.Transfer(PoolAvailable, PoolSelected, "prod-x")))
	assert.True(t, IsNotFound(d.Transfer(PoolSelected, PoolAvailable, "prod-a")))
	assert.True(t, IsValidation(d.Transfer(PoolAvailable, PoolAvailable, "prod-a")))
}

func TestTransferPurchaseRequiresHeaderSupplier(t *testing.T) {
	d := purchaseDraft()

	err := d.Transfer(PoolAvailable, PoolSelected, "prod-a")
	assert.True(t, IsValidation(err))

	require.NoError(t, d.SetCounterparty("cp-1"))
	require.NoError(t, d.Transfer(PoolAvailable, PoolSelected, "prod-a"))

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "cp-1", lines[0].SupplierID)
}

func TestReorderPreservesTotals(t *testing.T) {
	d := salesDraft()

	_, err := d.AddLine("prod-a", "", 2)
	require.NoError(t, err)
	_, err = d.AddLine("prod-b", "", 1)
	require.NoError(t, err)
	_, err = d.AddLine("prod-c", "", 4)
	require.NoError(t, err)

	before := d.Totals()
	require.NoError(t, d.Reorder(2, 0))

	lines := d.Lines()
	assert.Equal(t, "prod-c", lines[0].ProductID)
	assert.Equal(t, "prod-a", lines[1].ProductID)
	assert.Equal(t, "prod-b", lines[2].ProductID)
	assert.Equal(t, before, d.Totals())

	assert.True(t, IsNotFound(d.Reorder(9, 0)))
	assert.True(t, IsValidation(d.Reorder(0, 9)))
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	d := salesDraft()

	_, err := d.AddLine("prod-c", "", 1)
	require.NoError(t, err)
	_, err = d.AddLine("prod-a", "", 1)
	require.NoError(t, err)

	lines := d.Lines()
	assert.Equal(t, "prod-c", lines[0].ProductID)
	assert.Equal(t, "prod-a", lines[1].ProductID)
}

func TestStateMachine(t *testing.T) {
	d := salesDraft()
	assert.Equal(t, StateEmpty, d.State())

	require.NoError(t, d.SetCounterparty("cp-1"))
	assert.Equal(t, StatePartiallyFilled, d.State())

	_, err := d.AddLine("prod-a", "", 1)
	require.NoError(t, err)
	assert.Equal(t, StateReady, d.State())

	require.NoError(t, d.BeginSubmit())
	assert.Equal(t, StateSubmitting, d.State())

	// A second submit while the first is in flight is rejected.
	assert.ErrorIs(t, d.BeginSubmit(), ErrSubmissionInFlight)

	// Mutations are blocked during the in-flight window.
	_, err = d.AddLine("prod-b", "", 1)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	// Failure returns to Ready with state intact.
	d.EndSubmit(false)
	assert.Equal(t, StateReady, d.State())
	assert.Len(t, d.Lines(), 1)

	// Success clears the selection and terminates the draft.
	require.NoError(t, d.BeginSubmit())
	d.EndSubmit(true)
	assert.Equal(t, StateSubmitted, d.State())
	assert.Empty(t, d.Lines())
	assert.Len(t, d.Available(), 3)

	_, err = d.AddLine("prod-a", "", 1)
	assert.True(t, IsValidation(err))
}

func TestBeginSubmitRequiresReady(t *testing.T) {
	d := salesDraft()
	assert.True(t, IsValidation(d.BeginSubmit()))

	_, err := d.AddLine("prod-a", "", 1)
	require.NoError(t, err)
	assert.True(t, IsValidation(d.BeginSubmit()))

	require.NoError(t, d.SetCounterparty("cp-2"))
	assert.NoError(t, d.BeginSubmit())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(models.OrderKindSales, models.OrderStatusProcessing))
	assert.False(t, ValidStatus(models.OrderKindPurchase, models.OrderStatusProcessing))
	assert.True(t, ValidStatus(models.OrderKindPurchase, models.OrderStatusApproved))
	assert.False(t, ValidStatus(models.OrderKindSales, models.OrderStatusApproved))
	assert.True(t, ValidStatus(models.OrderKindSales, models.OrderStatusCancelled))
	assert.False(t, ValidStatus(models.OrderKindSales, "archived"))
}

func TestReplaceCatalogKeepsSelectedOutOfPool(t *testing.T) {
	d := purchaseDraft()
	require.NoError(t, d.SetCounterparty("cp-1"))
	_, err := d.AddLine("prod-a", "cp-1", 2)
	require.NoError(t, err)

	fresh := NewCatalog([]models.Product{
		{ID: "prod-a", Name: "Product A", SKU: "SKU-A", Price: 11.00},
		{ID: "prod-d", Name: "Product D", SKU: "SKU-D", Price: 8.00},
	}, map[string]string{"cp-1": "Acme - Acme Corp"})
	d.ReplaceCatalog(fresh)

	assert.ElementsMatch(t, []string{"prod-d"}, availableIDs(d))

	// The selected line keeps the price captured at add time.
	assert.Equal(t, 10.00, d.Lines()[0].UnitPrice)
}

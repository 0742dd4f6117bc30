package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{ProductID: "prod-a", Quantity: 3, UnitPrice: 10.00},
		{ProductID: "prod-b", Quantity: 1, UnitPrice: 25.50},
	}

	totals := ComputeTotals(lines, 8)

	assert.Equal(t, 4, totals.TotalItems)
	assert.InDelta(t, 55.50, totals.Subtotal, 1e-9)
	assert.InDelta(t, 4.44, Round2(totals.TaxAmount), 1e-9)
	assert.InDelta(t, 59.94, Round2(totals.GrandTotal), 1e-9)
}

func TestComputeTotalsEmptySelection(t *testing.T) {
	for _, rate := range []float64{0, 8, 21.5} {
		totals := ComputeTotals(nil, rate)
		assert.Equal(t, Totals{}, totals)
	}
}

func TestComputeTotalsZeroVAT(t *testing.T) {
	lines := []Line{{ProductID: "prod-a", Quantity: 2, UnitPrice: 3.75}}

	totals := ComputeTotals(lines, 0)

	assert.InDelta(t, 7.50, totals.Subtotal, 1e-9)
	assert.Zero(t, totals.TaxAmount)
	assert.InDelta(t, totals.Subtotal, totals.GrandTotal, 1e-9)
}

// Totals must always equal a fresh recomputation over the visible lines,
// whatever sequence of mutations produced them.
func TestTotalsNeverDriftFromLines(t *testing.T) {
	d := salesDraft()
	require.NoError(t, d.SetHeader(nil, "", floatPtr(8), nil))

	check := func() {
		expected := ComputeTotals(d.Lines(), 8)
		assert.Equal(t, expected, d.Totals())
	}

	a, err := d.AddLine("prod-a", "", 3)
	require.NoError(t, err)
	check()

	_, err = d.AddLine("prod-b", "", 1)
	require.NoError(t, err)
	check()

	require.NoError(t, d.SetQuantity(a.Key, 5))
	check()

	_, err = d.AddLine("prod-a", "", 2)
	require.NoError(t, err)
	check()

	require.NoError(t, d.RemoveLine(a.Key))
	check()

	require.NoError(t, d.Transfer(PoolAvailable, PoolSelected, "prod-c"))
	check()

	require.NoError(t, d.Reorder(1, 0))
	check()
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.44, Round2(4.4400000000000004))
	assert.Equal(t, 59.94, Round2(59.940000000000005))
	assert.Equal(t, 1.01, Round2(1.005000001))
	assert.Equal(t, 0.0, Round2(0))
}

func floatPtr(v float64) *float64 { return &v }

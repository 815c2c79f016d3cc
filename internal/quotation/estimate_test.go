package quotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeEntryTotalsWorkedExample(t *testing.T) {
	entry := FactoryEntry{
		UnitCost:              12.5,
		MoldCost:              800,
		MoldCostAdditionalTHB: 0,
	}
	header := GlobalHeader{
		ShippingCostRMB:        120,
		ExchangeRate:           5.5,
		VATPercent:             7,
		Quantity:               800,
		UnitSellingPriceTHB:    85,
		LanyardSellingPriceTHB: 15,
	}

	totals := ComputeEntryTotals(entry, header)

	// base = (12.5 + 800/800 + 120/800) * 5.5 = 75.075
	// with VAT 7%: 80.33025
	require.InDelta(t, 80.33025, totals.TotalCostPerUnit, 1e-9)
	require.InDelta(t, 100, totals.TotalSellingPricePerUnit, 1e-9)
	require.InDelta(t, (100-80.33025)*800, totals.TotalProfit, 1e-6)
}

func TestComputeEntryTotalsTHBToolingPoolSkipsExchangeAndVAT(t *testing.T) {
	header := GlobalHeader{
		ExchangeRate: 5,
		VATPercent:   7,
		Quantity:     100,
	}
	withTHBPool := ComputeEntryTotals(FactoryEntry{MoldCostAdditionalTHB: 1000}, header)
	withRMBPool := ComputeEntryTotals(FactoryEntry{MoldCost: 1000}, header)

	// The THB pool amortises straight onto the unit cost...
	require.InDelta(t, 10, withTHBPool.TotalCostPerUnit, 1e-9)
	// ...while the RMB pool is exchange-converted and VAT-marked-up.
	require.InDelta(t, 10*5*1.07, withRMBPool.TotalCostPerUnit, 1e-9)
}

func TestComputeEntryTotalsDegenerateQuantity(t *testing.T) {
	entry := FactoryEntry{UnitCost: 99, MoldCost: 1000, MoldCostAdditionalTHB: 500}
	for _, qty := range []int{0, -1, -800} {
		header := GlobalHeader{
			ShippingCostRMB:     250,
			ExchangeRate:        5.5,
			VATPercent:          7,
			Quantity:            qty,
			UnitSellingPriceTHB: 85,
		}
		totals := ComputeEntryTotals(entry, header)
		require.Zero(t, totals.TotalCostPerUnit)
		require.Zero(t, totals.TotalSellingPricePerUnit)
		require.Zero(t, totals.TotalProfit)
	}
}

func TestComputeEntryTotalsDeterministic(t *testing.T) {
	entry := FactoryEntry{UnitCost: 3.75, MoldCost: 120, MoldCostAdditionalTHB: 45}
	header := GlobalHeader{
		ShippingCostRMB:        60,
		ExchangeRate:           5.12,
		VATPercent:             7,
		Quantity:               350,
		UnitSellingPriceTHB:    40,
		LanyardSellingPriceTHB: 8,
	}
	first := ComputeEntryTotals(entry, header)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeEntryTotals(entry, header))
	}
}

package quotation

// GlobalHeader carries the shared cost and pricing inputs applied
// uniformly to every factory entry in an estimation session. Amounts
// suffixed RMB are in the supplier currency; THB amounts are already in
// the settlement currency.
type GlobalHeader struct {
	ShippingCostRMB        float64 `json:"shipping_cost_rmb"`
	ExchangeRate           float64 `json:"exchange_rate"`
	VATPercent             float64 `json:"vat_percent"`
	Quantity               int     `json:"quantity"`
	UnitSellingPriceTHB    float64 `json:"unit_selling_price_thb"`
	LanyardSellingPriceTHB float64 `json:"lanyard_selling_price_thb"`
}

// FactoryEntry is one candidate supplier's quote within an estimation
// session.
type FactoryEntry struct {
	ID           string `json:"id"`
	FactoryValue string `json:"factory_value"`
	FactoryLabel string `json:"factory_label"`

	// Per-entry cost inputs. UnitCost and MoldCost are supplier
	// currency; MoldCostAdditionalTHB is a separate tooling pool that
	// is already settlement currency and is charged on top of the
	// VAT-marked-up base.
	UnitCost              float64 `json:"unit_cost"`
	MoldCost              float64 `json:"mold_cost"`
	MoldCostAdditionalTHB float64 `json:"mold_cost_additional_thb"`

	TotalCostPerUnit         float64 `json:"total_cost_per_unit"`
	TotalSellingPricePerUnit float64 `json:"total_selling_price_per_unit"`
	TotalProfit              float64 `json:"total_profit"`

	IsWinner     bool    `json:"is_winner"`
	UploadedFile *string `json:"uploaded_file,omitempty"`
}

// EntryTotals are the derived amounts for one factory entry.
type EntryTotals struct {
	TotalCostPerUnit         float64 `json:"total_cost_per_unit"`
	TotalSellingPricePerUnit float64 `json:"total_selling_price_per_unit"`
	TotalProfit              float64 `json:"total_profit"`
}

// ComputeEntryTotals evaluates the per-unit cost and profit for one
// factory entry. The operation order is a business contract with the
// procurement desk and must not be rearranged: mold and shipping are
// amortised per piece in supplier currency, converted, marked up by
// VAT, and only then is the THB-side tooling pool added. The THB pool
// is deliberately neither exchange-converted nor VAT-marked-up.
//
// A quantity of zero or less resolves every output to 0 rather than
// dividing.
func ComputeEntryTotals(entry FactoryEntry, header GlobalHeader) EntryTotals {
	if header.Quantity <= 0 {
		return EntryTotals{}
	}
	qty := float64(header.Quantity)

	base := (entry.UnitCost + entry.MoldCost/qty + header.ShippingCostRMB/qty) * header.ExchangeRate
	baseWithVAT := base * (1 + header.VATPercent/100)

	costPerUnit := baseWithVAT + entry.MoldCostAdditionalTHB/qty
	sellingPerUnit := header.UnitSellingPriceTHB + header.LanyardSellingPriceTHB

	return EntryTotals{
		TotalCostPerUnit:         costPerUnit,
		TotalSellingPricePerUnit: sellingPerUnit,
		TotalProfit:              (sellingPerUnit - costPerUnit) * qty,
	}
}

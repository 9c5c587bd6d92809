// Package pricing derives subtotal, discount, tax and total from a cart
// ledger plus a catalog subset. Values are recomputed from scratch on every
// call; nothing is cached or incrementally maintained.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/bitmall/storefront/internal/domain"
)

// Fixed percentage rates applied at checkout time.
var (
	DiscountRate = decimal.NewFromFloat(0.10)
	TaxRate      = decimal.NewFromFloat(0.13)
)

// Valuation is the money breakdown of a cart ledger.
type Valuation struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	// Skipped lists ledger entries whose product was absent from the catalog
	// subset; they contribute nothing to the totals.
	Skipped []string `json:"skipped,omitempty"`
}

// Payable reports whether checkout may proceed.
func (v Valuation) Payable() bool {
	return v.Subtotal.IsPositive()
}

// Compute values a cart ledger against the given catalog subset.
// total = round2(subtotal - discount + tax). A ledger entry with no matching
// catalog record is skipped, never an error.
func Compute(ledger domain.QuantityMap, catalog map[string]domain.Product) Valuation {
	v := Valuation{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	for productID, qty := range ledger {
		product, ok := catalog[productID]
		if !ok {
			v.Skipped = append(v.Skipped, productID)
			continue
		}
		v.Subtotal = v.Subtotal.Add(product.ActualPrice.Mul(decimal.NewFromInt(qty)))
	}
	if v.Subtotal.IsZero() {
		return v
	}
	v.Discount = v.Subtotal.Mul(DiscountRate)
	v.Tax = v.Subtotal.Mul(TaxRate)
	v.Total = v.Subtotal.Sub(v.Discount).Add(v.Tax).Round(2)
	return v
}

// Subtotal computes the raw goods value of a ledger with no discount or tax.
// The order listing read path uses this figure for display; the checkout-time
// Compute result is the authoritative amount owed.
func Subtotal(ledger domain.QuantityMap, catalog map[string]domain.Product) decimal.Decimal {
	sum := decimal.Zero
	for productID, qty := range ledger {
		product, ok := catalog[productID]
		if !ok {
			continue
		}
		sum = sum.Add(product.ActualPrice.Mul(decimal.NewFromInt(qty)))
	}
	return sum
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmall/storefront/internal/domain"
)

func product(id, actual string) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       "Product " + id,
		ActualPrice: decimal.RequireFromString(actual),
	}
}

func TestComputeEmptyLedger(t *testing.T) {
	v := Compute(domain.QuantityMap{}, map[string]domain.Product{})

	assert.True(t, v.Subtotal.IsZero())
	assert.True(t, v.Discount.IsZero())
	assert.True(t, v.Tax.IsZero())
	assert.True(t, v.Total.IsZero())
	assert.False(t, v.Payable())
}

func TestComputeTotalFormula(t *testing.T) {
	catalog := map[string]domain.Product{
		"a": product("a", "100"),
		"b": product("b", "50"),
	}
	ledger := domain.QuantityMap{"a": 2, "b": 1}

	v := Compute(ledger, catalog)

	require.Equal(t, "250", v.Subtotal.String())
	assert.Equal(t, "25", v.Discount.String())
	assert.Equal(t, "32.5", v.Tax.String())

	// total == round2(subtotal - subtotal*0.10 + subtotal*0.13)
	expected := v.Subtotal.
		Sub(v.Subtotal.Mul(decimal.NewFromFloat(0.10))).
		Add(v.Subtotal.Mul(decimal.NewFromFloat(0.13))).
		Round(2)
	assert.True(t, v.Total.Equal(expected), "total %s != %s", v.Total, expected)
	assert.Equal(t, "257.50", v.Total.StringFixed(2))
	assert.True(t, v.Payable())
}

func TestComputeRounding(t *testing.T) {
	catalog := map[string]domain.Product{"a": product("a", "0.99")}
	v := Compute(domain.QuantityMap{"a": 3}, catalog)

	// 2.97 * 1.03 = 3.0591 -> 3.06
	assert.Equal(t, "3.06", v.Total.StringFixed(2))
}

func TestComputeSkipsUnknownProducts(t *testing.T) {
	catalog := map[string]domain.Product{"a": product("a", "10")}
	ledger := domain.QuantityMap{"a": 1, "ghost": 5}

	v := Compute(ledger, catalog)

	assert.Equal(t, "10", v.Subtotal.String())
	assert.Equal(t, []string{"ghost"}, v.Skipped)
}

func TestSubtotalRawNoDiscountNoTax(t *testing.T) {
	catalog := map[string]domain.Product{
		"A": product("A", "100"),
		"B": product("B", "50"),
	}
	sum := Subtotal(domain.QuantityMap{"A": 2, "B": 1}, catalog)

	assert.Equal(t, "250", sum.String())
}

func TestSubtotalSkipsUnknownProducts(t *testing.T) {
	sum := Subtotal(domain.QuantityMap{"missing": 4}, map[string]domain.Product{})
	assert.True(t, sum.IsZero())
}

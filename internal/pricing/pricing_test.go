package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lymstore/storefront/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sale(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

func product(base string, salePrice decimal.NullDecimal, taxes string) *domain.Product {
	return &domain.Product{BasePrice: d(base), SalePrice: salePrice, Taxes: d(taxes)}
}

func TestComputeLinePricing(t *testing.T) {
	tests := []struct {
		name         string
		product      *domain.Product
		qty          int
		wantUnit     string
		wantSubtotal string
		wantTax      string
		wantDiscount string
	}{
		{"sale price applies", product("100", sale("90"), "21"), 2, "90", "180", "37.8", "20"},
		{"no sale price", product("2499", decimal.NullDecimal{}, "21"), 1, "2499", "2499", "524.79", "0"},
		{"sale above base is ignored", product("100", sale("120"), "21"), 1, "100", "100", "21", "0"},
		{"sale equal to base is ignored", product("100", sale("100"), "10"), 3, "100", "300", "30", "0"},
		{"zero sale is ignored", product("50", sale("0"), "0"), 2, "50", "100", "0", "0"},
		{"negative quantity is zero", product("50", decimal.NullDecimal{}, "21"), -4, "50", "0", "0", "0"},
		{"negative prices are zero", product("-10", sale("-5"), "-21"), 2, "0", "0", "0", "0"},
		{"rounding to cents", product("1999.99", sale("1799.99"), "21"), 1, "1799.99", "1799.99", "377.9979", "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLinePricing(tt.product, tt.qty)
			assert.True(t, d(tt.wantUnit).Equal(got.UnitPrice), "unit %s", got.UnitPrice)
			assert.True(t, d(tt.wantSubtotal).Equal(got.LineSubtotal), "subtotal %s", got.LineSubtotal)
			assert.True(t, d(tt.wantTax).Round(2).Equal(got.LineTax), "tax %s", got.LineTax)
			assert.True(t, d(tt.wantDiscount).Equal(got.Discount), "discount %s", got.Discount)
			assert.False(t, got.LineSubtotal.IsNegative())
			assert.False(t, got.LineTax.IsNegative())
		})
	}
}

func TestDisplay(t *testing.T) {
	got := Display(product("1999.99", sale("1799.99"), "21"))
	assert.Equal(t, "10", got.DiscountPercentage.Round(0).String())
	assert.Equal(t, "2177.99", got.FinalPrice.StringFixed(2))

	got = Display(product("2499", decimal.NullDecimal{}, "21"))
	assert.True(t, got.DiscountPercentage.IsZero())
	assert.Equal(t, "3023.79", got.FinalPrice.StringFixed(2))

	got = Display(product("0", decimal.NullDecimal{}, "21"))
	assert.True(t, got.DiscountPercentage.IsZero())
	assert.True(t, got.FinalPrice.IsZero())
}

func TestTotals(t *testing.T) {
	lines := []LinePricing{
		ComputeLinePricing(product("100", sale("90"), "21"), 2),
		ComputeLinePricing(product("2499", decimal.NullDecimal{}, "21"), 1),
	}
	subtotal, taxes := Totals(lines)
	assert.Equal(t, "2679.00", subtotal.StringFixed(2))
	assert.Equal(t, "562.59", taxes.StringFixed(2))
	sub0, tax0 := Totals(nil)
	assert.True(t, sub0.IsZero())
	assert.True(t, tax0.IsZero())
}

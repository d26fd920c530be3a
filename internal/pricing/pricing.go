// Package pricing derives unit prices, line totals, taxes and display prices
// from catalog data. Every function is total: negative or missing inputs are
// treated as zero and all monetary outputs are rounded to two decimals.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/domain"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// LinePricing is the price breakdown of one cart line.
type LinePricing struct {
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	// Discount is (base price - unit price) * quantity
	Discount decimal.Decimal `json:"discount"`
}

// DisplayPricing is shown next to a product and never persisted.
type DisplayPricing struct {
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	FinalPrice         decimal.Decimal `json:"final_price"`
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// UnitPrice returns the sale price when it is set, positive and strictly below
// the base price; otherwise the base price.
func UnitPrice(base decimal.Decimal, sale decimal.NullDecimal) decimal.Decimal {
	base = nonNegative(base)
	if sale.Valid && sale.Decimal.IsPositive() && sale.Decimal.LessThan(base) {
		return sale.Decimal
	}
	return base
}

// ComputeLinePricing prices quantity units of p.
func ComputeLinePricing(p *domain.Product, quantity int) LinePricing {
	if quantity < 0 {
		quantity = 0
	}
	qty := decimal.NewFromInt(int64(quantity))
	base := nonNegative(p.BasePrice)
	unit := UnitPrice(base, p.SalePrice)
	subtotal := unit.Mul(qty)
	tax := subtotal.Mul(nonNegative(p.Taxes)).Div(hundred)
	return LinePricing{
		UnitPrice:    unit.Round(moneyPlaces),
		LineSubtotal: subtotal.Round(moneyPlaces),
		LineTax:      tax.Round(moneyPlaces),
		Discount:     base.Sub(unit).Mul(qty).Round(moneyPlaces),
	}
}

// Display computes the discount percentage and the tax-inclusive final price of p.
func Display(p *domain.Product) DisplayPricing {
	base := nonNegative(p.BasePrice)
	unit := UnitPrice(base, p.SalePrice)
	discount := decimal.Zero
	if unit.LessThan(base) {
		discount = base.Sub(unit).Div(base).Mul(hundred)
	}
	final := unit.Mul(hundred.Add(nonNegative(p.Taxes))).Div(hundred)
	return DisplayPricing{
		DiscountPercentage: discount.Round(moneyPlaces),
		FinalPrice:         final.Round(moneyPlaces),
	}
}

// Totals sums line pricings into order-level subtotal and taxes.
func Totals(lines []LinePricing) (subtotal, taxes decimal.Decimal) {
	subtotal, taxes = decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineSubtotal)
		taxes = taxes.Add(l.LineTax)
	}
	return subtotal, taxes
}

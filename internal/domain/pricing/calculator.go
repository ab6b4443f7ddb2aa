// Package pricing holds the pure price arithmetic shared by quotes and items.
// All functions are deterministic and operate on decimal values.
package pricing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// MaxMargin is the highest margin an item may carry
	MaxMargin = decimal.NewFromFloat(99.99)
)

// LineTotal returns qty * unitSalePrice * (1 - discountPct/100)
func LineTotal(qty int, unitSalePrice, discountPct decimal.Decimal) decimal.Decimal {
	factor := one.Sub(discountPct.Div(hundred))
	return decimal.NewFromInt(int64(qty)).Mul(unitSalePrice).Mul(factor)
}

// MarginFromPrices returns the profit margin over the sale price, in percent,
// rounded to 2 decimals. It is 0 when either price is non-positive or when the
// item is sold below cost.
func MarginFromPrices(cost, sale decimal.Decimal) decimal.Decimal {
	if !sale.IsPositive() || !cost.IsPositive() || cost.GreaterThan(sale) {
		return decimal.Zero
	}
	return sale.Sub(cost).Div(sale).Mul(hundred).Round(2)
}

// SaleFromMargin returns the sale price that yields margin over cost.
// A margin of 100 or more cannot be expressed and returns cost unchanged.
func SaleFromMargin(cost, margin decimal.Decimal) decimal.Decimal {
	if margin.GreaterThanOrEqual(hundred) {
		return cost
	}
	return cost.Div(one.Sub(margin.Div(hundred)))
}

// ApplyDiscount returns amount * (1 - discountPct/100)
func ApplyDiscount(amount, discountPct decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Sub(discountPct.Div(hundred)))
}

// ValidPercentage reports whether p lies in [0, 100]
func ValidPercentage(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

// ValidMargin reports whether m lies in [0, 99.99]
func ValidMargin(m decimal.Decimal) bool {
	return !m.IsNegative() && m.LessThanOrEqual(MaxMargin)
}

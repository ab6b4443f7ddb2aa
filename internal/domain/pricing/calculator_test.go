package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		sale     string
		discount string
		expected string
	}{
		{"no discount", 3, "10", "0", "30"},
		{"ten percent", 2, "50", "10", "90"},
		{"full discount", 5, "12.5", "100", "0"},
		{"fractional", 1, "33.33", "5", "31.6635"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.qty, d(tt.sale), d(tt.discount))
			assert.True(t, d(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestMarginFromPrices(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		sale     string
		expected string
	}{
		{"sixty over hundred", "60", "100", "40"},
		{"rounded", "10", "30", "66.67"},
		{"zero sale", "10", "0", "0"},
		{"negative sale", "10", "-1", "0"},
		{"zero cost", "0", "30", "0"},
		{"cost above sale", "40", "30", "0"},
		{"cost equals sale", "30", "30", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginFromPrices(d(tt.cost), d(tt.sale))
			assert.True(t, d(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestSaleFromMargin(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		margin   string
		expected string
	}{
		{"forty percent", "60", "40", "100"},
		{"zero margin", "60", "0", "60"},
		{"hundred returns cost", "60", "100", "60"},
		{"above hundred returns cost", "60", "150", "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SaleFromMargin(d(tt.cost), d(tt.margin))
			assert.True(t, d(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestMarginRoundTrip(t *testing.T) {
	margin := MarginFromPrices(d("60"), d("100"))
	assert.True(t, d("40").Equal(margin))

	sale := SaleFromMargin(d("60"), margin)
	assert.True(t, d("100").Equal(sale))
}

func TestValidRanges(t *testing.T) {
	assert.True(t, ValidPercentage(d("0")))
	assert.True(t, ValidPercentage(d("100")))
	assert.False(t, ValidPercentage(d("100.01")))
	assert.False(t, ValidPercentage(d("-1")))

	assert.True(t, ValidMargin(d("99.99")))
	assert.False(t, ValidMargin(d("100")))
}

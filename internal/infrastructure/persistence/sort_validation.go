package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"type":              true,
	"cost_price":        true,
	"sale_price":        true,
	"quantity_in_stock": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
}

// QuoteSortFields contains allowed sort fields for quotes
var QuoteSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"total_amount":  true,
	"delivery_date": true,
	"approved_at":   true,
}

// ProductionOrderSortFields contains allowed sort fields for production orders
var ProductionOrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"internal_id":  true,
	"completed_at": true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"created_at": true,
	"quantity":   true,
	"type":       true,
}

// AccountSortFields contains allowed sort fields for receivables and payables
var AccountSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"due_date":     true,
	"total_amount": true,
	"paid_amount":  true,
	"status":       true,
}

package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/pricing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductInfo is the product data copied onto a new line
type ProductInfo struct {
	ID        uuid.UUID
	Name      string
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
}

// QuoteItem is a priced line of a quote.
// TotalPrice always equals Quantity * UnitSalePrice * (1 - DiscountPercentage/100).
type QuoteItem struct {
	ID                 uuid.UUID
	QuoteID            uuid.UUID
	ProductID          uuid.UUID
	ProductName        string
	Quantity           int
	UnitCostPrice      decimal.Decimal
	UnitSalePrice      decimal.Decimal
	DiscountPercentage decimal.Decimal
	ProfitMargin       decimal.Decimal
	TotalPrice         decimal.Decimal
	AttachmentPath     string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ItemChanges holds the optional fields of an item update.
// ProfitMargin only drives the sale price when UnitSalePrice is nil.
type ItemChanges struct {
	Quantity           *int
	UnitSalePrice      *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	ProfitMargin       *decimal.Decimal
}

func newQuoteItem(quoteID uuid.UUID, product ProductInfo, quantity int) QuoteItem {
	now := time.Now()
	item := QuoteItem{
		ID:                 uuid.New(),
		QuoteID:            quoteID,
		ProductID:          product.ID,
		ProductName:        product.Name,
		Quantity:           quantity,
		UnitCostPrice:      product.CostPrice,
		UnitSalePrice:      product.SalePrice,
		DiscountPercentage: decimal.Zero,
		ProfitMargin:       pricing.MarginFromPrices(product.CostPrice, product.SalePrice),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	item.recalculate()
	return item
}

func (i *QuoteItem) recalculate() {
	i.TotalPrice = pricing.LineTotal(i.Quantity, i.UnitSalePrice, i.DiscountPercentage)
	i.UpdatedAt = time.Now()
}

func (i *QuoteItem) apply(changes ItemChanges) error {
	if changes.Quantity != nil && *changes.Quantity < 1 {
		return shared.NewValidationError("quantity must be at least 1")
	}
	if changes.DiscountPercentage != nil && !pricing.ValidPercentage(*changes.DiscountPercentage) {
		return shared.NewValidationError("discount percentage must be between 0 and 100")
	}
	if changes.UnitSalePrice != nil && changes.UnitSalePrice.IsNegative() {
		return shared.NewValidationError("unit sale price cannot be negative")
	}
	if changes.UnitSalePrice == nil && changes.ProfitMargin != nil && !pricing.ValidMargin(*changes.ProfitMargin) {
		return shared.NewValidationError("profit margin must be between 0 and 99.99")
	}

	if changes.Quantity != nil {
		i.Quantity = *changes.Quantity
	}
	if changes.DiscountPercentage != nil {
		i.DiscountPercentage = *changes.DiscountPercentage
	}
	switch {
	case changes.UnitSalePrice != nil:
		i.UnitSalePrice = *changes.UnitSalePrice
		i.ProfitMargin = pricing.MarginFromPrices(i.UnitCostPrice, i.UnitSalePrice)
	case changes.ProfitMargin != nil:
		i.ProfitMargin = *changes.ProfitMargin
		i.UnitSalePrice = pricing.SaleFromMargin(i.UnitCostPrice, i.ProfitMargin).Round(2)
	}
	i.recalculate()
	return nil
}

package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes stocked goods from services assembled on demand
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeService ProductType = "service"
)

// IsValid reports whether t is a known product type
func (t ProductType) IsValid() bool {
	return t == ProductTypeProduct || t == ProductTypeService
}

// Component is one line of a service's bill of materials
type Component struct {
	ComponentProductID uuid.UUID
	QuantityUsed       int
}

// Product is a sellable item of the catalog.
// QuantityInStock and, once purchases exist, CostPrice are projections of the stock ledger.
type Product struct {
	shared.TenantAggregateRoot
	Name            string
	Description     string
	Type            ProductType
	CostPrice       decimal.Decimal
	SalePrice       decimal.Decimal
	QuantityInStock int
	ImagePath       string
	Components      []Component
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, name string, productType ProductType, costPrice, salePrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("product name cannot exceed 200 characters")
	}
	if !productType.IsValid() {
		return nil, shared.NewValidationError("product type must be 'product' or 'service'")
	}
	if err := validatePrices(costPrice, salePrice); err != nil {
		return nil, err
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                productType,
		CostPrice:           costPrice,
		SalePrice:           salePrice,
	}, nil
}

// Update replaces the editable catalog fields
func (p *Product) Update(name, description string, costPrice, salePrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("product name cannot be empty")
	}
	if err := validatePrices(costPrice, salePrice); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.CostPrice = costPrice
	p.SalePrice = salePrice
	p.IncrementVersion()
	return nil
}

// IsService reports whether the product is a service
func (p *Product) IsService() bool {
	return p.Type == ProductTypeService
}

// HasBillOfMaterials reports whether selling the product consumes components
func (p *Product) HasBillOfMaterials() bool {
	return p.IsService() && len(p.Components) > 0
}

// SetComponents replaces the bill of materials. Only services may carry components.
func (p *Product) SetComponents(components []Component) error {
	if len(components) > 0 && !p.IsService() {
		return shared.NewValidationError("only services can have a bill of materials")
	}
	seen := make(map[uuid.UUID]struct{}, len(components))
	for _, c := range components {
		if c.ComponentProductID == uuid.Nil {
			return shared.NewValidationError("component product is required")
		}
		if c.ComponentProductID == p.ID {
			return shared.NewValidationError("a product cannot be a component of itself")
		}
		if c.QuantityUsed < 1 {
			return shared.NewValidationError("component quantity must be at least 1")
		}
		if _, dup := seen[c.ComponentProductID]; dup {
			return shared.NewValidationError("component listed more than once")
		}
		seen[c.ComponentProductID] = struct{}{}
	}
	p.Components = append([]Component(nil), components...)
	p.IncrementVersion()
	return nil
}

// SetImagePath records the storage key of the product image; empty clears it
func (p *Product) SetImagePath(path string) {
	p.ImagePath = path
	p.IncrementVersion()
}

// ApplyStockProjection overwrites the projected stock fields.
// A nil cost keeps the manually maintained cost price.
func (p *Product) ApplyStockProjection(quantity int, cost *decimal.Decimal) {
	p.QuantityInStock = quantity
	if cost != nil {
		p.CostPrice = *cost
	}
	p.Touch()
}

func validatePrices(cost, sale decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewValidationError("cost price cannot be negative")
	}
	if sale.IsNegative() {
		return shared.NewValidationError("sale price cannot be negative")
	}
	return nil
}

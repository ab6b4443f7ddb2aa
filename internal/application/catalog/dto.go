package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// ComponentRequest is one bill-of-materials line
type ComponentRequest struct {
	ComponentProductID uuid.UUID `json:"component_product_id" binding:"required"`
	QuantityUsed       int       `json:"quantity_used" binding:"required,min=1"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Description string             `json:"description" binding:"max=2000"`
	Type        string             `json:"type" binding:"required,oneof=product service"`
	CostPrice   decimal.Decimal    `json:"cost_price"`
	SalePrice   decimal.Decimal    `json:"sale_price"`
	Components  []ComponentRequest `json:"components" binding:"omitempty,dive"`
	CreatedBy   *uuid.UUID         `json:"-"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
}

// SetComponentsRequest replaces a service's bill of materials
type SetComponentsRequest struct {
	Components []ComponentRequest `json:"components" binding:"dive"`
}

// ProductListFilter represents query parameters for listing products
type ProductListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=product service"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at quantity_in_stock"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ComponentResponse is a bill-of-materials line in API responses
type ComponentResponse struct {
	ComponentProductID uuid.UUID `json:"component_product_id"`
	QuantityUsed       int       `json:"quantity_used"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Type            string              `json:"type"`
	CostPrice       decimal.Decimal     `json:"cost_price"`
	SalePrice       decimal.Decimal     `json:"sale_price"`
	ProfitMargin    decimal.Decimal     `json:"profit_margin"`
	QuantityInStock int                 `json:"quantity_in_stock"`
	ImagePath       string              `json:"image_path,omitempty"`
	Components      []ComponentResponse `json:"components"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	components := make([]ComponentResponse, 0, len(p.Components))
	for _, c := range p.Components {
		components = append(components, ComponentResponse{ComponentProductID: c.ComponentProductID, QuantityUsed: c.QuantityUsed})
	}
	return ProductResponse{
		ID:              p.ID,
		TenantID:        p.TenantID,
		Name:            p.Name,
		Description:     p.Description,
		Type:            string(p.Type),
		CostPrice:       p.CostPrice,
		SalePrice:       p.SalePrice,
		ProfitMargin:    pricing.MarginFromPrices(p.CostPrice, p.SalePrice),
		QuantityInStock: p.QuantityInStock,
		ImagePath:       p.ImagePath,
		Components:      components,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

func toComponents(reqs []ComponentRequest) []catalog.Component {
	out := make([]catalog.Component, len(reqs))
	for i, r := range reqs {
		out[i] = catalog.Component{ComponentProductID: r.ComponentProductID, QuantityUsed: r.QuantityUsed}
	}
	return out
}

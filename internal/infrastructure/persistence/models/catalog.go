package models

import (
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantAggregateModel
	Name            string                  `gorm:"type:varchar(200);not null"`
	Description     string                  `gorm:"type:text"`
	Type            catalog.ProductType     `gorm:"type:varchar(20);not null;default:'product'"`
	CostPrice       decimal.Decimal         `gorm:"type:decimal(12,2);not null;default:0"`
	SalePrice       decimal.Decimal         `gorm:"type:decimal(12,2);not null;default:0"`
	QuantityInStock int                     `gorm:"not null;default:0"`
	ImagePath       string                  `gorm:"type:varchar(500)"`
	Components      []ProductComponentModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductComponentModel is one bill of materials line of a service product
type ProductComponentModel struct {
	ProductID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ComponentProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	QuantityUsed       int       `gorm:"not null"`
	Position           int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductComponentModel) TableName() string {
	return "product_components"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Type:                m.Type,
		CostPrice:           m.CostPrice,
		SalePrice:           m.SalePrice,
		QuantityInStock:     m.QuantityInStock,
		ImagePath:           m.ImagePath,
	}
	for _, c := range m.Components {
		p.Components = append(p.Components, catalog.Component{
			ComponentProductID: c.ComponentProductID,
			QuantityUsed:       c.QuantityUsed,
		})
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Type = p.Type
	m.CostPrice = p.CostPrice
	m.SalePrice = p.SalePrice
	m.QuantityInStock = p.QuantityInStock
	m.ImagePath = p.ImagePath
	m.Components = make([]ProductComponentModel, len(p.Components))
	for i, c := range p.Components {
		m.Components[i] = ProductComponentModel{
			ProductID:          p.ID,
			ComponentProductID: c.ComponentProductID,
			QuantityUsed:       c.QuantityUsed,
			Position:           i,
		}
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

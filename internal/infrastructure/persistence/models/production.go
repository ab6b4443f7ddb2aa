package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/production"
)

// ProductionStatusModel is a row of the tenant's production status catalog
type ProductionStatusModel struct {
	TenantModel
	Name      string                `gorm:"type:varchar(100);not null"`
	Color     string                `gorm:"type:varchar(20)"`
	SortOrder int                   `gorm:"not null;default:0"`
	Role      production.StatusRole `gorm:"type:varchar(20);not null"`
	IsDefault bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductionStatusModel) TableName() string {
	return "production_statuses"
}

// ToDomain converts the persistence model to a domain production Status
func (m *ProductionStatusModel) ToDomain() *production.Status {
	return &production.Status{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Name:       m.Name,
		Color:      m.Color,
		SortOrder:  m.SortOrder,
		Role:       m.Role,
		IsDefault:  m.IsDefault,
	}
}

// ProductionStatusModelFromDomain creates a new persistence model from a domain production Status
func ProductionStatusModelFromDomain(s *production.Status) *ProductionStatusModel {
	m := &ProductionStatusModel{
		Name:      s.Name,
		Color:     s.Color,
		SortOrder: s.SortOrder,
		Role:      s.Role,
		IsDefault: s.IsDefault,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TenantID = s.TenantID
	return m
}

// ProductionOrderModel is the persistence model for the ProductionOrder aggregate root.
// Unique (tenant_id, quote_id) and (tenant_id, internal_id) indexes are
// created by the schema, see persistence.CompositeIndexes.
type ProductionOrderModel struct {
	TenantAggregateModel
	InternalID          int64                  `gorm:"not null"`
	QuoteID             uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	AssignedUserID      *uuid.UUID             `gorm:"type:uuid"`
	StatusID            uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status              *ProductionStatusModel `gorm:"foreignKey:StatusID"`
	Notes               string                 `gorm:"type:text"`
	CancellationReason  string                 `gorm:"type:text"`
	CompletedAt         *time.Time
	MaterialsDeductedAt *time.Time
	StockDeductedAt     *time.Time
}

// TableName returns the table name for GORM
func (ProductionOrderModel) TableName() string {
	return "production_orders"
}

// ToDomain converts the persistence model to a domain ProductionOrder
func (m *ProductionOrderModel) ToDomain() *production.ProductionOrder {
	o := &production.ProductionOrder{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		InternalID:          m.InternalID,
		QuoteID:             m.QuoteID,
		CustomerID:          m.CustomerID,
		AssignedUserID:      m.AssignedUserID,
		StatusID:            m.StatusID,
		Notes:               m.Notes,
		CancellationReason:  m.CancellationReason,
		CompletedAt:         m.CompletedAt,
		MaterialsDeductedAt: m.MaterialsDeductedAt,
		StockDeductedAt:     m.StockDeductedAt,
	}
	if m.Status != nil {
		o.Status = m.Status.ToDomain()
	}
	return o
}

// ProductionOrderModelFromDomain creates a new persistence model from a domain ProductionOrder
func ProductionOrderModelFromDomain(o *production.ProductionOrder) *ProductionOrderModel {
	m := &ProductionOrderModel{
		InternalID:          o.InternalID,
		QuoteID:             o.QuoteID,
		CustomerID:          o.CustomerID,
		AssignedUserID:      o.AssignedUserID,
		StatusID:            o.StatusID,
		Notes:               o.Notes,
		CancellationReason:  o.CancellationReason,
		CompletedAt:         o.CompletedAt,
		MaterialsDeductedAt: o.MaterialsDeductedAt,
		StockDeductedAt:     o.StockDeductedAt,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	return m
}

// ProductionOrderSequenceModel holds the last internal id issued per tenant
type ProductionOrderSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductionOrderSequenceModel) TableName() string {
	return "production_order_sequences"
}
